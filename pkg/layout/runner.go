package layout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/autolayout/pkg/cache"
	"github.com/matzehuels/autolayout/pkg/diagram"
)

// Mode selects the engine operation a [Runner] performs.
type Mode string

const (
	ModeLayout Mode = "layout"
	ModePack   Mode = "pack"
)

// Runner puts a result cache in front of an [Engine]. The CLI and the HTTP
// service share it so both key and reuse results the same way.
//
// Results are keyed by a hash of the input diagram and a hash of the engine
// configuration. Cache failures are logged and treated as misses; they never
// fail a run.
type Runner struct {
	Engine *Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger discards.
func NewRunner(e *Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = e.logger
	}
	return &Runner{Engine: e, Cache: c, Keyer: keyer, Logger: logger}
}

// Run performs mode on d and reports whether the result came from the
// cache. A cached result carries the normalised d with its placements
// applied, the same Diagram a fresh run returns.
func (r *Runner) Run(ctx context.Context, mode Mode, d *diagram.Diagram) (*Result, bool, error) {
	key, err := r.key(mode, d)
	if err != nil {
		r.Logger.Warn("cache key", "err", err)
	}

	if key != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache get", "err", err)
		} else if hit {
			var res Result
			if err := json.Unmarshal(data, &res); err == nil {
				nd := d.Clone()
				diagram.Normalize(nd)
				res.Diagram = res.Apply(nd)
				r.Logger.Debug("cache hit", "mode", mode, "run", res.RunID)
				return &res, true, nil
			}
			_ = r.Cache.Delete(ctx, key)
		}
	}

	var res *Result
	switch mode {
	case ModePack:
		res, err = r.Engine.Pack(ctx, d)
	default:
		res, err = r.Engine.Layout(ctx, d)
	}
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
				r.Logger.Warn("cache set", "err", err)
			}
		}
	}
	return res, false, nil
}

// Close closes the cache.
func (r *Runner) Close() error { return r.Cache.Close() }

func (r *Runner) key(mode Mode, d *diagram.Diagram) (string, error) {
	dh, err := cache.HashJSON(d)
	if err != nil {
		return "", fmt.Errorf("hash diagram: %w", err)
	}
	ch, err := cache.HashJSON(r.Engine.Config())
	if err != nil {
		return "", fmt.Errorf("hash config: %w", err)
	}
	return r.Keyer.LayoutKey(dh, cache.LayoutKeyOpts{Mode: string(mode), ConfigHash: ch}), nil
}

// Apply returns a copy of d with the position and size of every placed node
// taken from r.
func (r *Result) Apply(d *diagram.Diagram) *diagram.Diagram {
	out := d.Clone()
	for i := range out.Nodes {
		n := &out.Nodes[i]
		p, ok := r.Placements[n.ID]
		if !ok {
			continue
		}
		n.Position.X, n.Position.Y = p.X, p.Y
		n.Size.Width, n.Size.Height = p.Width, p.Height
	}
	return out
}
