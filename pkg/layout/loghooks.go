package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks turns layout events into log lines. Search events go to debug.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnLayoutStart(_ context.Context, runID string, nodes, edges int) {
	h.Logger.Debug("layout start", "run", runID, "nodes", nodes, "edges", edges)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, runID, strategy string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "run", runID, "error", err)
		return
	}
	h.Logger.Debug("layout complete", "run", runID, "strategy", strategy, "duration", d)
}

func (h LogHooks) OnCandidateRejected(_ context.Context, runID, nodeID, rule string) {
	h.Logger.Debug("candidate rejected", "run", runID, "node", nodeID, "rule", rule)
}

func (h LogHooks) OnBacktrack(_ context.Context, runID, nodeID string, depth int) {
	h.Logger.Debug("backtrack", "run", runID, "node", nodeID, "depth", depth)
}

func (h LogHooks) OnFallback(_ context.Context, runID, reason string) {
	h.Logger.Info("search abandoned, using layered fallback", "run", runID, "reason", reason)
}

func (h LogHooks) OnAlign(_ context.Context, runID, nodeID string, applied bool) {
	h.Logger.Debug("align", "run", runID, "node", nodeID, "applied", applied)
}
