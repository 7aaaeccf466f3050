package layout

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/autolayout/pkg/align"
	"github.com/matzehuels/autolayout/pkg/constraint"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/errors"
	"github.com/matzehuels/autolayout/pkg/frame"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/layered"
	"github.com/matzehuels/autolayout/pkg/placer"
	"github.com/matzehuels/autolayout/pkg/route"
)

// =============================================================================
// Config - single source of truth for every tunable
// =============================================================================

// Config holds every layout parameter. The zero value is not usable; start
// from [DefaultConfig] or [ForStyle], or call [Config.SetDefaults].
type Config struct {
	Style string `toml:"style" json:"style,omitempty" validate:"omitempty,oneof=flowchart architecture roadmap"`

	CenterX float64 `toml:"center_x" json:"center_x"`
	CenterY float64 `toml:"center_y" json:"center_y"`

	// Search
	Gap           float64 `toml:"gap" json:"gap" validate:"gt=0"`
	MinLinkGap    float64 `toml:"min_link_gap" json:"min_link_gap" validate:"gte=0"`
	SiblingGap    float64 `toml:"sibling_gap" json:"sibling_gap" validate:"gt=0"`
	Stagger       float64 `toml:"stagger" json:"stagger" validate:"gte=0"`
	Clearance     float64 `toml:"clearance" json:"clearance" validate:"gte=0"`
	PathClearance float64 `toml:"path_clearance" json:"path_clearance" validate:"gte=0"`
	Standoff      float64 `toml:"standoff" json:"standoff" validate:"gt=0"`
	MaxDepth      int     `toml:"max_depth" json:"max_depth" validate:"gt=0,lte=100000"`
	MaxTrials     int     `toml:"max_trials" json:"max_trials" validate:"gt=0,lte=10000000"`

	// Post pass
	ExternalGap float64 `toml:"external_gap" json:"external_gap" validate:"gte=0"`
	SkipAlign   bool    `toml:"skip_align" json:"skip_align,omitempty"`

	Frame    FrameConfig    `toml:"frame" json:"frame"`
	Fallback FallbackConfig `toml:"fallback" json:"fallback"`
}

// FrameConfig holds the frame packing defaults.
type FrameConfig struct {
	LabelBand   float64 `toml:"label_band" json:"label_band" validate:"gte=0"`
	ChildWidth  float64 `toml:"child_width" json:"child_width" validate:"gt=0"`
	ChildHeight float64 `toml:"child_height" json:"child_height" validate:"gt=0"`
	NodeWidth   float64 `toml:"node_width" json:"node_width" validate:"gt=0"`
	NodeHeight  float64 `toml:"node_height" json:"node_height" validate:"gt=0"`
	EmptyWidth  float64 `toml:"empty_width" json:"empty_width" validate:"gt=0"`
	EmptyHeight float64 `toml:"empty_height" json:"empty_height" validate:"gt=0"`
}

// FallbackConfig holds the layered fallback parameters.
type FallbackConfig struct {
	Direction   string  `toml:"direction" json:"direction" validate:"oneof=auto TB BT LR RL"`
	NodeSpacing float64 `toml:"node_spacing" json:"node_spacing" validate:"gt=0"`
	RankSpacing float64 `toml:"rank_spacing" json:"rank_spacing" validate:"gt=0"`
	NodeGap     float64 `toml:"node_gap" json:"node_gap" validate:"gt=0"`
	RankGap     float64 `toml:"rank_gap" json:"rank_gap" validate:"gt=0"`
	Sweeps      int     `toml:"sweeps" json:"sweeps" validate:"gt=0,lte=100"`
}

// DefaultConfig returns the flowchart preset.
func DefaultConfig() Config {
	p := placer.DefaultOptions()
	l := layered.DefaultOptions()
	f := frame.DefaultOptions()
	return Config{
		Style:         diagram.StyleFlowchart,
		CenterX:       p.Center.X,
		CenterY:       p.Center.Y,
		Gap:           p.Gap,
		MinLinkGap:    p.MinLinkGap,
		SiblingGap:    p.SiblingGap,
		Stagger:       p.Stagger,
		Clearance:     constraint.DefaultClearance,
		PathClearance: constraint.DefaultPathClearance,
		Standoff:      route.DefaultStandoff,
		MaxDepth:      p.MaxDepth,
		MaxTrials:     p.MaxTrials,
		ExternalGap:   align.DefaultExternalGap,
		Frame: FrameConfig{
			LabelBand:   f.LabelBand,
			ChildWidth:  f.ChildSize.Width,
			ChildHeight: f.ChildSize.Height,
			NodeWidth:   f.NodeSize.Width,
			NodeHeight:  f.NodeSize.Height,
			EmptyWidth:  f.EmptyFrame.Width,
			EmptyHeight: f.EmptyFrame.Height,
		},
		Fallback: FallbackConfig{
			Direction:   string(l.Direction),
			NodeSpacing: l.NodeSpacing,
			RankSpacing: l.RankSpacing,
			NodeGap:     l.NodeGap,
			RankGap:     l.RankGap,
			Sweeps:      l.Sweeps,
		},
	}
}

// ForStyle returns the spacing preset for a diagram style. Unknown or empty
// styles get the flowchart preset.
func ForStyle(style string) Config {
	c := DefaultConfig()
	switch style {
	case diagram.StyleArchitecture:
		c.Style = style
		c.Gap = 300
		c.SiblingGap = 200
		c.Fallback.NodeSpacing = 200
		c.Fallback.RankSpacing = 300
	case diagram.StyleRoadmap:
		c.Style = style
		c.Gap = 220
		c.SiblingGap = 140
		c.Fallback.Direction = string(layered.LeftToRight)
	}
	return c
}

// SetDefaults fills zero fields from the preset of c.Style.
func (c *Config) SetDefaults() {
	d := ForStyle(c.Style)
	if c.Style == "" {
		c.Style = d.Style
	}
	if c.CenterX == 0 && c.CenterY == 0 {
		c.CenterX, c.CenterY = d.CenterX, d.CenterY
	}
	setf(&c.Gap, d.Gap)
	setf(&c.MinLinkGap, d.MinLinkGap)
	setf(&c.SiblingGap, d.SiblingGap)
	setf(&c.Stagger, d.Stagger)
	setf(&c.Clearance, d.Clearance)
	setf(&c.PathClearance, d.PathClearance)
	setf(&c.Standoff, d.Standoff)
	seti(&c.MaxDepth, d.MaxDepth)
	seti(&c.MaxTrials, d.MaxTrials)
	setf(&c.ExternalGap, d.ExternalGap)

	setf(&c.Frame.LabelBand, d.Frame.LabelBand)
	setf(&c.Frame.ChildWidth, d.Frame.ChildWidth)
	setf(&c.Frame.ChildHeight, d.Frame.ChildHeight)
	setf(&c.Frame.NodeWidth, d.Frame.NodeWidth)
	setf(&c.Frame.NodeHeight, d.Frame.NodeHeight)
	setf(&c.Frame.EmptyWidth, d.Frame.EmptyWidth)
	setf(&c.Frame.EmptyHeight, d.Frame.EmptyHeight)

	if c.Fallback.Direction == "" {
		c.Fallback.Direction = d.Fallback.Direction
	}
	setf(&c.Fallback.NodeSpacing, d.Fallback.NodeSpacing)
	setf(&c.Fallback.RankSpacing, d.Fallback.RankSpacing)
	setf(&c.Fallback.NodeGap, d.Fallback.NodeGap)
	setf(&c.Fallback.RankGap, d.Fallback.RankGap)
	seti(&c.Fallback.Sweeps, d.Fallback.Sweeps)
}

func setf(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func seti(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

var validate = validator.New()

// Validate checks every field against its struct tag and reports the first
// failure as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	e := verrs[0]
	switch e.Tag() {
	case "gt":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be greater than %s", e.Namespace(), e.Param())
	case "gte":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", e.Namespace(), e.Param())
	case "lte":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s", e.Namespace(), e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be one of %s, got %q", e.Namespace(), e.Param(), e.Value())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", e.Namespace(), e.Tag())
}

// LoadConfig reads a TOML file. Missing keys take the defaults of the style
// named in the file.
func LoadConfig(path string) (Config, error) {
	var c Config
	if err := errors.ValidatePath(path); err != nil {
		return c, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undec[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// WriteConfig encodes c as TOML.
func WriteConfig(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

func (c *Config) placerOptions() placer.Options {
	p := placer.DefaultOptions()
	p.Center = geom.Point{X: c.CenterX, Y: c.CenterY}
	p.Gap = c.Gap
	p.MinLinkGap = c.MinLinkGap
	p.SiblingGap = c.SiblingGap
	p.Stagger = c.Stagger
	p.Clearance = c.Clearance
	p.MaxDepth = c.MaxDepth
	p.MaxTrials = c.MaxTrials
	return p
}

func (c *Config) layeredOptions() layered.Options {
	return layered.Options{
		Direction:   layered.Direction(c.Fallback.Direction),
		NodeSpacing: c.Fallback.NodeSpacing,
		RankSpacing: c.Fallback.RankSpacing,
		NodeGap:     c.Fallback.NodeGap,
		RankGap:     c.Fallback.RankGap,
		Sweeps:      c.Fallback.Sweeps,
		Center:      geom.Point{X: c.CenterX, Y: c.CenterY},
	}
}

func (c *Config) frameOptions() frame.Options {
	return frame.Options{
		LabelBand:  c.Frame.LabelBand,
		ChildSize:  geom.Size{Width: c.Frame.ChildWidth, Height: c.Frame.ChildHeight},
		NodeSize:   geom.Size{Width: c.Frame.NodeWidth, Height: c.Frame.NodeHeight},
		EmptyFrame: geom.Size{Width: c.Frame.EmptyWidth, Height: c.Frame.EmptyHeight},
	}
}

func (c *Config) checker() *constraint.Checker {
	return &constraint.Checker{Clearance: c.Clearance, PathClearance: c.PathClearance}
}
