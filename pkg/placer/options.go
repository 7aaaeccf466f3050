package placer

import "github.com/matzehuels/autolayout/pkg/geom"

// Options tunes the search. Distances are in canvas units.
type Options struct {
	// Center is where the first core node is centred and the origin of the
	// free-position ring search.
	Center geom.Point
	// Gap is the base centre-to-centre distance between linked nodes and the
	// unit of the perturbation grid and the ring search.
	Gap float64
	// MinLinkGap is the minimum free space kept between linked boxes along
	// the link axis, so large frames are pushed further apart than Gap.
	MinLinkGap float64
	// SiblingGap spreads nodes that hang off the same anchor of a neighbour.
	SiblingGap float64
	// Stagger shifts odd siblings further along the link axis.
	Stagger float64
	// Perturbations are fractions of Gap combined on both axes around each
	// ideal candidate. Zero is implied.
	Perturbations []float64
	// Clearance is the spacing used when shifting seeds past frames and when
	// spreading wide siblings.
	Clearance float64
	// FrameShiftAttempts bounds the seed collision shift.
	FrameShiftAttempts int
	// RingRadii and RingSteps shape the free-position search.
	RingRadii int
	RingSteps int
	// MaxDepth and MaxTrials bound the search; exceeding either abandons it.
	MaxDepth  int
	MaxTrials int
}

// DefaultOptions returns the stock search parameters.
func DefaultOptions() Options {
	return Options{
		Center:             geom.Point{X: 600, Y: 400},
		Gap:                250,
		MinLinkGap:         80,
		SiblingGap:         160,
		Stagger:            40,
		Perturbations:      []float64{-0.3, 0.3, -0.6, 0.6},
		Clearance:          20,
		FrameShiftAttempts: 20,
		RingRadii:          10,
		RingSteps:          8,
		MaxDepth:           200,
		MaxTrials:          50000,
	}
}

// SetDefaults fills zero fields from [DefaultOptions].
func (o *Options) SetDefaults() {
	d := DefaultOptions()
	if o.Center == (geom.Point{}) {
		o.Center = d.Center
	}
	if o.Gap <= 0 {
		o.Gap = d.Gap
	}
	if o.MinLinkGap <= 0 {
		o.MinLinkGap = d.MinLinkGap
	}
	if o.SiblingGap <= 0 {
		o.SiblingGap = d.SiblingGap
	}
	if o.Stagger < 0 {
		o.Stagger = d.Stagger
	}
	if o.Perturbations == nil {
		o.Perturbations = d.Perturbations
	}
	if o.Clearance <= 0 {
		o.Clearance = d.Clearance
	}
	if o.FrameShiftAttempts <= 0 {
		o.FrameShiftAttempts = d.FrameShiftAttempts
	}
	if o.RingRadii <= 0 {
		o.RingRadii = d.RingRadii
	}
	if o.RingSteps <= 0 {
		o.RingSteps = d.RingSteps
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.MaxTrials <= 0 {
		o.MaxTrials = d.MaxTrials
	}
}
