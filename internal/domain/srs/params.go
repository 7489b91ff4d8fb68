package srs

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// PhaseFactors holds the interval multiplier for each scheduling phase.
type PhaseFactors struct {
	Learning float64
	Review   float64
}

// Params defines all configurable parameters for the scheduler.
type Params struct {
	// Interval bounds and phase boundary, in minutes.
	MinInterval       int
	MaxInterval       int
	LearningThreshold int

	// Per-rating interval multipliers and session points.
	Factors map[domain.Rating]PhaseFactors
	Points  map[domain.Rating]int

	// ReremindAfter is how long a flagged card waits before it is reminded again.
	ReremindAfter time.Duration
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	MaxIntervalDays int
	ReremindAfter   time.Duration
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinInterval:       domain.MinIntervalMinutes,
		MaxInterval:       domain.DefaultMaxIntervalMinutes,
		LearningThreshold: domain.LearningThresholdMinutes,

		Factors: map[domain.Rating]PhaseFactors{
			domain.RatingGood: {Learning: 3.0, Review: 3.5},
			domain.RatingOkay: {Learning: 1.0, Review: 1.0},
			domain.RatingPoor: {Learning: 0.5, Review: 0.75},
		},
		Points: map[domain.Rating]int{
			domain.RatingGood: 3,
			domain.RatingOkay: 1,
			domain.RatingPoor: 0,
		},

		ReremindAfter: 24 * time.Hour,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MaxIntervalDays > 0 {
		params.MaxInterval = config.MaxIntervalDays * 24 * 60
	}
	if config.ReremindAfter > 0 {
		params.ReremindAfter = config.ReremindAfter
	}

	return params
}

// Validate checks that the bounds are ordered and every rating has a factor.
func (p *Params) Validate() error {
	if p.MinInterval <= 0 {
		return fmt.Errorf("min interval must be positive, got %d", p.MinInterval)
	}
	if p.MaxInterval < p.MinInterval {
		return fmt.Errorf("max interval %d is below min interval %d", p.MaxInterval, p.MinInterval)
	}
	if p.ReremindAfter <= 0 {
		return fmt.Errorf("re-remind delay must be positive, got %s", p.ReremindAfter)
	}
	for _, r := range []domain.Rating{domain.RatingGood, domain.RatingOkay, domain.RatingPoor} {
		f, ok := p.Factors[r]
		if !ok || f.Learning <= 0 || f.Review <= 0 {
			return fmt.Errorf("missing or non-positive factor for rating %q", r)
		}
		if _, ok := p.Points[r]; !ok {
			return fmt.Errorf("missing points for rating %q", r)
		}
	}
	return nil
}
