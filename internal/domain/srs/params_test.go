package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()

	p := NewDefaultParams()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 10, p.MinInterval)
	assert.Equal(t, 43200, p.MaxInterval)
	assert.Equal(t, 60, p.LearningThreshold)
	assert.Equal(t, PhaseFactors{Learning: 3.0, Review: 3.5}, p.Factors[domain.RatingGood])
	assert.Equal(t, PhaseFactors{Learning: 1.0, Review: 1.0}, p.Factors[domain.RatingOkay])
	assert.Equal(t, PhaseFactors{Learning: 0.5, Review: 0.75}, p.Factors[domain.RatingPoor])
	assert.Equal(t, 24*time.Hour, p.ReremindAfter)
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	p := NewParams(ParamsConfig{MaxIntervalDays: 7, ReremindAfter: time.Hour})
	assert.Equal(t, 7*24*60, p.MaxInterval)
	assert.Equal(t, time.Hour, p.ReremindAfter)

	defaults := NewParams(ParamsConfig{})
	assert.Equal(t, NewDefaultParams(), defaults)
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"non-positive min", func(p *Params) { p.MinInterval = 0 }},
		{"max below min", func(p *Params) { p.MaxInterval = 5 }},
		{"missing factor", func(p *Params) { delete(p.Factors, domain.RatingOkay) }},
		{"missing points", func(p *Params) { delete(p.Points, domain.RatingGood) }},
		{"zero re-remind", func(p *Params) { p.ReremindAfter = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := NewDefaultParams()
			tc.mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}
