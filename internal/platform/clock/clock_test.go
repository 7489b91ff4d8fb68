package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("KST", 9*3600))
	f := NewFake(start)
	assert.True(t, start.Equal(f.Now()))
	assert.Equal(t, time.UTC, f.Now().Location())

	f.Advance(30 * time.Minute)
	assert.Equal(t, start.Add(30*time.Minute).UTC(), f.Now())

	later := start.Add(48 * time.Hour)
	f.Set(later)
	assert.Equal(t, later.UTC(), f.Now())

	var c Clock = Real{}
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
