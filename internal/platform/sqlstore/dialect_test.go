package sqlstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectRebind(t *testing.T) {
	t.Parallel()

	q := `UPDATE users SET progress = ?, card_set = ? WHERE id = ?`

	assert.Equal(t, q, Dialect{}.rebind(q))
	assert.Equal(t,
		`UPDATE users SET progress = $1, card_set = $2 WHERE id = $3`,
		Dialect{DollarPlaceholders: true}.rebind(q))
}

func TestDialectMapError(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	mapped := errors.New("mapped")

	assert.Same(t, base, Dialect{}.mapError(base))
	assert.NoError(t, Dialect{MapError: func(error) error { return mapped }}.mapError(nil))
	assert.Same(t, mapped, Dialect{MapError: func(error) error { return mapped }}.mapError(base))
}
