package dictionary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	entry := Entry{ID: "42", KoreanWord: "사과", KoreanDfn: "과일", TransWord: "apple", TransDfn: "a fruit"}
	card, err := NewCard(entry, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", card.ID)
	assert.Equal(t, domain.Side{Word: "사과", Definition: "과일"}, card.Front)
	assert.Equal(t, domain.Side{Word: "apple", Definition: "a fruit"}, card.Back)
	assert.Equal(t, domain.InitialIntervalMinutes, card.SpacedRepetition.Interval)
	assert.False(t, card.SpacedRepetition.ToReview)
}

func TestNewCardGeneratesID(t *testing.T) {
	t.Parallel()

	card, err := NewCard(Entry{KoreanWord: "물", TransWord: "water"}, nil)
	require.NoError(t, err)
	assert.Len(t, card.ID, 21)

	card, err = NewCard(Entry{KoreanWord: "물", TransWord: "water"}, func() (string, error) { return "fixed", nil })
	require.NoError(t, err)
	assert.Equal(t, "fixed", card.ID)

	_, err = NewCard(Entry{KoreanWord: "물", TransWord: "water"}, func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
}

func TestNewCardRequiresWords(t *testing.T) {
	t.Parallel()

	_, err := NewCard(Entry{ID: "1", KoreanWord: "  ", TransWord: "x"}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
