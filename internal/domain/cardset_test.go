package domain

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setOf(t *testing.T, n int) *CardSet {
	t.Helper()
	s := NewCardSet()
	for i := 1; i <= n; i++ {
		require.True(t, s.Add(testCard(t, strconv.Itoa(i))))
	}
	return s
}

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestCardSetCapacity(t *testing.T) {
	t.Parallel()

	s := setOf(t, MaxCapacity)
	require.Equal(t, MaxCapacity, s.Len())
	assert.True(t, s.Full())

	assert.False(t, s.Add(testCard(t, "overflow")))
	assert.Equal(t, MaxCapacity, s.Len())
	assert.False(t, s.Contains("overflow"))

	assert.ErrorIs(t, s.Update(testCard(t, "overflow")), ErrCapacityExceeded)
	assert.Equal(t, MaxCapacity, s.Len())

	existing := testCard(t, "1")
	existing.SetLabel("kept")
	require.NoError(t, s.Update(existing), "updating an existing card works on a full set")
}

func TestCardSetPreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	s := setOf(t, 3)
	replacement := testCard(t, "1")
	replacement.Back.Word = "pear"
	require.True(t, s.Add(replacement))

	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Cards()))
	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "pear", got.Back.Word)

	assert.True(t, s.Remove("2"))
	assert.False(t, s.Remove("2"))
	assert.Equal(t, []string{"1", "3"}, ids(s.Cards()))
}

func TestCardSetGetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := setOf(t, 1)
	c, _ := s.Get("1")
	c.SpacedRepetition.ToReview = true

	again, _ := s.Get("1")
	assert.False(t, again.SpacedRepetition.ToReview)
}

func TestCardSetFilter(t *testing.T) {
	t.Parallel()

	s := setOf(t, 6)
	for _, id := range []string{"2", "4", "5"} {
		c, _ := s.Get(id)
		c.SetLabel("animals")
		require.NoError(t, s.Update(c))
	}
	for _, id := range []string{"4", "6"} {
		c, _ := s.Get(id)
		c.SpacedRepetition.ToReview = true
		require.NoError(t, s.Update(c))
	}

	tests := []struct {
		name  string
		preds []Predicate
		want  []string
	}{
		{"no predicates", nil, []string{"1", "2", "3", "4", "5", "6"}},
		{"label equals", []Predicate{LabelIs("animals")}, []string{"2", "4", "5"}},
		{"label not equal includes unlabeled", []Predicate{LabelIsNot("animals")}, []string{"1", "3", "6"}},
		{"due only", []Predicate{DueOnly()}, []string{"4", "6"}},
		{"conjunction", []Predicate{DueOnly(), LabelIs("animals")}, []string{"4"}},
		{"no match", []Predicate{LabelIs("colors")}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ids(s.Filter(tc.preds...)))
		})
	}
}

func TestCardSetSample(t *testing.T) {
	t.Parallel()

	s := setOf(t, 20)
	before := ids(s.Cards())
	rng := rand.New(rand.NewPCG(1, 2))

	for _, n := range []int{0, 1, 5, 20, 50} {
		got := s.Sample(n, rng)
		want := min(n, 20)
		require.Len(t, got, want)

		seen := map[string]bool{}
		for _, c := range got {
			assert.False(t, seen[c.ID], "sample must not repeat cards")
			seen[c.ID] = true
			assert.True(t, s.Contains(c.ID))
		}
	}

	assert.Equal(t, before, ids(s.Cards()), "sampling must not mutate the set")
	assert.Empty(t, s.Sample(5, rng, LabelIs("none")))
	assert.Empty(t, s.Sample(-1, nil))
	assert.Len(t, s.Sample(3, nil), 3)
}

func TestCardSetSampleIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	s := setOf(t, 30)
	a := s.Sample(10, rand.New(rand.NewPCG(7, 7)))
	b := s.Sample(10, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, ids(a), ids(b))
}

func TestCardSetDeleteAndLabelByPosition(t *testing.T) {
	t.Parallel()

	s := setOf(t, 20)
	display := s.Cards()

	label, positions, err := ParseLabelInput("animals 4, 15, 20, 6-13", len(display))
	require.NoError(t, err)
	n, err := s.Label(positions, label, display)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t,
		[]string{"4", "6", "7", "8", "9", "10", "11", "12", "13", "15", "20"},
		ids(s.Filter(LabelIs("animals"))))

	_, err = s.Delete([]int{1, 21}, display)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 20, s.Len(), "an out of range position rejects the whole request")

	n, err = s.Delete([]int{1, 2}, display)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 18, s.Len())

	n, err = s.Delete([]int{1}, display)
	require.NoError(t, err)
	assert.Zero(t, n, "stale display entries are skipped")

	_, err = s.Label([]int{3}, "", display)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCardSetJSONKeepsOrder(t *testing.T) {
	t.Parallel()

	s := NewCardSet(testCard(t, "b"), testCard(t, "a"), testCard(t, "c"))
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded CardSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"b", "a", "c"}, ids(decoded.Cards()))
}
