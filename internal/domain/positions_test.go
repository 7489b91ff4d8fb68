package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		size    int
		want    []int
		wantErr bool
	}{
		{name: "single", input: "3", size: 5, want: []int{3}},
		{name: "list", input: "5,1,3", size: 5, want: []int{1, 3, 5}},
		{name: "range", input: "2-4", size: 5, want: []int{2, 3, 4}},
		{name: "overlap dedupes", input: "1-3, 2, 3-4", size: 5, want: []int{1, 2, 3, 4}},
		{name: "single element range", input: "4-4", size: 5, want: []int{4}},
		{name: "upper bound", input: "5", size: 5, want: []int{5}},
		{name: "out of range", input: "6", size: 5, wantErr: true},
		{name: "range past end", input: "4-6", size: 5, wantErr: true},
		{name: "zero", input: "0", size: 5, wantErr: true},
		{name: "reversed range", input: "4-2", size: 5, wantErr: true},
		{name: "empty token", input: "1,,2", size: 5, wantErr: true},
		{name: "trailing comma", input: "1,", size: 5, wantErr: true},
		{name: "not a number", input: "a", size: 5, wantErr: true},
		{name: "dangling dash", input: "3-", size: 5, wantErr: true},
		{name: "double range", input: "1-2-3", size: 5, wantErr: true},
		{name: "empty input", input: " ", size: 5, wantErr: true},
		{name: "empty set", input: "1", size: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePositions(tc.input, tc.size)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLabelInput(t *testing.T) {
	t.Parallel()

	label, positions, err := ParseLabelInput("animals 4, 15, 20, 6-13", 20)
	require.NoError(t, err)
	assert.Equal(t, "animals", label)
	assert.Equal(t, []int{4, 6, 7, 8, 9, 10, 11, 12, 13, 15, 20}, positions)

	label, positions, err = ParseLabelInput("  farm animals   1-2 ", 20)
	require.NoError(t, err)
	assert.Equal(t, "farm animals", label)
	assert.Equal(t, []int{1, 2}, positions)

	for _, bad := range []string{"animals 25", "animals", "4,5", "", "animals 1,,2"} {
		_, _, err := ParseLabelInput(bad, 20)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}
