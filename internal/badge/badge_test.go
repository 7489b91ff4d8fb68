package badge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{
			name: "mapping",
			input: `
badges:
  - name: First Steps
    description: Study one card
    metric: flashcards_studied
    threshold: 1
  - name: Quizzer
    metric: quizzes_completed
    threshold: 5
`,
			want: []string{"First Steps", "Quizzer"},
		},
		{
			name:  "json list",
			input: `[{"name":"Points","metric":"study_points","threshold":100}]`,
			want:  []string{"Points"},
		},
		{
			name:  "empty document",
			input: "",
		},
		{
			name:    "missing name",
			input:   `[{"metric":"study_points","threshold":1}]`,
			wantErr: "name is required",
		},
		{
			name:    "duplicate name",
			input:   `[{"name":"A","metric":"study_points","threshold":1},{"name":"A","metric":"study_points","threshold":2}]`,
			wantErr: "duplicate name",
		},
		{
			name:    "zero threshold",
			input:   `[{"name":"A","metric":"study_points","threshold":0}]`,
			wantErr: "threshold must be positive",
		},
		{
			name:    "scalar document",
			input:   `hello`,
			wantErr: "must be a list",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			defs, err := Parse([]byte(tc.input))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(defs))
			for _, d := range defs {
				names = append(names, d.Name)
			}
			if tc.want == nil {
				assert.Empty(t, names)
				return
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestParseKeepsFields(t *testing.T) {
	t.Parallel()

	defs, err := Parse([]byte("- name: Streak\n  description: Three days in a row\n  metric: current_streak\n  threshold: 3\n"))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, domain.Badge{
		Name:        "Streak",
		Description: "Three days in a row",
		Metric:      "current_streak",
		Threshold:   3,
	}, defs[0])
}

func TestLoad(t *testing.T) {
	t.Parallel()

	defs, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, defs)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "badges.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"badges":[{"name":"One","metric":"study_points","threshold":1}]}`), 0o600))
	defs, err = Load(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "One", defs[0].Name)
}
