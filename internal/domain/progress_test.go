package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressIncrement(t *testing.T) {
	t.Parallel()

	var p Progress
	require.NoError(t, p.Increment(CounterStudyPoints, 3))
	require.NoError(t, p.Increment(CounterFlashcardsStudied, 1))
	require.NoError(t, p.Increment(CounterQuizzesCompleted, 0))
	assert.Equal(t, 3, p.Metric("study_points"))
	assert.Equal(t, 1, p.Metric("flashcards_studied"))
	assert.Zero(t, p.Metric("unknown"))

	assert.ErrorIs(t, p.Increment(CounterStudyPoints, -1), ErrValidation)
	assert.Equal(t, 3, p.StudyPoints, "a rejected decrement leaves the counter unchanged")
	assert.ErrorIs(t, p.Increment("karma", 1), ErrValidation)
}

func TestEvaluateBadges(t *testing.T) {
	t.Parallel()

	defs := []Badge{
		{Name: "First Steps", Metric: "flashcards_studied", Threshold: 1},
		{Name: "Scholar", Metric: "study_points", Threshold: 10},
		{Name: "Quizzer", Metric: "quizzes_completed", Threshold: 1},
		{Name: "Unknown", Metric: "nothing", Threshold: 1},
	}

	p := Progress{FlashcardsStudied: 4, StudyPoints: 12, QuizzesCompleted: 1}
	earned := EvaluateBadges(&p, defs)
	require.Len(t, earned, 3)
	assert.Equal(t, "First Steps", earned[0].Name)
	assert.Equal(t, "Scholar", earned[1].Name)
	assert.Equal(t, "Quizzer", earned[2].Name)

	for _, b := range earned {
		assert.True(t, p.AddBadge(b.Name))
	}
	assert.False(t, p.AddBadge("Scholar"), "badges are awarded once")
	assert.Empty(t, EvaluateBadges(&p, defs), "earned badges are not returned again")
	assert.Equal(t, []string{"First Steps", "Scholar", "Quizzer"}, p.Badges)
}

func TestRecordQuizCompletionStreaks(t *testing.T) {
	t.Parallel()

	day := func(d, h int) time.Time { return time.Date(2024, 5, d, h, 0, 0, 0, time.UTC) }

	var p Progress
	p.RecordQuizCompletion(day(1, 9))
	assert.Equal(t, 1, p.CurrentStreak)

	p.RecordQuizCompletion(day(1, 22))
	assert.Equal(t, 1, p.CurrentStreak, "same day does not extend the streak")

	p.RecordQuizCompletion(day(2, 1))
	p.RecordQuizCompletion(day(3, 23))
	assert.Equal(t, 3, p.CurrentStreak)
	assert.Equal(t, 3, p.LongestStreak)

	p.RecordQuizCompletion(day(6, 12))
	assert.Equal(t, 1, p.CurrentStreak, "a missed day restarts the streak")
	assert.Equal(t, 3, p.LongestStreak)
	assert.Equal(t, 5, p.QuizzesCompleted)
	require.NotNil(t, p.LastQuizCompletion)
	assert.Equal(t, day(6, 12), *p.LastQuizCompletion)
}

func TestNewUserDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u, err := NewUser("1234", now)
	require.NoError(t, err)
	assert.True(t, u.Preferences.Notifications)
	assert.Empty(t, u.Progress.Badges)
	assert.NotNil(t, u.Progress.Badges)
	assert.Equal(t, now, u.CreatedAt)

	_, err = NewUser(" ", now)
	assert.ErrorIs(t, err, ErrValidation)
}
