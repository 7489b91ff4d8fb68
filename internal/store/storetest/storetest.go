// Package storetest holds the behavioural test suite every store.UserStore
// implementation must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Factory returns a fresh, empty store. It registers its own cleanup.
type Factory func(t *testing.T) store.UserStore

var baseTime = time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateIsIdempotent", func(t *testing.T) { testCreateIsIdempotent(t, newStore(t)) })
	t.Run("MissingUser", func(t *testing.T) { testMissingUser(t, newStore(t)) })
	t.Run("CardSetRoundTrip", func(t *testing.T) { testCardSetRoundTrip(t, newStore(t)) })
	t.Run("Counters", func(t *testing.T) { testCounters(t, newStore(t)) })
	t.Run("Badges", func(t *testing.T) { testBadges(t, newStore(t)) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("SaveReview", func(t *testing.T) { testSaveReview(t, newStore(t)) })
	t.Run("SaveReviewIsAtomic", func(t *testing.T) { testSaveReviewIsAtomic(t, newStore(t)) })
	t.Run("QuizCompletion", func(t *testing.T) { testQuizCompletion(t, newStore(t)) })
	t.Run("ConcurrentIncrements", func(t *testing.T) { testConcurrentIncrements(t, newStore(t)) })
	t.Run("ListIDs", func(t *testing.T) { testListIDs(t, newStore(t)) })
}

func mustUser(t *testing.T, s store.UserStore, id string) {
	t.Helper()
	u, err := domain.NewUser(id, baseTime)
	require.NoError(t, err)
	created, err := s.Create(context.Background(), u)
	require.NoError(t, err)
	require.True(t, created)
}

func card(t *testing.T, id string) domain.Card {
	t.Helper()
	c, err := domain.NewCard(id, domain.Side{Word: "물", Definition: "액체"}, domain.Side{Word: "water", Definition: "a liquid"})
	require.NoError(t, err)
	return *c
}

func testCreateIsIdempotent(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")
	require.NoError(t, s.IncrementCounter(ctx, "u1", domain.CounterStudyPoints, 5))

	again, err := domain.NewUser("u1", baseTime.Add(time.Hour))
	require.NoError(t, err)
	created, err := s.Create(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, u.Progress.StudyPoints, "an existing user is not reset")
	assert.True(t, u.Preferences.Notifications)
	assert.NotNil(t, u.Progress.Badges)

	_, err = s.Create(ctx, &domain.User{})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func testMissingUser(t *testing.T, s store.UserStore) {
	ctx := context.Background()

	_, err := s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.GetCardSet(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.ErrorIs(t, s.PutCardSet(ctx, "ghost", domain.NewCardSet()), store.ErrUserNotFound)
	assert.ErrorIs(t, s.IncrementCounter(ctx, "ghost", domain.CounterStudyPoints, 1), store.ErrUserNotFound)
	assert.ErrorIs(t, s.SetNotifications(ctx, "ghost", false), store.ErrUserNotFound)
	_, err = s.AddBadge(ctx, "ghost", "x")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.RecordQuizCompletion(ctx, "ghost", baseTime)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.True(t, store.IsNotFoundError(s.SaveReview(ctx, "ghost", card(t, "1"), nil)))
}

func testCardSetRoundTrip(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")

	empty, err := s.GetCardSet(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	set := domain.NewCardSet()
	for _, id := range []string{"30", "10", "20"} {
		require.True(t, set.Add(card(t, id)))
	}
	labeled, _ := set.Get("10")
	labeled.SetLabel("drinks")
	reviewed := baseTime.Add(-time.Hour)
	labeled.SpacedRepetition.LastReviewed = &reviewed
	labeled.SpacedRepetition.ToReview = true
	require.NoError(t, set.Update(labeled))

	require.NoError(t, s.PutCardSet(ctx, "u1", set))

	got, err := s.GetCardSet(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())

	var order []string
	for _, c := range got.Cards() {
		order = append(order, c.ID)
	}
	assert.Equal(t, []string{"30", "10", "20"}, order, "display order survives persistence")

	c, ok := got.Get("10")
	require.True(t, ok)
	label, _ := c.LabelValue()
	assert.Equal(t, "drinks", label)
	assert.True(t, c.SpacedRepetition.ToReview)
	require.NotNil(t, c.SpacedRepetition.LastReviewed)
	assert.True(t, reviewed.Equal(*c.SpacedRepetition.LastReviewed))
}

func testCounters(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")

	require.NoError(t, s.IncrementCounter(ctx, "u1", domain.CounterStudyPoints, 3))
	require.NoError(t, s.IncrementCounter(ctx, "u1", domain.CounterStudyPoints, 1))
	require.NoError(t, s.IncrementCounter(ctx, "u1", domain.CounterFlashcardsStudied, 2))

	err := s.IncrementCounter(ctx, "u1", domain.CounterStudyPoints, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, u.Progress.StudyPoints)
	assert.Equal(t, 2, u.Progress.FlashcardsStudied)
}

func testBadges(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")

	added, err := s.AddBadge(ctx, "u1", "First Steps")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddBadge(ctx, "u1", "Scholar")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddBadge(ctx, "u1", "First Steps")
	require.NoError(t, err)
	assert.False(t, added)

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"First Steps", "Scholar"}, u.Progress.Badges)
}

func testNotifications(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")

	require.NoError(t, s.SetNotifications(ctx, "u1", false))
	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, u.Preferences.Notifications)

	require.NoError(t, s.SetNotifications(ctx, "u1", true))
	u, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.Preferences.Notifications)
}

func testSaveReview(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")
	require.NoError(t, s.PutCardSet(ctx, "u1", domain.NewCardSet(card(t, "1"), card(t, "2"))))

	rated := card(t, "2")
	rated.SpacedRepetition.Interval = 30
	rated.SpacedRepetition.TimesStudied = 1

	err := s.SaveReview(ctx, "u1", rated, map[domain.Counter]int{
		domain.CounterStudyPoints:       3,
		domain.CounterFlashcardsStudied: 1,
	})
	require.NoError(t, err)

	set, err := s.GetCardSet(ctx, "u1")
	require.NoError(t, err)
	got, _ := set.Get("2")
	assert.Equal(t, 30, got.SpacedRepetition.Interval)
	assert.Equal(t, 1, got.SpacedRepetition.TimesStudied)
	assert.Equal(t, "1", set.Cards()[0].ID, "other cards keep their position")

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, u.Progress.StudyPoints)
	assert.Equal(t, 1, u.Progress.FlashcardsStudied)
}

func testSaveReviewIsAtomic(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")
	require.NoError(t, s.PutCardSet(ctx, "u1", domain.NewCardSet(card(t, "1"))))

	err := s.SaveReview(ctx, "u1", card(t, "deleted"), map[domain.Counter]int{domain.CounterStudyPoints: 3})
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	rated := card(t, "1")
	rated.SpacedRepetition.TimesStudied = 1
	err = s.SaveReview(ctx, "u1", rated, map[domain.Counter]int{
		domain.CounterStudyPoints:       3,
		domain.CounterFlashcardsStudied: -1,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, u.Progress.StudyPoints, "no counter moves when the review is rejected")
	set, err := s.GetCardSet(ctx, "u1")
	require.NoError(t, err)
	got, _ := set.Get("1")
	assert.Zero(t, got.SpacedRepetition.TimesStudied, "no card change when the review is rejected")
	assert.False(t, set.Contains("deleted"))
}

func testQuizCompletion(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")

	p, err := s.RecordQuizCompletion(ctx, "u1", baseTime)
	require.NoError(t, err)
	assert.Equal(t, 1, p.QuizzesCompleted)
	assert.Equal(t, 1, p.CurrentStreak)

	p, err = s.RecordQuizCompletion(ctx, "u1", baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, p.QuizzesCompleted)
	assert.Equal(t, 2, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak)

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.Progress.LastQuizCompletion)
	assert.True(t, baseTime.Add(24*time.Hour).Equal(*u.Progress.LastQuizCompletion))
}

func testConcurrentIncrements(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	mustUser(t, s, "u1")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.IncrementCounter(ctx, "u1", domain.CounterStudyPoints, 1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	u, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, workers, u.Progress.StudyPoints)
}

func testListIDs(t *testing.T, s store.UserStore) {
	ctx := context.Background()
	for i := 3; i >= 1; i-- {
		mustUser(t, s, "user-"+strconv.Itoa(i))
	}
	ids, err := s.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2", "user-3"}, ids)
}
