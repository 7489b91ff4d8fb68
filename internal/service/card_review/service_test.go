package card_review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/lock"
	"github.com/phrazzld/scry-vocab/internal/platform/memory"
	"github.com/phrazzld/scry-vocab/internal/store"
)

var now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// saveFailingStore fails every SaveReview with err.
type saveFailingStore struct {
	*memory.UserStore
	err error
}

func (s *saveFailingStore) SaveReview(context.Context, string, domain.Card, map[domain.Counter]int) error {
	return s.err
}

func setup(t *testing.T, st store.UserStore, mem *memory.UserStore) CardReviewService {
	t.Helper()
	ctx := context.Background()

	u, err := domain.NewUser("u1", now)
	require.NoError(t, err)
	_, err = mem.Create(ctx, u)
	require.NoError(t, err)

	card, err := domain.NewCard("c1", domain.Side{Word: "나무"}, domain.Side{Word: "tree"})
	require.NoError(t, err)
	require.NoError(t, mem.PutCardSet(ctx, "u1", domain.NewCardSet(*card)))

	return NewCardReviewService(st, srs.NewDefaultService(), lock.NewKeyed(), clock.NewFake(now),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmitAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := memory.NewUserStore()
	svc := setup(t, mem, mem)

	result, err := svc.SubmitAnswer(ctx, "u1", "c1", ReviewAnswer{Rating: domain.RatingGood})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Points)
	assert.Equal(t, 30, result.Card.SpacedRepetition.Interval)
	assert.Equal(t, 1, result.Card.SpacedRepetition.TimesStudied)
	require.NotNil(t, result.Card.SpacedRepetition.LastReviewed)
	assert.Equal(t, now, *result.Card.SpacedRepetition.LastReviewed)

	set, err := mem.GetCardSet(ctx, "u1")
	require.NoError(t, err)
	stored, ok := set.Get("c1")
	require.True(t, ok)
	assert.Equal(t, result.Card, stored)

	user, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Progress.StudyPoints)
	assert.Equal(t, 1, user.Progress.FlashcardsStudied)

	// A poor rating still counts as studied but earns nothing.
	_, err = svc.SubmitAnswer(ctx, "u1", "c1", ReviewAnswer{Rating: domain.RatingPoor})
	require.NoError(t, err)
	user, err = mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Progress.StudyPoints)
	assert.Equal(t, 2, user.Progress.FlashcardsStudied)
}

func TestSubmitAnswerErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := memory.NewUserStore()
	svc := setup(t, mem, mem)

	_, err := svc.SubmitAnswer(ctx, "u1", "c1", ReviewAnswer{Rating: "great"})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.SubmitAnswer(ctx, "u1", "gone", ReviewAnswer{Rating: domain.RatingGood})
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = svc.SubmitAnswer(ctx, "nobody", "c1", ReviewAnswer{Rating: domain.RatingGood})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "submit_answer", svcErr.Operation)
}

func TestSubmitAnswerStoreFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := memory.NewUserStore()
	boom := errors.New("connection reset")
	svc := setup(t, &saveFailingStore{UserStore: mem, err: boom}, mem)

	_, err := svc.SubmitAnswer(ctx, "u1", "c1", ReviewAnswer{Rating: domain.RatingGood})
	assert.ErrorIs(t, err, boom)

	user, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, user.Progress.StudyPoints)

	set, err := mem.GetCardSet(ctx, "u1")
	require.NoError(t, err)
	stored, _ := set.Get("c1")
	assert.Zero(t, stored.SpacedRepetition.TimesStudied)
}

func TestSubmitAnswerCardRemovedBeforeSave(t *testing.T) {
	t.Parallel()
	mem := memory.NewUserStore()
	svc := setup(t, &saveFailingStore{UserStore: mem, err: store.ErrCardNotFound}, mem)

	_, err := svc.SubmitAnswer(context.Background(), "u1", "c1", ReviewAnswer{Rating: domain.RatingOkay})
	assert.ErrorIs(t, err, ErrCardNotFound)
}
