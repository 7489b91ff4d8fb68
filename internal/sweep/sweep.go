// Package sweep runs the periodic due-card scan. Each pass visits every user,
// flags cards whose interval has elapsed, re-reminds flagged cards that are
// still unanswered a day later, persists those changes and hands one reminder
// batch per user to the notifier.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/notify"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/lock"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// ErrAlreadyRunning is returned by Start when the loop is active.
var ErrAlreadyRunning = errors.New("sweep already running")

// Config holds the sweep schedule.
type Config struct {
	// Interval between passes.
	Interval time.Duration
	// Concurrency bounds how many users are processed at once.
	Concurrency int
}

// DefaultConfig returns the standard schedule: every 30 minutes, four users at a time.
func DefaultConfig() Config {
	return Config{Interval: 30 * time.Minute, Concurrency: 4}
}

// Result summarizes one pass.
type Result struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Users     int           `json:"users"`
	// Flagged counts cards that became due in this pass.
	Flagged int `json:"flagged"`
	// Reminded counts flagged cards reminded again after the re-remind delay.
	Reminded int `json:"reminded"`
	// Notified counts users a reminder batch was handed to.
	Notified int `json:"notified"`
	// Suppressed counts users with a batch but notifications turned off.
	Suppressed int `json:"suppressed"`
	Failed     int `json:"failed"`
}

// Sweeper owns the sweep loop and its last-run bookkeeping.
type Sweeper struct {
	store     store.UserStore
	scheduler srs.Service
	notifier  notify.Notifier
	locks     *lock.Keyed
	clock     clock.Clock
	config    Config
	logger    *slog.Logger

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	wg         sync.WaitGroup
	lastResult *Result

	// passes, when set, receives every finished pass without blocking.
	passes chan Result
}

// New creates a Sweeper. locks must be the same instance the card and review
// services use so sweep writes never interleave with theirs.
func New(
	st store.UserStore,
	scheduler srs.Service,
	notifier notify.Notifier,
	locks *lock.Keyed,
	clk clock.Clock,
	config Config,
	logger *slog.Logger,
) *Sweeper {
	if st == nil {
		panic("store cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if notifier == nil {
		panic("notifier cannot be nil")
	}
	if locks == nil {
		panic("locks cannot be nil")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}

	return &Sweeper{
		store:     st,
		scheduler: scheduler,
		notifier:  notifier,
		locks:     locks,
		clock:     clk,
		config:    config,
		logger:    logger.With(slog.String("component", "review_sweep")),
	}
}

// Start runs a pass immediately and then one per interval until ctx is done
// or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("review sweep started",
		slog.Duration("interval", s.config.Interval),
		slog.Int("concurrency", s.config.Concurrency))
	return nil
}

// Stop ends the loop and waits for an in-flight pass to finish. Users not yet
// started in that pass are skipped; users already started complete.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("review sweep stopped")
}

// IsRunning reports whether the loop is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastResult returns the most recent pass, or false if none has run.
func (s *Sweeper) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return Result{}, false
	}
	return *s.lastResult, true
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// The loop context is cancelled by Stop as well as by the caller, so an
	// in-flight pass stops scheduling new users either way.
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-loopCtx.Done():
		}
	}()

	s.pass(loopCtx)

	for {
		select {
		case <-loopCtx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.pass(loopCtx)
		}
	}
}

func (s *Sweeper) pass(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("review sweep failed", slog.String("error", err.Error()))
		return
	}

	if s.passes != nil {
		select {
		case s.passes <- result:
		default:
		}
	}
}

// RunOnce performs a single pass at the clock's current time. It returns an
// error only when the user list cannot be read or ctx ends before every user
// was started; per-user failures are logged and counted in Result.Failed.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	now := s.clock.Now()
	started := time.Now()
	result := Result{StartedAt: now}

	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list users: %w", err)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.config.Concurrency)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			// Once a user is started it runs to completion.
			outcome, err := s.sweepUser(context.WithoutCancel(ctx), id, now)

			mu.Lock()
			defer mu.Unlock()
			result.Users++
			if err != nil {
				result.Failed++
				s.logger.Error("failed to sweep user",
					slog.String("user_id", id),
					slog.String("error", err.Error()))
				return nil
			}
			result.Flagged += outcome.flagged
			result.Reminded += outcome.reminded
			switch {
			case outcome.notified:
				result.Notified++
			case outcome.suppressed:
				result.Suppressed++
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(started)

	s.mu.Lock()
	r := result
	s.lastResult = &r
	s.mu.Unlock()

	s.logger.Info("review sweep finished",
		slog.Int("users", result.Users),
		slog.Int("flagged", result.Flagged),
		slog.Int("reminded", result.Reminded),
		slog.Int("notified", result.Notified),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration))

	return result, ctx.Err()
}

type userOutcome struct {
	flagged    int
	reminded   int
	notified   bool
	suppressed bool
}

// sweepUser applies due detection to one user's set under that user's lock
// and persists the changes before any reminder leaves. A failed notification
// is logged and does not undo the persisted state.
func (s *Sweeper) sweepUser(ctx context.Context, userID string, now time.Time) (userOutcome, error) {
	var out userOutcome

	batch, notifications, err := s.detect(ctx, userID, now, &out)
	if err != nil || len(batch) == 0 {
		return out, err
	}

	if !notifications {
		out.suppressed = true
		return out, nil
	}

	if err := s.notifier.SendReminder(ctx, userID, batch); err != nil {
		s.logger.Warn("failed to hand off reminder",
			slog.String("user_id", userID),
			slog.Int("cards", len(batch)),
			slog.String("error", err.Error()))
		return out, nil
	}
	out.notified = true
	return out, nil
}

func (s *Sweeper) detect(ctx context.Context, userID string, now time.Time, out *userOutcome) ([]notify.Pair, bool, error) {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	set, err := s.store.GetCardSet(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	var batch []notify.Pair
	for _, card := range set.Cards() {
		wasFlagged := card.SpacedRepetition.ToReview
		if !s.scheduler.CheckDue(&card, now) {
			continue
		}
		if wasFlagged {
			out.reminded++
		} else {
			out.flagged++
		}
		if err := set.Update(card); err != nil {
			return nil, false, err
		}
		batch = append(batch, notify.PairOf(card))
	}

	if len(batch) == 0 {
		return nil, user.Preferences.Notifications, nil
	}
	if err := s.store.PutCardSet(ctx, userID, set); err != nil {
		return nil, false, fmt.Errorf("failed to persist due cards: %w", err)
	}
	return batch, user.Preferences.Notifications, nil
}
