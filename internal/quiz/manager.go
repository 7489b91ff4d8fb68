package quiz

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// Config holds session limits.
type Config struct {
	// PromptTimeout bounds each wait for the user.
	PromptTimeout time.Duration
	// DefaultCards is the sample size when Options.Count is zero.
	DefaultCards int
	// Retention is how long an ended session stays readable.
	Retention time.Duration
	// ReapInterval is how often timed out and retained sessions are swept.
	ReapInterval time.Duration
}

// DefaultConfig returns a 60 second prompt timeout and ten card quizzes.
func DefaultConfig() Config {
	return Config{
		PromptTimeout: 60 * time.Second,
		DefaultCards:  10,
		Retention:     10 * time.Minute,
		ReapInterval:  5 * time.Second,
	}
}

// Manager owns the live sessions. A user has at most one active session;
// starting another ends the previous one.
type Manager struct {
	cards     CardSource
	reviewer  Reviewer
	completer Completer
	clock     clock.Clock
	config    Config
	logger    *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand // nil uses the global source

	// Lock order: a session's mu before m.mu, never the reverse.
	mu       sync.Mutex
	sessions map[string]*session
	active   map[string]string

	reaperMu sync.Mutex
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a Manager.
func NewManager(
	cards CardSource,
	reviewer Reviewer,
	completer Completer,
	clk clock.Clock,
	config Config,
	logger *slog.Logger,
) *Manager {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if reviewer == nil {
		panic("reviewer cannot be nil")
	}
	if completer == nil {
		panic("completer cannot be nil")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultConfig()
	if config.PromptTimeout <= 0 {
		config.PromptTimeout = defaults.PromptTimeout
	}
	if config.DefaultCards <= 0 {
		config.DefaultCards = defaults.DefaultCards
	}
	if config.Retention <= 0 {
		config.Retention = defaults.Retention
	}
	if config.ReapInterval <= 0 {
		config.ReapInterval = defaults.ReapInterval
	}

	return &Manager{
		cards:     cards,
		reviewer:  reviewer,
		completer: completer,
		clock:     clk,
		config:    config,
		logger:    logger.With(slog.String("component", "quiz_manager")),
		sessions:  make(map[string]*session),
		active:    make(map[string]string),
	}
}

// Start samples cards and opens a session showing the first front.
func (m *Manager) Start(ctx context.Context, userID string, opts Options) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	for _, p := range opts.Filters {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	count := opts.Count
	if count == 0 {
		count = m.config.DefaultCards
	}
	if count < 1 {
		count = 1
	}

	set, err := m.cards.GetCardSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.rngMu.Lock()
	picked := set.Sample(count, m.rng, opts.Filters...)
	m.rngMu.Unlock()
	if len(picked) == 0 {
		return nil, ErrNoCards
	}
	if opts.Invert {
		for i := range picked {
			picked[i] = picked[i].Inverted()
		}
	}

	m.endActive(ctx, userID, EndReplaced)

	s := newSession(uuid.NewString(), userID, picked, m.clock.Now(), m.config.PromptTimeout)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.active[userID] = s.id
	m.mu.Unlock()

	log.Info("quiz started",
		slog.String("session_id", s.id),
		slog.String("user_id", userID),
		slog.Int("cards", len(picked)),
		slog.Bool("invert", opts.Invert))

	return s.snapshot(), nil
}

// Get returns the session's current view. Ended sessions stay readable until reaped.
func (m *Manager) Get(ctx context.Context, userID, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.expire(ctx, s, m.clock.Now())
	return s.snapshot(), nil
}

// Flip shows the back of the current card.
func (m *Manager) Flip(ctx context.Context, userID, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := m.clock.Now()
	if m.expire(ctx, s, now) {
		return s.snapshot(), ErrSessionEnded
	}
	if err := s.flip(now, m.config.PromptTimeout); err != nil {
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// Rate records the rating of the flipped card and moves to the next one.
// Rating the last card ends the session.
func (m *Manager) Rate(ctx context.Context, userID, sessionID string, rating domain.Rating) (*Snapshot, error) {
	s, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)
	now := m.clock.Now()
	if m.expire(ctx, s, now) {
		return s.snapshot(), ErrSessionEnded
	}

	last, err := s.rate(ctx, m.reviewer, rating, now, m.config.PromptTimeout, log)
	if err != nil {
		return s.snapshot(), err
	}
	if last {
		m.end(ctx, s, EndCompleted, now)
	}
	return s.snapshot(), nil
}

// Stop ends the session early, keeping the ratings already recorded.
func (m *Manager) Stop(ctx context.Context, userID, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := m.clock.Now()
	if m.expire(ctx, s, now) {
		return s.snapshot(), ErrSessionEnded
	}
	m.end(ctx, s, EndStopped, now)
	return s.snapshot(), nil
}

// Reap ends timed out sessions and forgets ended ones past retention.
// It returns the number of sessions removed.
func (m *Manager) Reap(ctx context.Context) int {
	now := m.clock.Now()

	m.mu.Lock()
	all := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	removed := 0
	for _, s := range all {
		s.mu.Lock()
		m.expire(ctx, s, now)
		if s.state == StateEnded && now.Sub(s.endedAt) >= m.config.Retention {
			m.mu.Lock()
			delete(m.sessions, s.id)
			m.mu.Unlock()
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked sessions, ended ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartReaper runs Reap every ReapInterval until Close or ctx is done.
func (m *Manager) StartReaper(ctx context.Context) {
	m.reaperMu.Lock()
	defer m.reaperMu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.ReapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case <-ticker.C:
				if n := m.Reap(ctx); n > 0 {
					m.logger.Debug("reaped quiz sessions", slog.Int("count", n))
				}
			}
		}
	}()
}

// Close stops the reaper and ends every active session.
func (m *Manager) Close(ctx context.Context) {
	m.reaperMu.Lock()
	if m.running {
		m.running = false
		close(m.stopCh)
	}
	m.reaperMu.Unlock()
	m.wg.Wait()

	m.mu.Lock()
	users := make([]string, 0, len(m.active))
	for userID := range m.active {
		users = append(users, userID)
	}
	m.mu.Unlock()

	for _, userID := range users {
		m.endActive(ctx, userID, EndShutdown)
	}
}

func (m *Manager) lookup(userID, sessionID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.userID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// endActive ends the user's active session, if any.
func (m *Manager) endActive(ctx context.Context, userID string, reason EndReason) {
	m.mu.Lock()
	prev, ok := m.sessions[m.active[userID]]
	m.mu.Unlock()
	if !ok {
		return
	}

	prev.mu.Lock()
	defer prev.mu.Unlock()
	now := m.clock.Now()
	if !m.expire(ctx, prev, now) {
		m.end(ctx, prev, reason, now)
	}
}

// expire ends s if its prompt timed out and reports whether s is ended.
// s.mu must be held.
func (m *Manager) expire(ctx context.Context, s *session, now time.Time) bool {
	if s.expired(now) {
		m.end(ctx, s, EndTimeout, now)
	}
	return s.state == StateEnded
}

// end finishes s and clears it as the user's active session. s.mu must be held.
func (m *Manager) end(ctx context.Context, s *session, reason EndReason, now time.Time) {
	if s.state == StateEnded {
		return
	}
	log := logger.FromContextOrDefault(ctx, m.logger)
	// Bookkeeping runs to completion even if the caller goes away.
	s.finish(context.WithoutCancel(ctx), reason, m.completer, now, log)

	m.mu.Lock()
	if m.active[s.userID] == s.id {
		delete(m.active, s.userID)
	}
	m.mu.Unlock()

	log.Info("quiz ended",
		slog.String("session_id", s.id),
		slog.String("user_id", s.userID),
		slog.String("reason", string(reason)),
		slog.Int("studied", s.studied),
		slog.Int("points", s.points))
}
