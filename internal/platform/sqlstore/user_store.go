package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// UserStore implements store.UserStore on a *sql.DB.
type UserStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// New creates a UserStore over db. The schema must already be migrated.
func New(db *sql.DB, dialect Dialect, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		db:      db,
		dialect: dialect,
		logger:  log.With(slog.String("component", "user_store"), slog.String("dialect", dialect.Name)),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying handle for health checks.
func (s *UserStore) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *UserStore) Close() error {
	return s.db.Close()
}

func (s *UserStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (bool, error) {
	if err := user.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	progress, err := json.Marshal(user.Progress)
	if err != nil {
		return false, fmt.Errorf("failed to encode progress: %w", err)
	}

	query := s.dialect.rebind(`
		INSERT INTO users (id, notifications, progress, card_set, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)

	result, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Preferences.Notifications,
		string(progress),
		"[]",
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	if err != nil {
		s.log(ctx).Error("failed to create user", slog.String("user_id", user.ID), slog.String("error", err.Error()))
		return false, s.dialect.mapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		s.log(ctx).Debug("user already exists", slog.String("user_id", user.ID))
		return false, nil
	}
	return true, nil
}

// Get implements store.UserStore.
func (s *UserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	query := s.dialect.rebind(`
		SELECT id, notifications, progress, created_at, updated_at
		FROM users WHERE id = ?`)

	var (
		u        domain.User
		progress []byte
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &u.Preferences.Notifications, &progress, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, s.dialect.mapError(err)
	}

	if err := json.Unmarshal(progress, &u.Progress); err != nil {
		return nil, fmt.Errorf("failed to decode progress for user %s: %w", userID, err)
	}
	if u.Progress.Badges == nil {
		u.Progress.Badges = []string{}
	}
	return &u, nil
}

// ListIDs implements store.UserStore.
func (s *UserStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, s.dialect.mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetCardSet implements store.UserStore.
func (s *UserStore) GetCardSet(ctx context.Context, userID string) (*domain.CardSet, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT card_set FROM users WHERE id = ?`), userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, s.dialect.mapError(err)
	}
	return decodeCardSet(raw)
}

// PutCardSet implements store.UserStore.
func (s *UserStore) PutCardSet(ctx context.Context, userID string, set *domain.CardSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode card set: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`UPDATE users SET card_set = ?, updated_at = ? WHERE id = ?`),
		string(raw), s.now(), userID,
	)
	if err != nil {
		return s.dialect.mapError(err)
	}
	return store.CheckRowsAffected(result, store.ErrUserNotFound)
}

// SetNotifications implements store.UserStore.
func (s *UserStore) SetNotifications(ctx context.Context, userID string, enabled bool) error {
	result, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`UPDATE users SET notifications = ?, updated_at = ? WHERE id = ?`),
		enabled, s.now(), userID,
	)
	if err != nil {
		return s.dialect.mapError(err)
	}
	return store.CheckRowsAffected(result, store.ErrUserNotFound)
}

// IncrementCounter implements store.UserStore.
func (s *UserStore) IncrementCounter(ctx context.Context, userID string, counter domain.Counter, delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: counter %s cannot be decremented", domain.ErrValidation, counter)
	}
	return s.mutate(ctx, userID, false, func(r *record) error {
		return r.progress.Increment(counter, delta)
	})
}

// AddBadge implements store.UserStore.
func (s *UserStore) AddBadge(ctx context.Context, userID, badge string) (bool, error) {
	var added bool
	err := s.mutate(ctx, userID, false, func(r *record) error {
		added = r.progress.AddBadge(badge)
		return nil
	})
	return added, err
}

// SaveReview implements store.UserStore.
func (s *UserStore) SaveReview(
	ctx context.Context,
	userID string,
	card domain.Card,
	increments map[domain.Counter]int,
) error {
	return s.mutate(ctx, userID, true, func(r *record) error {
		if !r.cards.Contains(card.ID) {
			return store.ErrCardNotFound
		}
		if err := r.cards.Update(card); err != nil {
			return err
		}
		for counter, delta := range increments {
			if err := r.progress.Increment(counter, delta); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordQuizCompletion implements store.UserStore.
func (s *UserStore) RecordQuizCompletion(ctx context.Context, userID string, now time.Time) (*domain.Progress, error) {
	var out domain.Progress
	err := s.mutate(ctx, userID, false, func(r *record) error {
		r.progress.RecordQuizCompletion(now)
		out = r.progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// record is the locked, decoded state of one user row.
type record struct {
	progress domain.Progress
	cards    *domain.CardSet
}

// mutate loads the user row under a row lock, applies fn and writes back the
// progress and, when withCards is set, the card set. Nothing is written if fn
// fails.
func (s *UserStore) mutate(ctx context.Context, userID string, withCards bool, fn func(*record) error) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var progressRaw, cardsRaw []byte
		query := s.dialect.rebind(`SELECT progress, card_set FROM users WHERE id = ?` + s.dialect.LockClause)
		err := tx.QueryRowContext(ctx, query, userID).Scan(&progressRaw, &cardsRaw)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrUserNotFound
		}
		if err != nil {
			return s.dialect.mapError(err)
		}

		var r record
		if err := json.Unmarshal(progressRaw, &r.progress); err != nil {
			return fmt.Errorf("failed to decode progress for user %s: %w", userID, err)
		}
		if withCards {
			if r.cards, err = decodeCardSet(cardsRaw); err != nil {
				return err
			}
		}

		if err := fn(&r); err != nil {
			return err
		}

		progress, err := json.Marshal(r.progress)
		if err != nil {
			return fmt.Errorf("failed to encode progress: %w", err)
		}

		if !withCards {
			_, err = tx.ExecContext(ctx,
				s.dialect.rebind(`UPDATE users SET progress = ?, updated_at = ? WHERE id = ?`),
				string(progress), s.now(), userID)
			return s.dialect.mapError(err)
		}

		cards, err := json.Marshal(r.cards)
		if err != nil {
			return fmt.Errorf("failed to encode card set: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			s.dialect.rebind(`UPDATE users SET progress = ?, card_set = ?, updated_at = ? WHERE id = ?`),
			string(progress), string(cards), s.now(), userID)
		return s.dialect.mapError(err)
	})
}

func decodeCardSet(raw []byte) (*domain.CardSet, error) {
	set := domain.NewCardSet()
	if len(raw) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(raw, set); err != nil {
		return nil, fmt.Errorf("failed to decode card set: %w", err)
	}
	return set, nil
}
