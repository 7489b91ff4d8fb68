package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Stats is the user's progress overview.
type Stats struct {
	UserID        string          `json:"user_id"`
	Notifications bool            `json:"notifications"`
	Progress      domain.Progress `json:"progress"`
	Cards         int             `json:"cards"`
	Due           int             `json:"due"`
	Capacity      int             `json:"capacity"`
	// Badges holds the earned badges in award order. A badge whose definition
	// was removed keeps only its name.
	Badges []domain.Badge `json:"badges"`
}

// UserService provides user-related operations
type UserService interface {
	// EnsureUser creates the user with default preferences and progress if
	// absent. It reports whether the user was created.
	EnsureUser(ctx context.Context, userID string) (*domain.User, bool, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// SetNotifications turns reminder delivery on or off.
	SetNotifications(ctx context.Context, userID string, enabled bool) (*domain.User, error)

	// Stats summarizes progress, badges and card counts.
	Stats(ctx context.Context, userID string) (*Stats, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	badges    []domain.Badge
	clock     clock.Clock
	logger    *slog.Logger
}

// NewUserService creates a new UserService. badges are the definitions used
// to describe earned badges in Stats.
func NewUserService(userStore store.UserStore, badges []domain.Badge, clk clock.Clock, logger *slog.Logger) UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		badges:    badges,
		clock:     clk,
		logger:    logger.With("component", "user_service"),
	}
}

// EnsureUser creates the user on first contact
func (s *UserServiceImpl) EnsureUser(ctx context.Context, userID string) (*domain.User, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(userID, s.clock.Now())
	if err != nil {
		return nil, false, err
	}

	created, err := s.userStore.Create(ctx, user)
	if err != nil {
		log.Error("failed to create user",
			"error", err,
			"user_id", userID)
		return nil, false, wrapStoreError("ensure_user", "failed to create user", err)
	}
	if created {
		log.Info("user created", "user_id", user.ID)
	}

	stored, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return nil, wrapStoreError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// SetNotifications updates the reminder preference
func (s *UserServiceImpl) SetNotifications(ctx context.Context, userID string, enabled bool) (*domain.User, error) {
	if err := s.userStore.SetNotifications(ctx, userID, enabled); err != nil {
		return nil, wrapStoreError("set_notifications", "failed to update preferences", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("notification preference updated",
		"user_id", userID,
		"enabled", enabled)

	return s.GetUser(ctx, userID)
}

// Stats summarizes the user's progress
func (s *UserServiceImpl) Stats(ctx context.Context, userID string) (*Stats, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set, err := s.userStore.GetCardSet(ctx, userID)
	if err != nil {
		return nil, wrapStoreError("stats", "failed to load card set", err)
	}

	defs := make(map[string]domain.Badge, len(s.badges))
	for _, b := range s.badges {
		defs[b.Name] = b
	}
	earned := make([]domain.Badge, 0, len(user.Progress.Badges))
	for _, name := range user.Progress.Badges {
		if b, ok := defs[name]; ok {
			earned = append(earned, b)
			continue
		}
		earned = append(earned, domain.Badge{Name: name})
	}

	return &Stats{
		UserID:        user.ID,
		Notifications: user.Preferences.Notifications,
		Progress:      user.Progress,
		Cards:         set.Len(),
		Due:           len(set.Filter(domain.DueOnly())),
		Capacity:      domain.MaxCapacity,
		Badges:        earned,
	}, nil
}
