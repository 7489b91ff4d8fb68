package domain

import (
	"fmt"
	"strings"
	"time"
)

// Preferences are per-user settings.
type Preferences struct {
	// Notifications enables reminder delivery. Due-card detection runs either way.
	Notifications bool `json:"notifications"`
}

// User is a learner identified by their chat platform id.
type User struct {
	ID          string      `json:"id"`
	Preferences Preferences `json:"preferences"`
	Progress    Progress    `json:"progress"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewUser creates a user with notifications enabled and zeroed progress.
func NewUser(id string, now time.Time) (*User, error) {
	u := &User{
		ID:          strings.TrimSpace(id),
		Preferences: Preferences{Notifications: true},
		Progress:    Progress{Badges: []string{}},
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks that the user has an id.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: user id cannot be empty", ErrValidation)
	}
	return nil
}
