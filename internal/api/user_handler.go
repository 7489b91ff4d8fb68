package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/service"
)

// UserHandler handles the /me endpoints.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if userService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userService cannot be nil for UserHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// EnsureUser handles PUT /me. It registers the caller on first contact and
// responds 201, or 200 when the user already exists.
func (h *UserHandler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	user, created, err := h.userService.EnsureUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, userToResponse(user, created))
}

// GetStats handles GET /me/stats.
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.userService.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// UpdatePreferences handles PATCH /me/preferences.
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req PreferencesRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := h.userService.SetNotifications(r.Context(), userID, *req.Notifications)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update preferences")
		return
	}

	log.Debug("preferences updated", slog.Bool("notifications", *req.Notifications))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user, false))
}
