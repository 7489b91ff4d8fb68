package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/redact"
)

// requireUserID returns the authenticated user id or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return "", false
	}
	return userID, true
}

// decodeAndValidate decodes the JSON body into req and validates it, writing
// a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// parseFilters converts filter arguments, writing a 400 on failure.
func parseFilters(w http.ResponseWriter, r *http.Request, args []string) ([]domain.Predicate, bool) {
	preds, err := domain.ParseFilterArgs(args)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return preds, true
}
