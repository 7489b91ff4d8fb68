package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/quiz"
)

// QuizRunner drives quiz sessions. *quiz.Manager satisfies it.
type QuizRunner interface {
	Start(ctx context.Context, userID string, opts quiz.Options) (*quiz.Snapshot, error)
	Get(ctx context.Context, userID, sessionID string) (*quiz.Snapshot, error)
	Flip(ctx context.Context, userID, sessionID string) (*quiz.Snapshot, error)
	Rate(ctx context.Context, userID, sessionID string, rating domain.Rating) (*quiz.Snapshot, error)
	Stop(ctx context.Context, userID, sessionID string) (*quiz.Snapshot, error)
}

var _ QuizRunner = (*quiz.Manager)(nil)

// QuizHandler handles the /quiz endpoints.
type QuizHandler struct {
	quizzes QuizRunner
	logger  *slog.Logger
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(quizzes QuizRunner, logger *slog.Logger) *QuizHandler {
	if quizzes == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("quizzes cannot be nil for QuizHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}
	return &QuizHandler{
		quizzes: quizzes,
		logger:  logger.With(slog.String("component", "quiz_handler")),
	}
}

// StartQuiz handles POST /quiz. Any quiz the user already has running is
// ended and replaced.
func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req StartQuizRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	filters, ok := parseFilters(w, r, req.Filters)
	if !ok {
		return
	}

	opts := quiz.Options{Invert: req.Invert, Filters: filters}
	if req.Count != nil {
		opts.Count = max(*req.Count, 1)
	}

	snap, err := h.quizzes.Start(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}

	log.Debug("quiz started", slog.String("quiz_id", snap.ID), slog.Int("cards", snap.Total))
	shared.RespondWithJSON(w, r, http.StatusCreated, snap)
}

// GetQuiz handles GET /quiz/{id}.
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(ctx context.Context, userID, id string) (*quiz.Snapshot, error) {
		return h.quizzes.Get(ctx, userID, id)
	})
}

// Flip handles POST /quiz/{id}/flip.
func (h *QuizHandler) Flip(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.quizzes.Flip)
}

// Stop handles POST /quiz/{id}/stop.
func (h *QuizHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.quizzes.Stop)
}

// Rate handles POST /quiz/{id}/rate.
func (h *QuizHandler) Rate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RateRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.step(w, r, func(ctx context.Context, userID, id string) (*quiz.Snapshot, error) {
		return h.quizzes.Rate(ctx, userID, id, rating)
	})
}

func (h *QuizHandler) step(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, userID, sessionID string) (*quiz.Snapshot, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Quiz ID is required")
		return
	}

	snap, err := action(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snap)
}
