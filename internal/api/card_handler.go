package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/dictionary"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/service"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// AddCard handles POST /cards. The body is a dictionary entry.
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var entry dictionary.Entry
	if !decodeAndValidate(w, r, &entry, log) {
		return
	}

	card, err := h.cardService.AddCard(r.Context(), userID, entry)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListCards handles GET /cards?filter=due-only&filter=label=X.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	filters, ok := parseFilters(w, r, r.URL.Query()["filter"])
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID, filters)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{
		Cards:    cardsToResponse(cards),
		Total:    len(cards),
		Capacity: domain.MaxCapacity,
	})
}

// LabelCards handles POST /cards/label.
func (h *CardHandler) LabelCards(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, h.cardService.LabelCards, "Failed to label flashcards")
}

// DeleteCards handles POST /cards/delete.
func (h *CardHandler) DeleteCards(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, h.cardService.DeleteCards, "Failed to delete flashcards")
}

type selectionFunc func(ctx context.Context, userID, input string, filters []domain.Predicate) (int, error)

func (h *CardHandler) selection(w http.ResponseWriter, r *http.Request, apply selectionFunc, fallback string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req SelectionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	filters, ok := parseFilters(w, r, req.Filters)
	if !ok {
		return
	}

	n, err := apply(r.Context(), userID, req.Input, filters)
	if err != nil {
		HandleAPIError(w, r, err, fallback)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SelectionResponse{Affected: n})
}
