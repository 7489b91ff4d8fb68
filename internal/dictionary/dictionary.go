// Package dictionary defines the shape of a dictionary search result and how
// it becomes a flashcard. Looking words up is handled outside this service.
package dictionary

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Entry is one sense returned by a dictionary lookup.
type Entry struct {
	ID         string `json:"id,omitempty"`
	KoreanWord string `json:"koreanWord" validate:"required"`
	KoreanDfn  string `json:"koreanDfn"`
	TransWord  string `json:"transWord"  validate:"required"`
	TransDfn   string `json:"transDfn"`
}

// IDGenerator produces card ids for entries that carry none.
type IDGenerator func() (string, error)

// NanoID is the default IDGenerator.
func NanoID() (string, error) {
	return gonanoid.New()
}

// NewCard builds a card with the Korean side in front. The entry id is used
// when present; otherwise gen supplies one (NanoID when gen is nil).
func NewCard(e Entry, gen IDGenerator) (*domain.Card, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		if gen == nil {
			gen = NanoID
		}
		var err error
		if id, err = gen(); err != nil {
			return nil, fmt.Errorf("failed to generate card id: %w", err)
		}
	}

	return domain.NewCard(id,
		domain.Side{Word: strings.TrimSpace(e.KoreanWord), Definition: strings.TrimSpace(e.KoreanDfn)},
		domain.Side{Word: strings.TrimSpace(e.TransWord), Definition: strings.TrimSpace(e.TransDfn)},
	)
}
