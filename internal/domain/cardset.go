package domain

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

// MaxCapacity is the largest number of cards a single user may own.
const MaxCapacity = 100

// CardSet is one user's collection of cards keyed by id.
// Iteration order is the order in which ids were first added, which makes it
// the display order for positional commands.
//
// CardSet is not safe for concurrent use; callers serialize access per user.
type CardSet struct {
	order []string
	cards map[string]*Card
}

// NewCardSet builds a set from cards in the given order. Later duplicates
// replace earlier ones in place. Cards beyond MaxCapacity are not added.
func NewCardSet(cards ...Card) *CardSet {
	s := &CardSet{cards: make(map[string]*Card, len(cards))}
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Len returns the number of cards in the set.
func (s *CardSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Full reports whether the set has reached MaxCapacity.
func (s *CardSet) Full() bool {
	return s.Len() >= MaxCapacity
}

// Add inserts c and returns true, or returns false without any mutation if the
// set is full. Adding an id that is already present replaces that card and
// keeps its position.
func (s *CardSet) Add(c Card) bool {
	if s.Full() {
		return false
	}
	s.put(c)
	return true
}

// Contains reports whether id is in the set.
func (s *CardSet) Contains(id string) bool {
	_, ok := s.cards[id]
	return ok
}

// Get returns a copy of the card with the given id.
func (s *CardSet) Get(id string) (Card, bool) {
	c, ok := s.cards[id]
	if !ok {
		return Card{}, false
	}
	return c.Clone(), true
}

// Update stores c under its id, replacing an existing card in place. An
// unknown id is appended when there is room; otherwise ErrCapacityExceeded
// is returned.
func (s *CardSet) Update(c Card) error {
	if !s.Contains(c.ID) && s.Full() {
		return ErrCapacityExceeded
	}
	s.put(c)
	return nil
}

// Remove deletes the card with the given id and reports whether it was present.
func (s *CardSet) Remove(id string) bool {
	if _, ok := s.cards[id]; !ok {
		return false
	}
	delete(s.cards, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Cards returns copies of every card in display order. A nil set has no cards.
func (s *CardSet) Cards() []Card {
	return s.Filter()
}

// Filter returns copies of the cards matching every predicate, in display order.
// With no predicates it returns the full set.
func (s *CardSet) Filter(preds ...Predicate) []Card {
	if s == nil {
		return []Card{}
	}
	out := make([]Card, 0, len(s.order))
	for _, id := range s.order {
		c := s.cards[id]
		if MatchAll(c, preds) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Sample draws min(n, matching) distinct cards uniformly at random from the
// cards matching preds. A nil rng uses the global source. The set is not
// modified. An empty result means there is nothing to study.
func (s *CardSet) Sample(n int, rng *rand.Rand, preds ...Predicate) []Card {
	pool := s.Filter(preds...)
	if n <= 0 || len(pool) == 0 {
		return []Card{}
	}
	if n > len(pool) {
		n = len(pool)
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	// Partial Fisher-Yates: after i steps pool[:i] is a uniform sample.
	for i := 0; i < n; i++ {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Delete removes the cards at the given 1-based positions of display, the list
// the user was shown. All positions are checked before anything is removed.
// It returns the number of cards removed; cards in display that have since
// left the set are skipped.
func (s *CardSet) Delete(positions []int, display []Card) (int, error) {
	ids, err := idsAt(positions, display)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, id := range ids {
		if s.Remove(id) {
			removed++
		}
	}
	return removed, nil
}

// Label sets label on the cards at the given 1-based positions of display.
// It returns the number of cards labeled.
func (s *CardSet) Label(positions []int, label string, display []Card) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%w: label cannot be empty", ErrValidation)
	}
	ids, err := idsAt(positions, display)
	if err != nil {
		return 0, err
	}
	labeled := 0
	for _, id := range ids {
		if c, ok := s.cards[id]; ok {
			c.SetLabel(label)
			labeled++
		}
	}
	return labeled, nil
}

func idsAt(positions []int, display []Card) ([]string, error) {
	ids := make([]string, 0, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(display) {
			return nil, fmt.Errorf("%w: position %d out of range 1-%d", ErrValidation, p, len(display))
		}
		ids = append(ids, display[p-1].ID)
	}
	return ids, nil
}

func (s *CardSet) put(c Card) {
	if s.cards == nil {
		s.cards = make(map[string]*Card)
	}
	cp := c.Clone()
	if _, ok := s.cards[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.cards[c.ID] = &cp
}

// MarshalJSON encodes the set as an array of cards in display order.
func (s *CardSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Cards())
}

// UnmarshalJSON decodes an array of cards, keeping their order.
func (s *CardSet) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	*s = CardSet{cards: make(map[string]*Card, len(cards))}
	for _, c := range cards {
		s.put(c)
	}
	return nil
}
