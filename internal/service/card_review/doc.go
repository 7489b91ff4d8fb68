// Package card_review applies user ratings to stored flashcards: it reloads
// the card under the user's lock, runs the spaced repetition scheduler and
// stores the new card state together with the earned progress counters.
package card_review
