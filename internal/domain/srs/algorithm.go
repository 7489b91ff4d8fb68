package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// factorFor returns the interval multiplier for rating in the card's current phase.
func factorFor(rating domain.Rating, learning bool, params *Params) float64 {
	f := params.Factors[rating]
	if learning {
		return f.Learning
	}
	return f.Review
}

// calculateNewInterval multiplies the interval by factor and clamps the result
// into [MinInterval, MaxInterval]. The minimum is applied first and the
// maximum last, so the result satisfies both bounds for any factor. The
// fractional part is dropped; since both bounds are whole minutes, truncation
// cannot leave the range.
func calculateNewInterval(interval int, factor float64, params *Params) int {
	next := float64(interval) * factor
	next = math.Min(math.Max(next, float64(params.MinInterval)), float64(params.MaxInterval))
	return int(next)
}

// rate applies a rating to a copy of card and returns it with the points earned.
// The rating must already be validated.
func rate(card domain.Card, rating domain.Rating, now time.Time, params *Params) (domain.Card, int) {
	next := card.Clone()
	sr := &next.SpacedRepetition

	factor := factorFor(rating, sr.LearningPhase, params)
	sr.Interval = calculateNewInterval(sr.Interval, factor, params)
	sr.LearningPhase = sr.Interval < params.LearningThreshold

	reviewed := now.UTC()
	sr.ToReview = false
	sr.LastReviewed = &reviewed
	sr.TimesStudied++

	return next, params.Points[rating]
}

// checkDue applies the sweep's due-detection rule to card in place and reports
// whether the card belongs in this sweep's reminder batch.
//
// A card not yet flagged becomes due once a full interval has passed since it
// was last reviewed; it is flagged and reminded now. A flagged card is
// reminded again once ReremindAfter has passed since the last reminder.
// Cards never reviewed, or flagged but never reminded, are left alone.
func checkDue(card *domain.Card, now time.Time, params *Params) bool {
	sr := &card.SpacedRepetition
	stamp := now.UTC()

	if !sr.ToReview {
		if !card.IsDue(now) {
			return false
		}
		sr.ToReview = true
		sr.LastReminded = &stamp
		return true
	}

	if sr.LastReminded == nil || now.Sub(*sr.LastReminded) < params.ReremindAfter {
		return false
	}
	sr.LastReminded = &stamp
	return true
}
