package domain

import (
	"fmt"
	"slices"
	"time"
)

// Counter names a progress metric. The names double as badge metrics.
type Counter string

// Progress counters.
const (
	CounterStudyPoints       Counter = "study_points"
	CounterFlashcardsStudied Counter = "flashcards_studied"
	CounterQuizzesCompleted  Counter = "quizzes_completed"
	CounterCurrentStreak     Counter = "current_streak"
	CounterLongestStreak     Counter = "longest_streak"
)

// Valid reports whether c names a known counter.
func (c Counter) Valid() bool {
	switch c {
	case CounterStudyPoints, CounterFlashcardsStudied, CounterQuizzesCompleted,
		CounterCurrentStreak, CounterLongestStreak:
		return true
	default:
		return false
	}
}

// Progress holds a user's study counters and earned badges.
// Counters never decrease except current_streak, which resets when a day is missed.
type Progress struct {
	StudyPoints        int        `json:"study_points"`
	FlashcardsStudied  int        `json:"flashcards_studied"`
	QuizzesCompleted   int        `json:"quizzes_completed"`
	LastQuizCompletion *time.Time `json:"last_quiz_completion,omitempty"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	Badges             []string   `json:"badges"`
}

// Metric returns the value of the named counter; unknown names read as zero.
func (p *Progress) Metric(name string) int {
	switch Counter(name) {
	case CounterStudyPoints:
		return p.StudyPoints
	case CounterFlashcardsStudied:
		return p.FlashcardsStudied
	case CounterQuizzesCompleted:
		return p.QuizzesCompleted
	case CounterCurrentStreak:
		return p.CurrentStreak
	case CounterLongestStreak:
		return p.LongestStreak
	default:
		return 0
	}
}

// Increment adds delta to the named counter.
func (p *Progress) Increment(c Counter, delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: counter %s cannot be decremented", ErrValidation, c)
	}
	switch c {
	case CounterStudyPoints:
		p.StudyPoints += delta
	case CounterFlashcardsStudied:
		p.FlashcardsStudied += delta
	case CounterQuizzesCompleted:
		p.QuizzesCompleted += delta
	case CounterCurrentStreak:
		p.CurrentStreak += delta
	case CounterLongestStreak:
		p.LongestStreak += delta
	default:
		return fmt.Errorf("%w: unknown counter %q", ErrValidation, c)
	}
	return nil
}

// HasBadge reports whether the badge has already been earned.
func (p *Progress) HasBadge(name string) bool {
	return slices.Contains(p.Badges, name)
}

// AddBadge appends name to the earned badges and reports whether it was new.
func (p *Progress) AddBadge(name string) bool {
	if p.HasBadge(name) {
		return false
	}
	p.Badges = append(p.Badges, name)
	return true
}

// RecordQuizCompletion counts a finished quiz at now and updates the daily
// streak. Streak days are UTC calendar days: a second quiz on the same day
// leaves the streak unchanged, a quiz on the following day extends it, and a
// longer gap restarts it at one.
func (p *Progress) RecordQuizCompletion(now time.Time) {
	today := utcDay(now)
	switch {
	case p.LastQuizCompletion == nil || p.CurrentStreak == 0:
		p.CurrentStreak = 1
	default:
		last := utcDay(*p.LastQuizCompletion)
		switch {
		case today.Equal(last):
		case today.Equal(last.AddDate(0, 0, 1)):
			p.CurrentStreak++
		case today.After(last):
			p.CurrentStreak = 1
		}
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.QuizzesCompleted++
	t := now.UTC()
	p.LastQuizCompletion = &t
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
