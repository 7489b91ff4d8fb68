// Package notify delivers due-card reminder batches to users. Delivery is
// fire-and-forget: a failure is logged and never undoes the review state the
// sweep already committed.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Pair is one card in a reminder, as the user would see it.
type Pair struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// PairOf builds the reminder entry for a card.
func PairOf(c domain.Card) Pair {
	return Pair{Front: c.Front.Word, Back: c.Back.Word}
}

// Notifier sends a batch of due cards to a user.
type Notifier interface {
	SendReminder(ctx context.Context, userID string, batch []Pair) error
}

// ReminderTitle heads every reminder message.
const ReminderTitle = "It's time to review these flashcards!"

// FormatReminder renders a batch as message text: the title, one
// "• front / back" line per card and a count footer.
func FormatReminder(batch []Pair) string {
	var b strings.Builder
	b.WriteString(ReminderTitle)
	b.WriteByte('\n')
	for _, p := range batch {
		fmt.Fprintf(&b, "• %s / %s\n", p.Front, p.Back)
	}
	noun := "flashcards"
	if len(batch) == 1 {
		noun = "flashcard"
	}
	fmt.Fprintf(&b, "%d %s", len(batch), noun)
	return b.String()
}
