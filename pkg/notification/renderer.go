package notification

import (
	"fmt"
	"strings"
)

const reminderDateFormat = "Mon, 02-Jan-2006"

// Renderer turns a set of due entries into the plain-text reminder delivered
// to a user: a header followed by one numbered block per entry.
type Renderer struct {
	currency string
}

func NewRenderer(currency string) *Renderer {
	return &Renderer{currency: currency}
}

func (r *Renderer) Render(due []DueEntry) string {
	blocks := make([]string, 0, len(due))
	for i, d := range due {
		block := fmt.Sprintf("%d. %s %s - %s %s\nDate: %s\nDays left: %d\nDescription: %s",
			i+1,
			d.Entry.Kind.Glyph(),
			d.Entry.Kind.Label(),
			d.Entry.Amount.String(),
			r.currency,
			d.ResolvedDate.Format(reminderDateFormat),
			d.DaysRemaining,
			d.Entry.Description,
		)
		blocks = append(blocks, block)
	}
	return "Upcoming payments for the next days:\n\n" + strings.Join(blocks, "\n\n")
}
