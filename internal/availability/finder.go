package availability

import (
	"fmt"
	"time"

	"github.com/mekedron/cheftonic-cli/internal/domain"
)

// FirstBookable scans forward from from, or from today when from is zero or
// already past, and returns the first range start of the first bookable day.
func (e *Engine) FirstBookable(from domain.Date, now time.Time) (Slot, error) {
	today := domain.DateOf(now.In(e.loc))
	if from.IsZero() || from.Before(today) {
		from = today
	}
	for offset := 0; offset < e.horizon; offset++ {
		day := e.AvailabilityFor(from.AddDays(offset), now)
		if day.IsEmpty() {
			continue
		}
		first := day.Ranges[0]
		return Slot{ServiceID: first.ServiceID, Start: first.Start}, nil
	}
	return Slot{}, fmt.Errorf("%w: scanned %d days from %s", ErrNoAvailability, e.horizon, from)
}
