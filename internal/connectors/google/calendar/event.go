package calendar

import (
	"time"

	"google.golang.org/api/calendar/v3"
)

// EventSummary is the printable subset of a Calendar event.
type EventSummary struct {
	ID       string
	Title    string
	Location string
	Start    time.Time
	End      time.Time
	AllDay   bool
}

// Summarise converts a Calendar event to a summary. All-day events
// carry a date instead of a datetime; both forms are handled.
func Summarise(ev *calendar.Event) EventSummary {
	s := EventSummary{
		ID:       ev.Id,
		Title:    ev.Summary,
		Location: ev.Location,
	}

	s.Start, s.AllDay = parseEventTime(ev.Start)
	s.End, _ = parseEventTime(ev.End)

	return s
}

// parseEventTime handles both datetime and all-day date forms.
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, false
	}
	if edt.Date != "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
