package note

import "time"

// dueLayout is the only accepted due date form.
const dueLayout = "2006-01-02"

// Record is a persisted note together with its store identity.
type Record struct {
	ID string `json:"id"`
	Note
}

// Mode selects a due-date bucket for Filter.
type Mode string

const (
	ModeToday   Mode = "today"
	ModeOverdue Mode = "overdue"
	ModeWeek    Mode = "week"
)

// Filter returns the records whose due date falls in the bucket selected
// by mode, relative to ref. Input order is preserved. Records without a
// due date, or with one that does not parse as YYYY-MM-DD, are excluded;
// a malformed date is a data-quality condition, not an error.
func Filter(recs []Record, ref time.Time, mode Mode) []Record {
	day := dateOf(ref)
	weekEnd := day.AddDate(0, 0, 7)

	var out []Record
	for _, r := range recs {
		d, ok := parseDue(r.Due)
		if !ok {
			continue
		}
		switch mode {
		case ModeToday:
			if d.Equal(day) {
				out = append(out, r)
			}
		case ModeOverdue:
			if d.Before(day) {
				out = append(out, r)
			}
		case ModeWeek:
			if !d.Before(day) && !d.After(weekEnd) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Summarize counts overdue and due-today records relative to ref, for the
// post-login reminder line. Malformed dates are skipped like in Filter.
func Summarize(recs []Record, ref time.Time) (overdue, dueToday int) {
	day := dateOf(ref)
	for _, r := range recs {
		d, ok := parseDue(r.Due)
		if !ok {
			continue
		}
		switch {
		case d.Before(day):
			overdue++
		case d.Equal(day):
			dueToday++
		}
	}
	return overdue, dueToday
}

func parseDue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(dueLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// dateOf drops the time-of-day component so comparisons are calendar-day
// comparisons in UTC, matching the parsed due dates.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
