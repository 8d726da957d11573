package note

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(id, due string) Record {
	return Record{ID: id, Note: Note{Body: "note " + id, Due: due}}
}

func ids(recs []Record) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterOverdue(t *testing.T) {
	recs := []Record{rec("1", "2025-07-01")}
	ref := day(2025, 8, 1)

	assert.Equal(t, []string{"1"}, ids(Filter(recs, ref, ModeOverdue)))
	assert.Empty(t, Filter(recs, ref, ModeToday))
}

func TestFilterToday(t *testing.T) {
	ref := day(2025, 8, 1)
	recs := []Record{
		rec("past", "2025-07-31"),
		rec("now", "2025-08-01"),
		rec("future", "2025-08-02"),
	}

	assert.Equal(t, []string{"now"}, ids(Filter(recs, ref, ModeToday)))
}

func TestFilterWeekBoundaries(t *testing.T) {
	ref := day(2025, 8, 1)
	recs := []Record{
		rec("start", "2025-08-01"),
		rec("end", "2025-08-08"),   // ref + 7, inclusive
		rec("after", "2025-08-09"), // ref + 8, excluded
		rec("before", "2025-07-31"),
	}

	assert.Equal(t, []string{"start", "end"}, ids(Filter(recs, ref, ModeWeek)))
}

func TestFilterExcludesMalformedDates(t *testing.T) {
	recs := []Record{
		rec("bad", "not-a-date"),
		rec("partial", "2025-7-1"),
		rec("empty", ""),
	}
	ref := day(2025, 8, 1)

	for _, mode := range []Mode{ModeToday, ModeOverdue, ModeWeek} {
		assert.Empty(t, Filter(recs, ref, mode), "mode %s", mode)
	}
}

func TestFilterPreservesInputOrder(t *testing.T) {
	recs := []Record{
		rec("c", "2025-07-03"),
		rec("a", "2025-07-01"),
		rec("b", "2025-07-02"),
	}

	assert.Equal(t, []string{"c", "a", "b"}, ids(Filter(recs, day(2025, 8, 1), ModeOverdue)))
}

func TestFilterIgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2025, 8, 1, 23, 59, 0, 0, time.UTC)
	recs := []Record{rec("1", "2025-08-01")}

	assert.Equal(t, []string{"1"}, ids(Filter(recs, ref, ModeToday)))
}

func TestSummarize(t *testing.T) {
	ref := day(2025, 8, 1)
	recs := []Record{
		rec("over1", "2025-07-01"),
		rec("over2", "2025-07-31"),
		rec("today", "2025-08-01"),
		rec("future", "2025-08-02"),
		rec("bad", "nope"),
		rec("none", ""),
	}

	overdue, dueToday := Summarize(recs, ref)
	assert.Equal(t, 2, overdue)
	assert.Equal(t, 1, dueToday)
}
