// Package birthdays does the calendar arithmetic for annually recurring
// dates: when a birthday next happens, how it should be described relative to
// today, how many days away it is, and how a set of them sorts by "soonest".
//
// Every function takes "today" from the caller and is pure - nothing reads
// the wall clock and nothing is cached.
package birthdays

import (
	"cmp"
	"time"
)

// Kind buckets an occurrence relative to today.
type Kind int

const (
	Later Kind = iota
	Today
	Tomorrow
	ThisWeek
)

func (k Kind) String() string {
	switch k {
	case Today:
		return "today"
	case Tomorrow:
		return "tomorrow"
	case ThisWeek:
		return "this_week"
	default:
		return "later"
	}
}

// An Occurrence describes a birthday relative to a reference day.
type Occurrence struct {
	Kind Kind
	// Weekday is only meaningful for ThisWeek: the day of the current week on
	// which the birthday falls.
	Weekday time.Weekday
	Date    MonthDay
}

// String renders the occurrence the way it's shown to a user: "Today",
// "Tomorrow", "This Friday" or "4 August".
func (o Occurrence) String() string {
	switch o.Kind {
	case Today:
		return "Today"
	case Tomorrow:
		return "Tomorrow"
	case ThisWeek:
		return "This " + o.Weekday.String()
	default:
		return o.Date.String()
	}
}

// DefaultWeekStart is the first day of the week used by Classify.
const DefaultWeekStart = time.Sunday

// NextOccurrence returns midnight (in today's location) of the first day on or
// after today that shares birth's month and day. A 29 February birthday is
// observed on 28 February in common years.
func NextOccurrence(birth, today time.Time) time.Time {
	t := dateOf(today)
	md := MonthDayOf(birth)

	next := md.In(t.Year(), t.Location())
	if next.Before(t) {
		next = md.In(t.Year()+1, t.Location())
	}
	return next
}

// DaysUntil approximates the number of days from today until birth's next
// occurrence, counting every month as 30 days and wrapping negative results
// by a 365-day year. Use it for relative ordering; DaysUntilExact gives the
// real count.
func DaysUntil(today, birth time.Time) int {
	from, to := MonthDayOf(today), MonthDayOf(birth)

	n := int(to.Month-from.Month)*30 + (to.Day - from.Day)
	if n < 0 {
		n += 365
	}
	return n
}

// DaysUntilExact counts calendar days from today until NextOccurrence.
func DaysUntilExact(today, birth time.Time) int {
	next := NextOccurrence(birth, today)
	// Count in UTC so DST transitions don't shorten or lengthen a day.
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// Turning returns the age reached at birth's next occurrence.
func Turning(birth, today time.Time) int {
	return NextOccurrence(birth, today).Year() - birth.Year()
}

// Classify buckets birth relative to today using weeks that start on
// DefaultWeekStart.
func Classify(birth, today time.Time) Occurrence {
	return ClassifyWeek(birth, today, DefaultWeekStart)
}

// ClassifyWeek buckets birth relative to today. Comparisons only look at
// month and day. A birthday earlier in the current week than today is still
// ThisWeek. A 29 February birthday is matched against 28 February in common
// years, the same day NextOccurrence observes it on.
func ClassifyWeek(birth, today time.Time, weekStart time.Weekday) Occurrence {
	t := dateOf(today)
	md := MonthDayOf(birth)
	o := Occurrence{Kind: Later, Date: MonthDayOf(NextOccurrence(birth, t))}

	switch {
	case observedOn(md, t):
		o.Kind = Today
		return o
	case observedOn(md, t.AddDate(0, 0, 1)):
		o.Kind = Tomorrow
		return o
	}

	// walk the days of the week rather than comparing the bounds, so weeks
	// spanning 31 December still match
	start := t.AddDate(0, 0, -int((7+t.Weekday()-weekStart)%7))
	for i := range 7 {
		d := start.AddDate(0, 0, i)
		if observedOn(md, d) {
			o.Kind = ThisWeek
			o.Weekday = d.Weekday()
			return o
		}
	}
	return o
}

// observedOn reports whether md is observed on d's calendar date.
func observedOn(md MonthDay, d time.Time) bool {
	return MonthDayOf(md.In(d.Year(), d.Location())) == MonthDayOf(d)
}

// A DayCounter measures the days from today until birth's next occurrence.
// DaysUntil and DaysUntilExact are both DayCounters.
type DayCounter func(today, birth time.Time) int

// Compare orders a and b by ascending day count.
func (c DayCounter) Compare(a, b, today time.Time) int {
	return cmp.Compare(c(today, a), c(today, b))
}

// CompareUpcoming orders a and b by ascending DaysUntil.
func CompareUpcoming(a, b, today time.Time) int {
	return DayCounter(DaysUntil).Compare(a, b, today)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
