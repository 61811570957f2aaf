package birthdays

import (
	"slices"
	"time"
)

// SortUpcoming sorts s in place so the soonest birthday comes first. Elements
// with equal day counts keep their relative order. A nil days uses DaysUntil.
func SortUpcoming[S ~[]E, E any](s S, today time.Time, days DayCounter, birth func(E) time.Time) {
	if days == nil {
		days = DaysUntil
	}

	// day counts are computed once per element, not once per comparison
	keyed := make([]keyedElem[E], len(s))
	for i, e := range s {
		keyed[i] = keyedElem[E]{days: days(today, birth(e)), e: e}
	}
	slices.SortStableFunc(keyed, func(a, b keyedElem[E]) int { return a.days - b.days })
	for i, k := range keyed {
		s[i] = k.e
	}
}

// Upcoming returns a sorted copy of s holding at most limit elements. A
// limit <= 0 returns every element.
func Upcoming[S ~[]E, E any](s S, today time.Time, limit int, days DayCounter, birth func(E) time.Time) S {
	out := slices.Clone(s)
	SortUpcoming(out, today, days, birth)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type keyedElem[E any] struct {
	days int
	e    E
}
