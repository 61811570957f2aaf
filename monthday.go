package birthdays

import (
	"cmp"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonthDay is returned when a month/day pair can't occur in any
// year.
var ErrInvalidMonthDay = errors.New("invalid month/day")

// A MonthDay is the year-agnostic part of a date. Birthdays recur on their
// MonthDay, so that's all the recurrence arithmetic ever looks at.
//
// The zero MonthDay is not valid.
type MonthDay struct {
	Month time.Month
	Day   int
}

// NewMonthDay validates m and d. 29 February is accepted.
func NewMonthDay(m time.Month, d int) (MonthDay, error) {
	if m < time.January || m > time.December {
		return MonthDay{}, fmt.Errorf("%w: month %d", ErrInvalidMonthDay, m)
	}
	if d < 1 || d > maxDays(m) {
		return MonthDay{}, fmt.Errorf("%w: day %d of %s", ErrInvalidMonthDay, d, m)
	}
	return MonthDay{Month: m, Day: d}, nil
}

// MonthDayOf projects t onto its month and day, in t's location.
func MonthDayOf(t time.Time) MonthDay {
	_, m, d := t.Date()
	return MonthDay{Month: m, Day: d}
}

// Compare orders month/days within a single year: -1 if md is earlier than o,
// +1 if later and 0 if equal.
func (md MonthDay) Compare(o MonthDay) int {
	if c := cmp.Compare(md.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(md.Day, o.Day)
}

// In returns midnight of md in the given year and location. 29 February
// falls back to 28 February when year isn't a leap year.
func (md MonthDay) In(year int, loc *time.Location) time.Time {
	d := md.Day
	if md.Month == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, md.Month, d, 0, 0, 0, 0, loc)
}

// String renders md as "4 August".
func (md MonthDay) String() string {
	return fmt.Sprintf("%d %s", md.Day, md.Month)
}

func maxDays(m time.Month) int {
	// 2000 is a leap year, so February allows 29.
	return time.Date(2000, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
