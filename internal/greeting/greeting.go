// Package greeting builds the user-facing text around a birthday: the detail
// headline, the reminder notification and the suggested wishes.
package greeting

import (
	"fmt"
	"time"

	"github.com/nightmarlin/birthdays"
	"github.com/nightmarlin/birthdays/internal/contacts"
)

type Headline struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// NewHeadline describes when name's birthday is, given its occurrence.
func NewHeadline(name contacts.Name, o birthdays.Occurrence) Headline {
	switch o.Kind {
	case birthdays.Today:
		return Headline{Title: "Birthday's Today!", Subtitle: "Let's pop some confetti 🎉"}
	case birthdays.Tomorrow:
		return Headline{Title: "Birthday's Tomorrow", Subtitle: planAhead(name)}
	default:
		return Headline{Title: "Birthday's on " + o.String(), Subtitle: planAhead(name)}
	}
}

func planAhead(name contacts.Name) string {
	return fmt.Sprintf("Let's plan ahead by preparing wishes for %s", name)
}

// A Reminder is the content and fire time of a birthday notification.
// Delivering it is up to the caller.
type Reminder struct {
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// NewReminder builds the reminder for c's next birthday, firing at hour:minute
// in today's location. If today is the birthday and hour:minute has already
// passed, the reminder is for the following year's birthday.
func NewReminder(c contacts.Contact, today time.Time, hour, minute int) Reminder {
	birth := c.Birthday.Time()
	at := fireTime(birthdays.NextOccurrence(birth, today), hour, minute)
	if at.Before(today) {
		at = fireTime(birthdays.NextOccurrence(birth, at.AddDate(0, 0, 1)), hour, minute)
	}
	return Reminder{
		Title: fmt.Sprintf("It's %s's Birthday today! 🎂", c.Name),
		Body:  "let's pop some confetti 🎉",
		At:    at,
	}
}

func fireTime(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// Answers fill in the wish templates.
type Answers struct {
	Name    string
	Turning int
	Memory  string
}

// Wishes returns the built-in birthday wishes for a.
func Wishes(a Answers) []string {
	return []string{
		fmt.Sprintf("Happy Birthday %s! Can't believe you're turning %d! Remember our time at %s?", a.Name, a.Turning, a.Memory),
		fmt.Sprintf("Wishing you a wonderful birthday, %s! %d years young and many more to come. Let's never forget %s.", a.Name, a.Turning, a.Memory),
	}
}
