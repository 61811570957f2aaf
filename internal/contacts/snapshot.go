package contacts

import (
	"fmt"
	"time"

	"github.com/nightmarlin/birthdays"
)

// A Snapshot is a point-in-time copy of the stored contacts. Callers treat it
// as read-only; the helpers below never modify it.
type Snapshot []Contact

// Find returns the contact with the given (normalised) name.
func (s Snapshot) Find(name Name) (Contact, error) {
	name = name.Normalize()
	for _, c := range s {
		if c.Name == name {
			return c, nil
		}
	}
	return Contact{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Upcoming returns up to limit contacts ordered by how soon their birthday
// comes round after today. A limit <= 0 returns every contact. Contacts with
// no birthday are left out.
func (s Snapshot) Upcoming(today time.Time, limit int, days birthdays.DayCounter) Snapshot {
	known := make(Snapshot, 0, len(s))
	for _, c := range s {
		if !c.Birthday.IsZero() {
			known = append(known, c)
		}
	}
	return birthdays.Upcoming(known, today, limit, days, birthOf)
}

func birthOf(c Contact) time.Time { return c.Birthday.Time() }
