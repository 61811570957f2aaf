// Package contacts holds the people whose birthdays are tracked, and the
// read-only snapshots of them that the recurrence helpers work on.
package contacts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("invalid name")
)

// DateLayout is the wire and storage format of a Birthday.
const DateLayout = "2006-01-02"

type Name string

func (n Name) String() string  { return string(n) }
func (n Name) Normalize() Name { return Name(strings.ToLower(strings.TrimSpace(n.String()))) }

// Validate reports whether the normalised name can be stored.
func (n Name) Validate() error {
	if n.Normalize() == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	return nil
}

type Birthday time.Time

func ParseBirthday(s string) (Birthday, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Birthday{}, fmt.Errorf("parsing birthday %q: %w", s, err)
	}
	return Birthday(t), nil
}

func (b Birthday) Time() time.Time { return time.Time(b) }
func (b Birthday) String() string  { return time.Time(b).Format(DateLayout) }
func (b Birthday) IsZero() bool    { return time.Time(b).IsZero() }

type Contact struct {
	ID       uuid.UUID
	Name     Name
	Birthday Birthday
}

// NewContact normalises name and gives the contact a fresh ID.
func NewContact(name Name, birthday Birthday) (Contact, error) {
	if err := name.Validate(); err != nil {
		return Contact{}, err
	}
	return Contact{ID: uuid.New(), Name: name.Normalize(), Birthday: birthday}, nil
}
