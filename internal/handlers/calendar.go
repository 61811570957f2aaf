// Package handlers exposes birthdays over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nightmarlin/birthdays"
	"github.com/nightmarlin/birthdays/internal/contacts"
)

const (
	namePathValue = `name`
	todayQuery    = `today`
)

type (
	ContactGetter   func(context.Context, contacts.Name) (contacts.Contact, error)
	SnapshotGetter  func(context.Context) (contacts.Snapshot, error)
	BirthdayPutter  func(context.Context, contacts.Name, contacts.Birthday) (contacts.Contact, error)
	BirthdayDeleter func(context.Context, contacts.Name) error
)

// A Calendar holds what every handler needs to put a birthday in context.
type Calendar struct {
	// Now is the wall clock; its location is the user's.
	Now       func() time.Time
	WeekStart time.Weekday
	// Days counts the days until a birthday. Nil means birthdays.DaysUntil.
	Days birthdays.DayCounter

	ReminderHour, ReminderMinute int
}

// today reads ?today=YYYY-MM-DD, falling back to the clock.
func (c Calendar) today(r *http.Request) (time.Time, error) {
	now := c.Now()
	s := r.URL.Query().Get(todayQuery)
	if s == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(contacts.DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a %s date", todayQuery, contacts.DateLayout)
	}
	return t, nil
}

func (c Calendar) days() birthdays.DayCounter {
	if c.Days == nil {
		return birthdays.DaysUntil
	}
	return c.Days
}

type birthdayResponse struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Birthday  string `json:"birthday"`
	Next      string `json:"next"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	DaysUntil int    `json:"days_until"`
	Turning   int    `json:"turning"`
}

func (c Calendar) describe(ct contacts.Contact, today time.Time) birthdayResponse {
	b := ct.Birthday.Time()
	o := c.classify(ct, today)
	return birthdayResponse{
		ID:        ct.ID.String(),
		Name:      ct.Name.String(),
		Birthday:  ct.Birthday.String(),
		Next:      birthdays.NextOccurrence(b, today).Format(contacts.DateLayout),
		Kind:      o.Kind.String(),
		Label:     o.String(),
		DaysUntil: c.days()(today, b),
		Turning:   birthdays.Turning(b, today),
	}
}

func (c Calendar) classify(ct contacts.Contact, today time.Time) birthdays.Occurrence {
	return birthdays.ClassifyWeek(ct.Birthday.Time(), today, c.WeekStart)
}

func pathName(r *http.Request) (contacts.Name, error) {
	n := contacts.Name(r.PathValue(namePathValue)).Normalize()
	if err := n.Validate(); err != nil {
		return "", fmt.Errorf("%s is required", namePathValue)
	}
	return n, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to write response", slog.String("error", err.Error()))
	}
}

// writeStoreError maps store errors to responses, logging the unexpected ones.
func writeStoreError(w http.ResponseWriter, r *http.Request, name contacts.Name, action string, err error) {
	if errors.Is(err, contacts.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if errors.Is(err, contacts.ErrInvalidName) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.ErrorContext(
		r.Context(),
		"failed to "+action,
		slog.String("name", name.String()),
		slog.String("error", err.Error()),
	)

	err = fmt.Errorf("an unknown error occurred: %w", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
