// Package config defines the birthday service configuration and how it's
// loaded.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nightmarlin/birthdays"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is a pgx connection string.
	DatabaseURL string `koanf:"database_url"`

	// CacheSize bounds the name -> birthday lookup cache.
	CacheSize int `koanf:"cache_size"`

	// SeedFile optionally names a YAML snapshot upserted on startup.
	SeedFile string `koanf:"seed_file"`

	// WeekStart is the first day of the week for "This <Weekday>" labels.
	WeekStart string `koanf:"week_start"`

	// DefaultUpcomingLimit applies to GET /birthdays without ?limit, and
	// MaxUpcomingLimit caps it.
	DefaultUpcomingLimit int `koanf:"default_upcoming_limit"`
	MaxUpcomingLimit     int `koanf:"max_upcoming_limit"`

	// ExactDayCounts switches day counts from the 30-day-month approximation
	// to calendar days.
	ExactDayCounts bool `koanf:"exact_day_counts"`

	ShutdownGraceSeconds int `koanf:"shutdown_grace_seconds"`

	// ReminderHour and ReminderMinute set the local time reminders fire at.
	ReminderHour   int `koanf:"reminder_hour"`
	ReminderMinute int `koanf:"reminder_minute"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8080",
		DatabaseURL:          "host=localhost port=5432 user=postgres password=password dbname=postgres TimeZone=UTC",
		CacheSize:            128,
		WeekStart:            "sunday",
		DefaultUpcomingLimit: 3,
		MaxUpcomingLimit:     50,
		ShutdownGraceSeconds: 5,
		ReminderHour:         10,
		ReminderMinute:       9,
	}
}

// Validate checks the values that can't be caught by their types.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database_url must not be empty"))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if _, err := ParseWeekday(c.WeekStart); err != nil {
		errs = append(errs, err)
	}
	if c.MaxUpcomingLimit < 1 {
		errs = append(errs, fmt.Errorf("max_upcoming_limit must be positive, got %d", c.MaxUpcomingLimit))
	}
	if c.DefaultUpcomingLimit < 1 || c.DefaultUpcomingLimit > c.MaxUpcomingLimit {
		errs = append(errs, fmt.Errorf("default_upcoming_limit must be in [1, %d], got %d", c.MaxUpcomingLimit, c.DefaultUpcomingLimit))
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 || c.ReminderMinute < 0 || c.ReminderMinute > 59 {
		errs = append(errs, fmt.Errorf("reminder time %d:%d is not a time of day", c.ReminderHour, c.ReminderMinute))
	}
	return errors.Join(errs...)
}

// Weekday returns the parsed WeekStart. Call Validate first.
func (c *Config) Weekday() time.Weekday {
	d, _ := ParseWeekday(c.WeekStart)
	return d
}

// DayCounter returns the day counting rule selected by ExactDayCounts.
func (c *Config) DayCounter() birthdays.DayCounter {
	if c.ExactDayCounts {
		return birthdays.DaysUntilExact
	}
	return birthdays.DaysUntil
}

func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownGraceSeconds) * time.Second
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == s {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
