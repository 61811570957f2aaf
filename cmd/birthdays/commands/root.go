// Package commands implements the birthdays CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/nightmarlin/birthdays"
	"github.com/nightmarlin/birthdays/internal/config"
	"github.com/nightmarlin/birthdays/internal/contacts"
	"github.com/nightmarlin/birthdays/internal/postgres"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg *config.Config

	file        string
	databaseURL string
	todayFlag   string
	weekStart   string
	exact       bool

	now   func() time.Time
	today time.Time
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return NewRootCommand(time.Now).ExecuteContext(ctx)
}

// NewRootCommand builds the CLI. now supplies the date when --today isn't
// given.
func NewRootCommand(now func() time.Time) *cobra.Command {
	a := &app{now: now}

	root := &cobra.Command{
		Use:           "birthdays",
		Short:         "See whose birthday is coming up",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.file, "file", "f", "", "YAML contacts file (default: read from the database)")
	root.PersistentFlags().StringVar(&a.databaseURL, "database-url", "", "postgres connection string (default from BIRTHDAYS_DATABASE_URL)")
	root.PersistentFlags().StringVar(&a.todayFlag, "today", "", "reference date as YYYY-MM-DD (default: today)")
	root.PersistentFlags().StringVar(&a.weekStart, "week-start", "", "first day of the week (default from config)")
	root.PersistentFlags().BoolVar(&a.exact, "exact", false, "count calendar days instead of 30-day months")

	root.AddCommand(upcomingCmd(a), showCmd(a), greetCmd(a), importCmd(a), exportCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("database-url") {
		cfg.DatabaseURL = a.databaseURL
	}
	if flags.Changed("week-start") {
		cfg.WeekStart = a.weekStart
	}
	if flags.Changed("exact") {
		cfg.ExactDayCounts = a.exact
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	now := a.now()
	a.today = now
	if a.todayFlag != "" {
		if a.today, err = time.ParseInLocation(contacts.DateLayout, a.todayFlag, now.Location()); err != nil {
			return fmt.Errorf("parsing --today: %w", err)
		}
	}
	return nil
}

// snapshot reads contacts from --file if given, otherwise from the database.
func (a *app) snapshot(ctx context.Context) (contacts.Snapshot, error) {
	if a.file != "" {
		return contacts.LoadFile(a.file)
	}

	db, err := a.db(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Snapshot(ctx)
}

func (a *app) db(ctx context.Context) (*postgres.DB, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, errors.New("no database configured")
	}
	slog.DebugContext(ctx, "connecting to database")
	return postgres.Connect(ctx, a.cfg.DatabaseURL)
}

func (a *app) find(ctx context.Context, name string) (contacts.Contact, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return contacts.Contact{}, err
	}
	return snap.Find(contacts.Name(name))
}

func (a *app) classify(c contacts.Contact) birthdays.Occurrence {
	return birthdays.ClassifyWeek(c.Birthday.Time(), a.today, a.cfg.Weekday())
}
