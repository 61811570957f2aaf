package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nightmarlin/birthdays/cache"
	"github.com/nightmarlin/birthdays/internal/config"
	"github.com/nightmarlin/birthdays/internal/contacts"
	"github.com/nightmarlin/birthdays/internal/handlers"
	"github.com/nightmarlin/birthdays/internal/metrics"
	"github.com/nightmarlin/birthdays/internal/postgres"
)

func main() {
	var level slog.LevelVar
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level})))

	if err := func() error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}

		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.SeedFile != "" {
			seed, err := contacts.LoadFile(cfg.SeedFile)
			if err != nil {
				return fmt.Errorf("loading seed file: %w", err)
			}
			if err := db.InsertBirthdays(ctx, seed); err != nil {
				return fmt.Errorf("inserting birthday set: %w", err)
			}
			slog.InfoContext(ctx, "seeded birthdays", slog.String("file", cfg.SeedFile), slog.Int("count", len(seed)))
		}

		m := metrics.NewManager()

		lookups := cache.New[contacts.Name, contacts.Contact](cfg.CacheSize)
		getContact := wrapCache(lookups, m, db.LookupContact)
		invalidate := func(n contacts.Name) { lookups.Invalidate(n.Normalize()) }

		snapshot := func(ctx context.Context) (contacts.Snapshot, error) {
			s, err := db.Snapshot(ctx)
			if err == nil {
				m.RecordSnapshotSize(len(s))
			}
			return s, err
		}

		cal := handlers.Calendar{
			Now:            time.Now,
			WeekStart:      cfg.Weekday(),
			Days:           cfg.DayCounter(),
			ReminderHour:   cfg.ReminderHour,
			ReminderMinute: cfg.ReminderMinute,
		}
		limits := handlers.Limits{Default: cfg.DefaultUpcomingLimit, Max: cfg.MaxUpcomingLimit}

		mux := &http.ServeMux{}
		handle := func(endpoint string) func(string, http.Handler) {
			return func(pattern string, h http.Handler) { mux.Handle(pattern, m.Middleware(endpoint, h)) }
		}
		handle("get_birthday")(handlers.GetBirthdayHandler(cal, getContact))
		handle("put_birthday")(handlers.PutBirthdayHandler(cal, db.PutBirthday, invalidate))
		handle("delete_birthday")(handlers.DeleteBirthdayHandler(db.DeleteBirthday, invalidate))
		handle("upcoming")(handlers.UpcomingHandler(cal, snapshot, limits))
		handle("greeting")(handlers.GreetingHandler(cal, getContact))
		mux.Handle("GET /metrics", m.Handler())

		srv := http.Server{Addr: cfg.Addr, Handler: mux}
		go func() {
			<-ctx.Done()
			grace := cfg.ShutdownGrace()
			slog.InfoContext(ctx, "shutting down server", slog.Duration("grace_period", grace))

			ctx, cancel := context.WithTimeout(context.Background(), grace)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()

		slog.InfoContext(ctx, "starting server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unexpected error while serving http: %w", err)
		}
		return nil

	}(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func wrapCache[K comparable, V any](
	c *cache.LRU[K, V],
	m *metrics.Manager,
	load func(context.Context, K) (V, error),
) func(context.Context, K) (V, error) {
	countedLoad := func(ctx context.Context, k K) (V, error) {
		m.RecordCacheMiss()
		return load(ctx, k)
	}
	return func(ctx context.Context, k K) (V, error) {
		m.RecordCacheLookup()
		return c.Lookup(ctx, k, countedLoad)
	}
}
