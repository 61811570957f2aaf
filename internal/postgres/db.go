// Package postgres stores birthdays in a single postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nightmarlin/birthdays/internal/contacts"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, pool *pgxpool.Pool) (*DB, error) {
	if _, err := pool.Exec(
		ctx,
		`create table if not exists birthdays (id uuid not null unique, name text primary key not null, date date not null)`,
	); err != nil {
		return nil, fmt.Errorf("creating birthdays table: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Connect opens a pool for dsn and prepares the schema.
func Connect(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	db, err := New(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() { db.pool.Close() }

const upsert = `insert into birthdays ("id", "name", "date") values ($1::uuid, $2::text, $3::date)
on conflict ("name") do update set date = excluded.date
returning "id", "name", "date"`

// InsertBirthdays upserts every contact in s by name in one transaction.
// Existing rows keep their id.
func (db *DB) InsertBirthdays(ctx context.Context, s contacts.Snapshot) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range s {
			batch.Queue(upsert, c.ID, c.Name.Normalize(), c.Birthday.Time())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting birthdays: %w", err)
		}
		return nil
	})
}

// PutBirthday upserts a single birthday and returns the stored contact.
func (db *DB) PutBirthday(ctx context.Context, name contacts.Name, b contacts.Birthday) (contacts.Contact, error) {
	c, err := contacts.NewContact(name, b)
	if err != nil {
		return contacts.Contact{}, err
	}

	stored, err := scanContact(db.pool.QueryRow(ctx, upsert, c.ID, c.Name, c.Birthday.Time()))
	if err != nil {
		return contacts.Contact{}, fmt.Errorf("storing birthday for %q: %w", name, err)
	}
	slog.InfoContext(
		ctx,
		"stored birthday",
		slog.String("name", stored.Name.String()),
		slog.String("date", stored.Birthday.String()),
	)
	return stored, nil
}

func (db *DB) LookupContact(ctx context.Context, name contacts.Name) (contacts.Contact, error) {
	name = name.Normalize()

	c, err := scanContact(
		db.pool.QueryRow(ctx, `select "id", "name", "date" from birthdays where "name" = $1`, name),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contacts.Contact{}, fmt.Errorf("%w: %s", contacts.ErrNotFound, name)
		}
		return contacts.Contact{}, fmt.Errorf("looking up birthday: %w", err)
	}

	slog.InfoContext(
		ctx,
		"loaded birthday from db",
		slog.String("name", name.String()),
		slog.String("date", c.Birthday.String()),
	)
	return c, nil
}

func (db *DB) DeleteBirthday(ctx context.Context, name contacts.Name) error {
	name = name.Normalize()

	tag, err := db.pool.Exec(ctx, `delete from birthdays where "name" = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting birthday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", contacts.ErrNotFound, name)
	}
	return nil
}

// Snapshot reads every stored contact, ordered by name.
func (db *DB) Snapshot(ctx context.Context) (contacts.Snapshot, error) {
	rows, err := db.pool.Query(ctx, `select "id", "name", "date" from birthdays order by "name"`)
	if err != nil {
		return nil, fmt.Errorf("listing birthdays: %w", err)
	}

	snap, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contacts.Contact, error) {
		return scanContact(row)
	})
	if err != nil {
		return nil, fmt.Errorf("reading birthdays: %w", err)
	}
	return snap, nil
}

func scanContact(row pgx.Row) (contacts.Contact, error) {
	var (
		id   uuid.UUID
		name string
		date time.Time
	)
	if err := row.Scan(&id, &name, &date); err != nil {
		return contacts.Contact{}, err
	}
	return contacts.Contact{ID: id, Name: contacts.Name(name), Birthday: contacts.Birthday(date)}, nil
}
