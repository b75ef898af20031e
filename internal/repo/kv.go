// Package repo contains all durable storage access for the trip planner.
// KV is the string key-value surface every collection is persisted through;
// it has a Postgres, a file and an in-memory implementation. The typed list
// repositories in list.go sit on top of it.
// No business logic lives here, only storage and JSON mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// KV is the durable key-value persistence surface. Values are opaque
// strings; structured values are JSON text encoded by the caller.
type KV interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written or was removed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// SetMany stores every entry of values, or none of them.
	SetMany(ctx context.Context, values map[string]string) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// pgKV is the Postgres implementation of KV, one row per key in kv_store.
type pgKV struct {
	db db
}

// NewKVRepo constructs a KV backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewKVRepo(db db) KV {
	return &pgKV{db: db}
}

// Get reads one key.
func (r *pgKV) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM kv_store WHERE key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("repo.KV.Get: %w", err)
	}
	return value, true, nil
}

// Set upserts one key.
func (r *pgKV) Set(ctx context.Context, key, value string) error {
	if err := upsert(ctx, r.db, key, value); err != nil {
		return fmt.Errorf("repo.KV.Set: %w", err)
	}
	return nil
}

// Remove deletes one key.
func (r *pgKV) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE key = @key`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("repo.KV.Remove: %w", err)
	}
	return nil
}

// SetMany upserts every entry inside one transaction.
func (r *pgKV) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.KV.SetMany: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	for key, value := range values {
		if err := upsert(ctx, tx, key, value); err != nil {
			return fmt.Errorf("repo.KV.SetMany: %s: %w", key, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.KV.SetMany: commit: %w", err)
	}
	return nil
}

// execer is satisfied by both db and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsert(ctx context.Context, e execer, key, value string) error {
	const q = `
		INSERT INTO kv_store (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	_, err := e.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value})
	return err
}
