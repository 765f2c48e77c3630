// Uses an in-memory SQLite database; no external services required.
//
// Run:  go test ./db/... -v -race
package db_test

import (
	"context"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"invoicedb/db"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(db.Config{
		DSN:        ":memory:?_foreign_keys=on",
		DriverName: "sqlite3",
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{LogArgs: true}),
		},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (datetime('now', 'localtime')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now', 'localtime'))
		)`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return d
}

// ─────────────────────────────────────────────────────────────────────────────
// Open / Ping
// ─────────────────────────────────────────────────────────────────────────────

func TestOpen(t *testing.T) {
	d := newTestDB(t)
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	if _, err := db.Open(db.Config{DSN: "", DriverName: "sqlite3"}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
	if _, err := db.Open(db.Config{DSN: ":memory:", DriverName: ""}); err == nil {
		t.Fatal("expected error for empty driver name")
	}
}

func TestOpenWithDriver_SQLite(t *testing.T) {
	d, err := db.OpenWithDriver("sqlite3", db.DriverOptions{Database: ":memory:"}, db.Config{})
	if err != nil {
		t.Fatalf("open with driver: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	// The DSN defaults must have enabled foreign key enforcement.
	var fk int
	if err := d.QueryRow(context.Background(), `PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpenWithDriver_Unknown(t *testing.T) {
	_, err := db.OpenWithDriver("oracle", db.DriverOptions{Database: "x"}, db.Config{})
	if err == nil {
		t.Fatal("expected error for unregistered driver")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Exec / QueryRow
// ─────────────────────────────────────────────────────────────────────────────

func TestExec_Insert(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	res, err := d.Exec(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		"Alice", "alice@test.com",
	)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	n, _ := res.RowsAffected()
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		t.Fatalf("expected generated id, got %d (%v)", id, err)
	}
}

func TestQueryRow_Scan(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	_, err := d.Exec(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		"Bob", "bob@test.com",
	)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var name, email, createdAt string
	err = d.QueryRow(ctx, `SELECT name, email, created_at FROM users WHERE email = ?`, "bob@test.com").
		Scan(&name, &email, &createdAt)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if name != "Bob" || email != "bob@test.com" {
		t.Fatalf("unexpected values: name=%q email=%q", name, email)
	}
	if createdAt == "" {
		t.Fatal("expected created_at default to be applied")
	}
}

func TestQueryRow_NotFound(t *testing.T) {
	d := newTestDB(t)

	var name string
	err := d.QueryRow(context.Background(), `SELECT name FROM users WHERE id = ?`, 99999).Scan(&name)
	if !db.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExec_UniqueViolationMapped(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if _, err := d.Exec(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, "Alice", "dup@test.com"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := d.Exec(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, "Alicia", "dup@test.com")
	if !db.IsDuplicateKey(err) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Query — multiple rows
// ─────────────────────────────────────────────────────────────────────────────

func TestQuery_MultipleRows(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	for _, u := range []struct{ name, email string }{
		{"Alice", "alice@q.com"},
		{"Bob", "bob@q.com"},
		{"Carol", "carol@q.com"},
	} {
		if _, err := d.Exec(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, u.name, u.email); err != nil {
			t.Fatalf("insert %s: %v", u.name, err)
		}
	}

	rows, err := d.Query(ctx, `SELECT name FROM users ORDER BY name`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(names))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ExecTx
// ─────────────────────────────────────────────────────────────────────────────

func TestExecTx_Commit(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, "Dave", "dave@tx.com")
		return err
	})
	if err != nil {
		t.Fatalf("tx commit: %v", err)
	}

	var n int
	_ = d.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, "dave@tx.com").Scan(&n)
	if n != 1 {
		t.Fatalf("expected 1 committed row, got %d", n)
	}
}

func TestExecTx_RollbackOnError(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	sentinelErr := errors.New("intentional failure")

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, "Eve", "eve@rollback.com")
		if err != nil {
			return err
		}
		return sentinelErr // force rollback
	})
	if !errors.Is(err, sentinelErr) {
		t.Fatalf("expected sentinelErr, got %v", err)
	}

	var n int
	_ = d.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, "eve@rollback.com").Scan(&n)
	if n != 0 {
		t.Fatalf("expected 0 rows after rollback, got %d", n)
	}
}

func TestExecTx_RollbackOnPanic(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
	}()

	_ = d.ExecTx(ctx, func(tx *db.Tx) error {
		panic("test panic")
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// WithRetry
// ─────────────────────────────────────────────────────────────────────────────

func TestWithRetry_SucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := db.WithRetry(context.Background(), db.RetryConfig{MaxAttempts: 3}, func() error {
		attempts++
		if attempts < 2 {
			return db.ErrDeadlock
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	attempts := 0
	err := db.WithRetry(context.Background(), db.RetryConfig{MaxAttempts: 3}, func() error {
		attempts++
		return db.ErrDuplicateKey
	})
	if !db.IsDuplicateKey(err) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestWithRetry_Exhausted(t *testing.T) {
	attempts := 0
	err := db.WithRetry(context.Background(), db.RetryConfig{MaxAttempts: 3}, func() error {
		attempts++
		return db.ErrDeadlock
	})
	if !db.IsDeadlock(err) {
		t.Fatalf("expected wrapped ErrDeadlock, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}
