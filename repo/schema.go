package repo

import (
	"context"

	"invoicedb/db"
)

// ─────────────────────────────────────────────────────────────────────────────
// DDL
// ─────────────────────────────────────────────────────────────────────────────

// Every statement here is idempotent (IF NOT EXISTS / IF EXISTS) so schema
// setup can run at every startup without guarding.

const ddlUsers = `
	CREATE TABLE IF NOT EXISTS users (
		id          INTEGER PRIMARY KEY,
		name        TEXT    NOT NULL CHECK (length(trim(name)) > 0),
		email       TEXT    NOT NULL CHECK (length(trim(email)) > 0),
		created_at  TEXT    NOT NULL DEFAULT (datetime('now', 'localtime')),
		updated_at  TEXT    NOT NULL DEFAULT (datetime('now', 'localtime'))
	)`

// Uniqueness is enforced on lower(email) so "A@x.com" and "a@x.com" collide.
const ddlUserIndexes = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(lower(email));
	CREATE INDEX IF NOT EXISTS idx_users_name ON users(name)`

const ddlInvoices = `
	CREATE TABLE IF NOT EXISTS invoices (
		invoice_id      INTEGER PRIMARY KEY,
		user_id         INTEGER NOT NULL,
		date_issued     TEXT    NOT NULL,
		due_date        TEXT,
		total           INTEGER NOT NULL DEFAULT 0
		                CHECK (total >= 0 AND total = CAST(total AS INTEGER)),
		created_at      TEXT    NOT NULL DEFAULT (datetime('now', 'localtime')),
		updated_at      TEXT    NOT NULL DEFAULT (datetime('now', 'localtime')),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`

const ddlInvoiceIndexes = `
	CREATE INDEX IF NOT EXISTS idx_invoices_user_id ON invoices(user_id);
	CREATE INDEX IF NOT EXISTS idx_invoices_date_issued ON invoices(date_issued);
	CREATE INDEX IF NOT EXISTS idx_invoices_due_date ON invoices(due_date);
	CREATE INDEX IF NOT EXISTS idx_invoices_user_date ON invoices(user_id, date_issued)`

// Both triggers refresh updated_at on any UPDATE. They require
// recursive_triggers=off, otherwise the inner UPDATE would re-fire them.
const ddlTriggers = `
	CREATE TRIGGER IF NOT EXISTS trigger_users_updated
	AFTER UPDATE ON users
	BEGIN
		UPDATE users
		SET updated_at = datetime('now', 'localtime')
		WHERE id = NEW.id;
	END;

	CREATE TRIGGER IF NOT EXISTS trigger_invoices_updated
	AFTER UPDATE ON invoices
	BEGIN
		UPDATE invoices
		SET updated_at = datetime('now', 'localtime')
		WHERE invoice_id = NEW.invoice_id;
	END`

const ddlSummaryView = `
	CREATE VIEW IF NOT EXISTS user_invoice_summary AS
	SELECT
		u.id AS user_id,
		u.name,
		u.email,
		COUNT(i.invoice_id) AS invoice_count,
		COALESCE(SUM(i.total), 0) AS total_cents
	FROM users u
	LEFT JOIN invoices i ON i.user_id = u.id
	GROUP BY u.id, u.name, u.email`

const ddlDrop = `
	DROP VIEW IF EXISTS user_invoice_summary;
	DROP TRIGGER IF EXISTS trigger_users_updated;
	DROP TRIGGER IF EXISTS trigger_invoices_updated;
	DROP TABLE IF EXISTS invoices;
	DROP TABLE IF EXISTS users`

// ─────────────────────────────────────────────────────────────────────────────
// Schema entry points
// ─────────────────────────────────────────────────────────────────────────────

func CreateUserSchema(ctx context.Context, q db.Querier) error {
	return execAll(ctx, q, "create user schema", ddlUsers, ddlUserIndexes)
}

func CreateInvoiceSchema(ctx context.Context, q db.Querier) error {
	return execAll(ctx, q, "create invoice schema", ddlInvoices, ddlInvoiceIndexes)
}

func CreateTriggers(ctx context.Context, q db.Querier) error {
	return execAll(ctx, q, "create triggers", ddlTriggers)
}

func CreateSummaryView(ctx context.Context, q db.Querier) error {
	return execAll(ctx, q, "create summary view", ddlSummaryView)
}

// InitSchema creates the full schema: tables, indexes, triggers and the
// summary view, in dependency order.
func InitSchema(ctx context.Context, q db.Querier) error {
	if err := CreateUserSchema(ctx, q); err != nil {
		return err
	}
	if err := CreateInvoiceSchema(ctx, q); err != nil {
		return err
	}
	if err := CreateTriggers(ctx, q); err != nil {
		return err
	}
	return CreateSummaryView(ctx, q)
}

// DropSchema removes everything InitSchema creates, dependents first.
func DropSchema(ctx context.Context, q db.Querier) error {
	return execAll(ctx, q, "drop schema", ddlDrop)
}

// execAll runs each script statement by statement. database/sql forwards only
// one statement per Exec to most drivers, so multi-statement constants are
// split on the trailing semicolons between them.
func execAll(ctx context.Context, q db.Querier, op string, scripts ...string) error {
	for _, script := range scripts {
		for _, stmt := range splitStatements(script) {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return storageErr(op, err)
			}
		}
	}
	return nil
}

// splitStatements breaks a DDL script on semicolons at statement boundaries,
// skipping semicolons inside trigger BEGIN...END bodies.
func splitStatements(script string) []string {
	var stmts []string
	depth := 0
	start := 0
	raw := []byte(script)
	for i := 0; i < len(script); i++ {
		switch {
		case hasWordAt(raw, i, "BEGIN"):
			depth++
		case hasWordAt(raw, i, "END"):
			if depth > 0 {
				depth--
			}
		case script[i] == ';' && depth == 0:
			if s := trimStatement(script[start:i]); s != "" {
				stmts = append(stmts, s)
			}
			start = i + 1
		}
	}
	if s := trimStatement(script[start:]); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

func hasWordAt(s []byte, i int, word string) bool {
	if i+len(word) > len(s) {
		return false
	}
	for j := 0; j < len(word); j++ {
		c := s[i+j]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c != word[j] {
			return false
		}
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	if i+len(word) < len(s) && isWordByte(s[i+len(word)]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func trimStatement(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}
