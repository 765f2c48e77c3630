package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"invoicedb/db"
	"invoicedb/models"
	"invoicedb/normalize"
)

// ─────────────────────────────────────────────────────────────────────────────
// InvoiceRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// InvoiceRepository defines the contract for invoice persistence operations.
type InvoiceRepository interface {
	Insert(ctx context.Context, params models.CreateInvoiceParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Invoice, error)
	ListByRange(ctx context.Context, userID int64, start, end string) ([]*models.Invoice, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Invoice, error)
	Count(ctx context.Context, userID *int64) (int64, error)
	SumByUser(ctx context.Context, userID int64) (int64, error)
	Update(ctx context.Context, params models.UpdateInvoiceParams) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type invoiceRepo struct {
	q db.Querier
}

// NewInvoiceRepo returns an InvoiceRepository backed by q.
func NewInvoiceRepo(q db.Querier) InvoiceRepository {
	return &invoiceRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlInsertInvoice = `
		INSERT INTO invoices (user_id, date_issued, due_date, total)
		VALUES (?, ?, ?, ?)`

	sqlGetInvoiceByID = `
		SELECT invoice_id, user_id, date_issued, due_date, total, created_at, updated_at
		FROM   invoices
		WHERE  invoice_id = ?
		LIMIT  1`

	sqlListInvoicesByUser = `
		SELECT invoice_id, user_id, date_issued, due_date, total, created_at, updated_at
		FROM   invoices
		WHERE  user_id = ?
		ORDER  BY date_issued DESC, invoice_id DESC`

	sqlListInvoicesByRange = `
		SELECT invoice_id, user_id, date_issued, due_date, total, created_at, updated_at
		FROM   invoices
		WHERE  user_id = ? AND date_issued BETWEEN ? AND ?
		ORDER  BY date_issued DESC, invoice_id DESC`

	sqlCountInvoices = `
		SELECT COUNT(*) FROM invoices`

	sqlCountInvoicesByUser = `
		SELECT COUNT(*) FROM invoices WHERE user_id = ?`

	sqlSumInvoicesByUser = `
		SELECT COALESCE(SUM(total), 0) FROM invoices WHERE user_id = ?`

	sqlDeleteInvoice = `
		DELETE FROM invoices WHERE invoice_id = ?`
)

// Insert asserts the user exists, normalizes the total and both dates, and
// inserts the invoice, returning the generated id. All validation happens
// before the INSERT is issued.
func (r *invoiceRepo) Insert(ctx context.Context, params models.CreateInvoiceParams) (int64, error) {
	if err := AssertUserExists(ctx, r.q, params.UserID); err != nil {
		return 0, err
	}
	cents, err := normalize.ToCents(params.Total)
	if err != nil {
		return 0, err
	}
	issued, err := normalize.Date(params.DateIssued)
	if err != nil {
		return 0, err
	}
	if issued == "" {
		return 0, fmt.Errorf("%w: date issued is required", models.ErrInvalidFormat)
	}
	due, err := normalizeOptionalDate(params.DateDue)
	if err != nil {
		return 0, err
	}

	res, err := r.q.Exec(ctx, sqlInsertInvoice, params.UserID, issued, due, cents)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: user id=%d", models.ErrNotFound, params.UserID)
		}
		return 0, storageErr("insert invoice", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert invoice id", err)
	}
	return id, nil
}

// GetByID returns a single invoice by primary key, or nil when absent.
func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	return scanInvoice(r.q.QueryRow(ctx, sqlGetInvoiceByID, id))
}

// ListByUser returns the user's invoices ordered by issue date descending,
// ties broken by more-recently-created (higher id) first.
func (r *invoiceRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Invoice, error) {
	return r.list(ctx, sqlListInvoicesByUser, userID)
}

// ListByRange returns the user's invoices whose issue date falls inclusively
// between start and end, after normalizing both bounds.
func (r *invoiceRepo) ListByRange(ctx context.Context, userID int64, start, end string) ([]*models.Invoice, error) {
	lo, err := normalize.Date(start)
	if err != nil {
		return nil, err
	}
	hi, err := normalize.Date(end)
	if err != nil {
		return nil, err
	}
	if lo == "" || hi == "" {
		return nil, fmt.Errorf("%w: start and end dates are required", models.ErrInvalidFormat)
	}
	return r.list(ctx, sqlListInvoicesByRange, userID, lo, hi)
}

// ListByEmail resolves the user by email first and returns that user's
// invoices. No such user yields an empty list, not an error.
func (r *invoiceRepo) ListByEmail(ctx context.Context, email string) ([]*models.Invoice, error) {
	var userID int64
	err := r.q.QueryRow(ctx, sqlEmailOwner, strings.TrimSpace(email)).Scan(&userID)
	if err != nil {
		if db.IsNotFound(err) {
			return []*models.Invoice{}, nil
		}
		return nil, storageErr("resolve user by email", err)
	}
	return r.ListByUser(ctx, userID)
}

// Count returns the total number of invoices, optionally scoped to one user.
func (r *invoiceRepo) Count(ctx context.Context, userID *int64) (int64, error) {
	var n int64
	var err error
	if userID != nil {
		err = r.q.QueryRow(ctx, sqlCountInvoicesByUser, *userID).Scan(&n)
	} else {
		err = r.q.QueryRow(ctx, sqlCountInvoices).Scan(&n)
	}
	if err != nil {
		return 0, storageErr("count invoices", err)
	}
	return n, nil
}

// SumByUser returns the summed total across a user's invoices, 0 when none.
func (r *invoiceRepo) SumByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	if err := r.q.QueryRow(ctx, sqlSumInvoicesByUser, userID).Scan(&sum); err != nil {
		return 0, storageErr("sum invoices", err)
	}
	return sum, nil
}

// Update applies a partial update: only non-nil params are touched, each
// validated and normalized first, with the new user re-checked for existence
// when UserID is supplied. Returns false without error when no fields were
// supplied, and models.ErrNoChange when every supplied value equals the
// current one.
func (r *invoiceRepo) Update(ctx context.Context, params models.UpdateInvoiceParams) (bool, error) {
	if params.DateIssued == nil && params.DateDue == nil && params.Total == nil && params.UserID == nil {
		return false, nil
	}

	current, err := r.GetByID(ctx, params.ID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, fmt.Errorf("%w: invoice id=%d", models.ErrNotFound, params.ID)
	}

	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 5)
	changed := false

	if params.DateIssued != nil {
		issued, err := normalize.Date(*params.DateIssued)
		if err != nil {
			return false, err
		}
		if issued == "" {
			return false, fmt.Errorf("%w: date issued cannot be blank", models.ErrInvalidFormat)
		}
		if issued != current.DateIssued {
			changed = true
		}
		setClauses = append(setClauses, "date_issued = ?")
		args = append(args, issued)
	}
	if params.DateDue != nil {
		due, err := normalizeOptionalDate(params.DateDue)
		if err != nil {
			return false, err
		}
		if !equalOptional(due, current.DateDue) {
			changed = true
		}
		setClauses = append(setClauses, "due_date = ?")
		args = append(args, due)
	}
	if params.Total != nil {
		cents, err := normalize.ToCents(*params.Total)
		if err != nil {
			return false, err
		}
		if cents != current.TotalCents {
			changed = true
		}
		setClauses = append(setClauses, "total = ?")
		args = append(args, cents)
	}
	if params.UserID != nil {
		if err := AssertUserExists(ctx, r.q, *params.UserID); err != nil {
			return false, err
		}
		if *params.UserID != current.UserID {
			changed = true
		}
		setClauses = append(setClauses, "user_id = ?")
		args = append(args, *params.UserID)
	}
	if !changed {
		return false, models.ErrNoChange
	}

	args = append(args, params.ID)
	query := fmt.Sprintf("UPDATE invoices SET %s WHERE invoice_id = ?", strings.Join(setClauses, ", "))

	res, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if db.IsForeignKeyViolation(err) && params.UserID != nil {
			return false, fmt.Errorf("%w: user id=%d", models.ErrNotFound, *params.UserID)
		}
		return false, storageErr("update invoice", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("update invoice", err)
	}
	return n > 0, nil
}

// Delete removes the invoice; returns whether a row existed to delete.
func (r *invoiceRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.Exec(ctx, sqlDeleteInvoice, id)
	if err != nil {
		return false, storageErr("delete invoice", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete invoice", err)
	}
	return n > 0, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *invoiceRepo) list(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list invoices", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv := &models.Invoice{}
		var due sql.NullString
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.DateIssued, &due, &inv.TotalCents, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, storageErr("scan invoice", err)
		}
		if due.Valid {
			inv.DateDue = &due.String
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list invoices", err)
	}
	return invoices, nil
}

// scanInvoice scans a single invoice row; absence is (nil, nil).
func scanInvoice(row *db.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var due sql.NullString
	err := row.Scan(&inv.ID, &inv.UserID, &inv.DateIssued, &due, &inv.TotalCents, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, storageErr("scan invoice", err)
	}
	if due.Valid {
		inv.DateDue = &due.String
	}
	return inv, nil
}

// normalizeOptionalDate normalizes a nullable date. A nil pointer or a blank
// value both store as NULL; the returned any is either nil or a canonical
// YYYY-MM-DD string, ready to bind.
func normalizeOptionalDate(raw *string) (any, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := normalize.Date(*raw)
	if err != nil {
		return nil, err
	}
	if d == "" {
		return nil, nil
	}
	return d, nil
}

// equalOptional compares a bound optional date (nil or string) against the
// current row's nullable column.
func equalOptional(bound any, current *string) bool {
	if bound == nil {
		return current == nil
	}
	s, ok := bound.(string)
	return ok && current != nil && s == *current
}

var _ InvoiceRepository = (*invoiceRepo)(nil)
