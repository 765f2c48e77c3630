// Package repo implements the validated data-access layer: typed repository
// operations over users and invoices. Every operation normalizes its input,
// asserts the data-model invariants, and only then issues its single mutating
// statement, so a failed operation never leaves partial state behind.
package repo

import (
	"context"
	"fmt"

	"invoicedb/db"
	"invoicedb/models"
)

const (
	sqlUserExists = `
		SELECT 1 FROM users WHERE id = ? LIMIT 1`

	sqlEmailOwner = `
		SELECT id FROM users WHERE lower(email) = lower(?) LIMIT 1`
)

// AssertUserExists fails with models.ErrNotFound when no user row has the id.
func AssertUserExists(ctx context.Context, q db.Querier, userID int64) error {
	var one int
	err := q.QueryRow(ctx, sqlUserExists, userID).Scan(&one)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: user id=%d", models.ErrNotFound, userID)
		}
		return storageErr("check user exists", err)
	}
	return nil
}

// AssertEmailUnique performs a case-insensitive lookup and fails with
// models.ErrDuplicateEmail when a different user already holds the email.
// excludeUserID lets an update check uniqueness against all users except the
// one being modified; pass nil on create.
func AssertEmailUnique(ctx context.Context, q db.Querier, email string, excludeUserID *int64) error {
	var ownerID int64
	err := q.QueryRow(ctx, sqlEmailOwner, email).Scan(&ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return storageErr("check email unique", err)
	}
	if excludeUserID != nil && ownerID == *excludeUserID {
		return nil
	}
	return fmt.Errorf("%w: %s", models.ErrDuplicateEmail, email)
}

// storageErr wraps an unexpected store error in models.ErrStorage while
// preserving the mapped driver error for inspection.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorage, op, err)
}
