package repo

import (
	"context"
	"fmt"
	"strings"

	"invoicedb/db"
	"invoicedb/models"
	"invoicedb/normalize"
)

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository interface — for mocking in tests
// ─────────────────────────────────────────────────────────────────────────────

// UserRepository defines the contract for user persistence operations.
type UserRepository interface {
	Insert(ctx context.Context, params models.CreateUserParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, minTotalCents int64) ([]*models.User, error)
	Update(ctx context.Context, params models.UpdateUserParams) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// userRepo — concrete implementation
// ─────────────────────────────────────────────────────────────────────────────

// userRepo is the production implementation backed by a db.Querier.
type userRepo struct {
	q db.Querier
}

// NewUserRepo returns a UserRepository backed by q.
// q can be a *db.DB or *db.Tx — both satisfy db.Querier.
func NewUserRepo(q db.Querier) UserRepository {
	return &userRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants — all SQL is explicit, version-controlled, and reviewable
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlInsertUser = `
		INSERT INTO users (name, email)
		VALUES (?, ?)`

	sqlGetUserByID = `
		SELECT id, name, email, created_at, updated_at
		FROM   users
		WHERE  id = ?
		LIMIT  1`

	sqlGetUserByEmail = `
		SELECT id, name, email, created_at, updated_at
		FROM   users
		WHERE  lower(email) = lower(?)
		LIMIT  1`

	sqlListUsers = `
		SELECT u.id, u.name, u.email, u.created_at, u.updated_at
		FROM   users u
		LEFT JOIN invoices i ON i.user_id = u.id
		GROUP  BY u.id, u.name, u.email, u.created_at, u.updated_at
		HAVING COALESCE(SUM(i.total), 0) >= ?
		ORDER  BY u.id`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = ?`
)

// Insert normalizes both fields, asserts email uniqueness, inserts a new row,
// and returns the generated id. A uniqueness race at insert time is mapped to
// models.ErrDuplicateEmail the same way the pre-check is.
func (r *userRepo) Insert(ctx context.Context, params models.CreateUserParams) (int64, error) {
	name, err := normalize.Name(params.Name)
	if err != nil {
		return 0, err
	}
	email, err := normalize.Email(params.Email)
	if err != nil {
		return 0, err
	}
	if err := AssertEmailUnique(ctx, r.q, email, nil); err != nil {
		return 0, err
	}

	res, err := r.q.Exec(ctx, sqlInsertUser, name, email)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return 0, fmt.Errorf("%w: %s", models.ErrDuplicateEmail, email)
		}
		return 0, storageErr("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert user id", err)
	}
	return id, nil
}

// GetByID returns a single user by primary key, or nil when absent.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, sqlGetUserByID, id))
}

// GetByEmail looks the user up case-insensitively, or returns nil when absent.
// The raw input is matched as given; normalization is not required because
// the comparison lowercases both sides.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, sqlGetUserByEmail, strings.TrimSpace(email)))
}

// List returns all users whose summed invoice total (0 if none) is at least
// minTotalCents, ordered by id ascending.
func (r *userRepo) List(ctx context.Context, minTotalCents int64) ([]*models.User, error) {
	rows, err := r.q.Query(ctx, sqlListUsers, minTotalCents)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, storageErr("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

// Update applies a partial update: only non-nil params are touched. Supplied
// fields are normalized and email uniqueness is re-checked excluding this
// user. Returns false without error when no fields were supplied, and
// models.ErrNoChange when every supplied value equals the current one.
// updated_at is refreshed by the store-side trigger, not here.
func (r *userRepo) Update(ctx context.Context, params models.UpdateUserParams) (bool, error) {
	if params.Name == nil && params.Email == nil {
		return false, nil
	}

	current, err := r.GetByID(ctx, params.ID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, fmt.Errorf("%w: user id=%d", models.ErrNotFound, params.ID)
	}

	setClauses := make([]string, 0, 2)
	args := make([]any, 0, 3)
	changed := false

	if params.Name != nil {
		name, err := normalize.Name(*params.Name)
		if err != nil {
			return false, err
		}
		if name != current.Name {
			changed = true
		}
		setClauses = append(setClauses, "name = ?")
		args = append(args, name)
	}
	if params.Email != nil {
		email, err := normalize.Email(*params.Email)
		if err != nil {
			return false, err
		}
		if err := AssertEmailUnique(ctx, r.q, email, &params.ID); err != nil {
			return false, err
		}
		if email != current.Email {
			changed = true
		}
		setClauses = append(setClauses, "email = ?")
		args = append(args, email)
	}
	if !changed {
		return false, models.ErrNoChange
	}

	args = append(args, params.ID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(setClauses, ", "))

	res, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if db.IsDuplicateKey(err) && params.Email != nil {
			return false, fmt.Errorf("%w: %s", models.ErrDuplicateEmail, *params.Email)
		}
		return false, storageErr("update user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("update user", err)
	}
	return n > 0, nil
}

// Delete removes the user; dependent invoices go with it via the cascading
// foreign key. Returns whether a row existed to delete.
func (r *userRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.Exec(ctx, sqlDeleteUser, id)
	if err != nil {
		return false, storageErr("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete user", err)
	}
	return n > 0, nil
}

// scanUser scans a single user row. Centralising the scan call means that
// adding/removing columns only requires a change in one place. Absence is
// reported as (nil, nil), not an error.
func scanUser(row *db.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, storageErr("scan user", err)
	}
	return u, nil
}

// Compile-time interface assertion.
var _ UserRepository = (*userRepo)(nil)
