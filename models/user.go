package models

// User represents a row in the "users" table.
// Name and Email hold the normalized canonical forms, never raw input.
// Timestamps are kept in the store's own textual representation.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt string
	UpdatedAt string
}

// CreateUserParams holds the raw fields required to create a new user.
// Normalization happens at the repository boundary, so callers may pass
// values exactly as the user typed them.
type CreateUserParams struct {
	Name  string
	Email string
}

// UpdateUserParams holds fields that can be updated. All fields are pointers
// so callers only set what needs changing; the repository builds the explicit
// SQL accordingly.
type UpdateUserParams struct {
	ID    int64
	Name  *string
	Email *string
}
