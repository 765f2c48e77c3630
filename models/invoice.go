package models

// Invoice represents a row in the "invoices" table.
// DateIssued and DateDue are canonical YYYY-MM-DD strings; DateDue is nil
// when the invoice has no due date. TotalCents is an integer count of minor
// currency units — never a float.
type Invoice struct {
	ID         int64
	UserID     int64
	DateIssued string
	DateDue    *string
	TotalCents int64
	CreatedAt  string
	UpdatedAt  string
}

// CreateInvoiceParams holds the raw fields for a new invoice. Total is the
// decimal amount as the user typed it (e.g. "12.34"); DateIssued and DateDue
// accept any of the supported input date shapes.
type CreateInvoiceParams struct {
	UserID     int64
	DateIssued string
	DateDue    *string
	Total      string
}

// UpdateInvoiceParams holds the invoice fields that can be updated.
// Nil pointers mean "leave unchanged".
type UpdateInvoiceParams struct {
	ID         int64
	DateIssued *string
	DateDue    *string
	Total      *string
	UserID     *int64
}
