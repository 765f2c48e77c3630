package models

// UserInvoiceSummary is one row of the per-user reporting view: invoice count
// and summed total in minor units, recomputed from live data on every read.
type UserInvoiceSummary struct {
	UserID       int64
	Name         string
	Email        string
	InvoiceCount int64
	TotalCents   int64
}
