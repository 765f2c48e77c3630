package repo

import (
	"context"

	"invoicedb/db"
	"invoicedb/models"
)

const sqlUserInvoiceSummaries = `
	SELECT user_id, name, email, invoice_count, total_cents
	FROM   user_invoice_summary
	ORDER  BY user_id`

// UserInvoiceSummaries reads the per-user rollup view: every user with their
// invoice count and summed total, users without invoices included at zero.
func UserInvoiceSummaries(ctx context.Context, q db.Querier) ([]*models.UserInvoiceSummary, error) {
	rows, err := q.Query(ctx, sqlUserInvoiceSummaries)
	if err != nil {
		return nil, storageErr("list summaries", err)
	}
	defer rows.Close()

	var summaries []*models.UserInvoiceSummary
	for rows.Next() {
		s := &models.UserInvoiceSummary{}
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.InvoiceCount, &s.TotalCents); err != nil {
			return nil, storageErr("scan summary", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list summaries", err)
	}
	return summaries, nil
}
