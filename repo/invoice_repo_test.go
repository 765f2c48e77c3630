package repo_test

import (
	"context"
	"errors"
	"testing"

	"invoicedb/db"
	"invoicedb/models"
	"invoicedb/repo"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

func newInvoiceFixture(t *testing.T) (repo.InvoiceRepository, repo.UserRepository, *db.DB) {
	t.Helper()
	d := newTestDB(t)
	return repo.NewInvoiceRepo(d), repo.NewUserRepo(d), d
}

func mustCreateInvoice(t *testing.T, r repo.InvoiceRepository, userID int64, issued, total string) int64 {
	t.Helper()
	id, err := r.Insert(context.Background(), models.CreateInvoiceParams{
		UserID:     userID,
		DateIssued: issued,
		Total:      total,
	})
	if err != nil {
		t.Fatalf("insert invoice for user %d: %v", userID, err)
	}
	return id
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert
// ─────────────────────────────────────────────────────────────────────────────

func TestInvoiceRepo_Insert_Normalizes(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")

	id, err := invoices.Insert(ctx, models.CreateInvoiceParams{
		UserID:     uid,
		DateIssued: "01-20-2025",
		DateDue:    strptr("02/20/2025"),
		Total:      "300.25",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv == nil {
		t.Fatal("expected invoice")
	}
	if inv.DateIssued != "2025-01-20" {
		t.Errorf("date_issued = %q, want 2025-01-20", inv.DateIssued)
	}
	if inv.DateDue == nil || *inv.DateDue != "2025-02-20" {
		t.Errorf("due_date = %v, want 2025-02-20", inv.DateDue)
	}
	if inv.TotalCents != 30025 {
		t.Errorf("total = %d cents, want 30025", inv.TotalCents)
	}
	if inv.CreatedAt == "" || inv.UpdatedAt == "" {
		t.Error("expected timestamps to be populated by the schema defaults")
	}
}

func TestInvoiceRepo_Insert_BlankDueDateStoresNull(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")

	id, err := invoices.Insert(ctx, models.CreateInvoiceParams{
		UserID:     uid,
		DateIssued: "2025-01-20",
		DateDue:    strptr("   "),
		Total:      "10",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv.DateDue != nil {
		t.Errorf("due_date = %q, want NULL", *inv.DateDue)
	}
}

func TestInvoiceRepo_Insert_MissingUser(t *testing.T) {
	invoices, _, _ := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := invoices.Insert(ctx, models.CreateInvoiceParams{
		UserID:     4242,
		DateIssued: "2025-01-20",
		Total:      "10",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Nothing may have been written.
	n, err := invoices.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestInvoiceRepo_Insert_InvalidInput(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")

	tests := []struct {
		name    string
		params  models.CreateInvoiceParams
		wantErr error
	}{
		{
			"negative total",
			models.CreateInvoiceParams{UserID: uid, DateIssued: "2025-01-20", Total: "-5"},
			models.ErrNegativeAmount,
		},
		{
			"garbage total",
			models.CreateInvoiceParams{UserID: uid, DateIssued: "2025-01-20", Total: "lots"},
			models.ErrInvalidAmount,
		},
		{
			"garbage date",
			models.CreateInvoiceParams{UserID: uid, DateIssued: "someday", Total: "10"},
			models.ErrInvalidFormat,
		},
		{
			"blank issue date",
			models.CreateInvoiceParams{UserID: uid, DateIssued: "", Total: "10"},
			models.ErrInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := invoices.Insert(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing and ordering
// ─────────────────────────────────────────────────────────────────────────────

func TestInvoiceRepo_ListByUser_Ordering(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")

	early := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")
	firstMarch := mustCreateInvoice(t, invoices, uid, "2025-03-17", "20")
	secondMarch := mustCreateInvoice(t, invoices, uid, "2025-03-17", "30")

	list, err := invoices.ListByUser(ctx, uid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	// Newest issue date first; within the same date, higher id first.
	want := []int64{secondMarch, firstMarch, early}
	for i, inv := range list {
		if inv.ID != want[i] {
			t.Errorf("list[%d].ID = %d, want %d", i, inv.ID, want[i])
		}
	}
}

func TestInvoiceRepo_ListByRange_Inclusive(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")

	mustCreateInvoice(t, invoices, uid, "2025-01-19", "10")
	onStart := mustCreateInvoice(t, invoices, uid, "2025-01-20", "20")
	inside := mustCreateInvoice(t, invoices, uid, "2025-02-10", "30")
	onEnd := mustCreateInvoice(t, invoices, uid, "2025-03-17", "40")
	mustCreateInvoice(t, invoices, uid, "2025-03-18", "50")

	list, err := invoices.ListByRange(ctx, uid, "01/20/2025", "03-17-2025")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	got := make(map[int64]bool, len(list))
	for _, inv := range list {
		got[inv.ID] = true
	}
	if len(list) != 3 || !got[onStart] || !got[inside] || !got[onEnd] {
		t.Errorf("range returned %d invoices, want the three on or between the bounds", len(list))
	}
}

func TestInvoiceRepo_ListByRange_InvalidBounds(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")

	_, err := invoices.ListByRange(context.Background(), uid, "", "2025-03-17")
	if !errors.Is(err, models.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestInvoiceRepo_ListByEmail(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")

	list, err := invoices.ListByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}

	// Unknown email is an empty result, not an error.
	list, err = invoices.ListByEmail(ctx, "ghost@example.com")
	if err != nil {
		t.Fatalf("list by unknown email: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("got %v, want empty non-nil slice", list)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Count / Sum
// ─────────────────────────────────────────────────────────────────────────────

func TestInvoiceRepo_CountAndSum(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	alice := mustCreateUser(t, users, "Alice", "alice@example.com")
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	mustCreateInvoice(t, invoices, alice, "2025-01-20", "200.10")
	mustCreateInvoice(t, invoices, alice, "2025-03-17", "350.20")
	mustCreateInvoice(t, invoices, bob, "2025-02-01", "5")

	total, err := invoices.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if total != 3 {
		t.Errorf("count = %d, want 3", total)
	}

	scoped, err := invoices.Count(ctx, &alice)
	if err != nil {
		t.Fatalf("count scoped: %v", err)
	}
	if scoped != 2 {
		t.Errorf("scoped count = %d, want 2", scoped)
	}

	sum, err := invoices.SumByUser(ctx, alice)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 55030 {
		t.Errorf("sum = %d cents, want 55030", sum)
	}

	// A user with no invoices sums to zero.
	empty := mustCreateUser(t, users, "Carol", "carol@example.com")
	sum, err = invoices.SumByUser(ctx, empty)
	if err != nil {
		t.Fatalf("sum empty: %v", err)
	}
	if sum != 0 {
		t.Errorf("sum = %d, want 0", sum)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func TestInvoiceRepo_Update_NoFields(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	id := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")

	updated, err := invoices.Update(context.Background(), models.UpdateInvoiceParams{ID: id})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated {
		t.Error("expected updated=false when no fields supplied")
	}
}

func TestInvoiceRepo_Update_NoChange(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	id := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")

	// Different spelling, same normalized values.
	_, err := invoices.Update(context.Background(), models.UpdateInvoiceParams{
		ID:         id,
		DateIssued: strptr("01/20/2025"),
		Total:      strptr("10.00"),
	})
	if !errors.Is(err, models.ErrNoChange) {
		t.Fatalf("err = %v, want ErrNoChange", err)
	}
}

func TestInvoiceRepo_Update_Partial(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	id := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")

	updated, err := invoices.Update(ctx, models.UpdateInvoiceParams{ID: id, Total: strptr("99.99")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated {
		t.Fatal("expected updated=true")
	}

	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv.TotalCents != 9999 {
		t.Errorf("total = %d cents, want 9999", inv.TotalCents)
	}
	if inv.DateIssued != "2025-01-20" {
		t.Errorf("date_issued = %q, want unchanged", inv.DateIssued)
	}
}

func TestInvoiceRepo_Update_MoveToUser(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	alice := mustCreateUser(t, users, "Alice", "alice@example.com")
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")
	id := mustCreateInvoice(t, invoices, alice, "2025-01-20", "10")

	updated, err := invoices.Update(ctx, models.UpdateInvoiceParams{ID: id, UserID: &bob})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated {
		t.Fatal("expected updated=true")
	}
	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv.UserID != bob {
		t.Errorf("user_id = %d, want %d", inv.UserID, bob)
	}
}

func TestInvoiceRepo_Update_MoveToMissingUser(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	id := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")

	ghost := int64(4242)
	_, err := invoices.Update(context.Background(), models.UpdateInvoiceParams{ID: id, UserID: &ghost})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// A foreign-key failure on an update that never touched user_id must surface
// as a storage error, not as a missing-user ErrNotFound.
func TestInvoiceRepo_Update_ForeignKeyErrorWithoutUserParam(t *testing.T) {
	invoices, users, d := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	id := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10.00")

	_, err := d.Exec(ctx, `CREATE TRIGGER trigger_block_total_update
BEFORE UPDATE OF total ON invoices
BEGIN
    SELECT RAISE(ABORT, 'FOREIGN KEY constraint failed');
END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	_, err = invoices.Update(ctx, models.UpdateInvoiceParams{ID: id, Total: strptr("20.00")})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want plain storage error", err)
	}
	if !errors.Is(err, models.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
}

func TestInvoiceRepo_Update_Missing(t *testing.T) {
	invoices, _, _ := newInvoiceFixture(t)

	_, err := invoices.Update(context.Background(), models.UpdateInvoiceParams{
		ID:    404,
		Total: strptr("10"),
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete / cascade
// ─────────────────────────────────────────────────────────────────────────────

func TestInvoiceRepo_Delete(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	id := mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")

	deleted, err := invoices.Delete(ctx, id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
	deleted, err = invoices.Delete(ctx, id)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for an absent row")
	}
}

func TestInvoiceRepo_DeleteUser_Cascades(t *testing.T) {
	invoices, users, _ := newInvoiceFixture(t)
	ctx := context.Background()
	uid := mustCreateUser(t, users, "Alice", "alice@example.com")
	mustCreateInvoice(t, invoices, uid, "2025-01-20", "10")
	mustCreateInvoice(t, invoices, uid, "2025-02-20", "20")

	if _, err := users.Delete(ctx, uid); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	n, err := invoices.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count after cascade = %d, want 0", n)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Summary view
// ─────────────────────────────────────────────────────────────────────────────

func TestUserInvoiceSummaries(t *testing.T) {
	invoices, users, d := newInvoiceFixture(t)
	ctx := context.Background()
	alice := mustCreateUser(t, users, "Alice", "alice@example.com")
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	mustCreateInvoice(t, invoices, alice, "2025-01-20", "200.10")
	mustCreateInvoice(t, invoices, alice, "2025-03-17", "350.20")

	summaries, err := repo.UserInvoiceSummaries(ctx, d)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
	// Ordered by user id; users without invoices appear with zeros.
	if summaries[0].UserID != alice || summaries[0].InvoiceCount != 2 || summaries[0].TotalCents != 55030 {
		t.Errorf("alice summary = %+v", summaries[0])
	}
	if summaries[1].UserID != bob || summaries[1].InvoiceCount != 0 || summaries[1].TotalCents != 0 {
		t.Errorf("bob summary = %+v", summaries[1])
	}
}
