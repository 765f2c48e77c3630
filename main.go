// Command invoicedb is the command line interface for the user and invoice
// database. Commands are grouped by topic:
//
//	invoicedb db       init | drop | delete
//	invoicedb users    create | get | list | update | delete
//	invoicedb invoices create | get | list | range | count | sum | update | delete
//	invoicedb report
//
// The store is a single SQLite file (default invoices.db, override with
// --db or INVOICEDB_PATH). Every mutating command runs inside one
// transaction: it either fully commits or leaves the database untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"invoicedb/db"
	"invoicedb/models"
	"invoicedb/normalize"
	"invoicedb/repo"
)

const appVersion = "0.4.1"

func main() {
	// Optional .env next to the binary; real env vars take precedence.
	_ = godotenv.Load()
	setupLogger()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "db":
		runDB(args[1:])
	case "users":
		runUsers(args[1:])
	case "invoices":
		runInvoices(args[1:])
	case "report":
		runReport(args[1:])
	case "version", "--version", "-v":
		fmt.Printf("invoicedb CLI version %s\n", appVersion)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(1)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Setup
// ─────────────────────────────────────────────────────────────────────────────

func setupLogger() {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("INVOICEDB_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With(slog.String("run_id", uuid.NewString())))
}

func defaultDBPath() string {
	if p := os.Getenv("INVOICEDB_PATH"); p != "" {
		return p
	}
	return "invoices.db"
}

func openDB(path string) *db.DB {
	d, err := db.OpenWithDriver("sqlite3", db.DriverOptions{
		Database: path,
	}, db.Config{
		MaxOpenConns:   1,
		DefaultTimeout: 5 * time.Second,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{SlowQueryThreshold: 200 * time.Millisecond}),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open database %s: %v\n", path, err)
		os.Exit(1)
	}
	return d
}

// exitErr prints a message for a command error and exits with code 1.
// Validation and lookup failures get their short message; anything else is
// reported as a database error.
func exitErr(err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		fmt.Println(trimSentinel(err))
	case errors.Is(err, models.ErrDuplicateEmail):
		fmt.Println("email already exists")
	case errors.Is(err, models.ErrNoChange):
		fmt.Println("No changes were applied")
	case errors.Is(err, models.ErrInvalidFormat),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrNegativeAmount):
		fmt.Println(trimSentinel(err))
	default:
		fmt.Fprintf(os.Stderr, "Database error: %v\n", err)
	}
	os.Exit(1)
}

// trimSentinel drops a leading storage prefix so users see the short message.
func trimSentinel(err error) string {
	return strings.TrimPrefix(err.Error(), models.ErrStorage.Error()+": ")
}

// ─────────────────────────────────────────────────────────────────────────────
// db commands
// ─────────────────────────────────────────────────────────────────────────────

func runDB(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: invoicedb db <init|drop|delete> [--db PATH]")
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]
	if sub != "init" && sub != "drop" && sub != "delete" {
		fmt.Fprintf(os.Stderr, "unknown db command %q\n", sub)
		os.Exit(1)
	}
	path := pathFlag("db "+sub, rest)

	// delete removes the file itself; no connection needed.
	if sub == "delete" {
		deleteDBFile(path)
		return
	}

	d := openDB(path)
	defer d.Close()
	ctx := context.Background()

	switch sub {
	case "init":
		err := d.ExecTx(ctx, func(tx *db.Tx) error {
			return repo.InitSchema(ctx, tx)
		})
		if err != nil {
			exitErr(err)
		}
		fmt.Println("Initialized database")
	case "drop":
		err := d.ExecTx(ctx, func(tx *db.Tx) error {
			return repo.DropSchema(ctx, tx)
		})
		if err != nil {
			exitErr(err)
		}
		fmt.Printf("Dropped all tables from %s\n", path)
	}
}

func deleteDBFile(path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("Database file not found: %s\n", path)
		os.Exit(1)
	}
	fmt.Printf("Delete database file %s? [y/N]: ", path)
	var answer string
	fmt.Scanln(&answer)
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		fmt.Println("Aborted")
		return
	}
	if err := os.Remove(path); err != nil {
		fmt.Fprintf(os.Stderr, "Could not delete %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Deleted database file: %s\n", path)
}

// ─────────────────────────────────────────────────────────────────────────────
// users commands
// ─────────────────────────────────────────────────────────────────────────────

func runUsers(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: invoicedb users <create|get|list|update|delete> [flags]")
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "create":
		usersCreate(rest)
	case "get":
		usersGet(rest)
	case "list":
		usersList(rest)
	case "update":
		usersUpdate(rest)
	case "delete":
		usersDelete(rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown users command %q\n", sub)
		os.Exit(1)
	}
}

func usersCreate(args []string) {
	fs := newFlagSet("users create")
	name := fs.String("name", "", "Name of the user")
	fs.StringVar(name, "n", "", "Name of the user (shorthand)")
	email := fs.String("email", "", "Email of the user")
	fs.StringVar(email, "e", "", "Email of the user (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *name == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "users create: --name and --email are required")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	var created *models.User
	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		users := repo.NewUserRepo(tx)
		id, err := users.Insert(ctx, models.CreateUserParams{Name: *name, Email: *email})
		if err != nil {
			return err
		}
		created, err = users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Created user %s <%s> (id=%d)\n", created.Name, created.Email, created.ID)
}

func usersGet(args []string) {
	fs := newFlagSet("users get")
	id := fs.Int64("id", 0, "ID of the user")
	fs.Int64Var(id, "i", 0, "ID of the user (shorthand)")
	email := fs.String("email", "", "Email of the user")
	fs.StringVar(email, "e", "", "Email of the user (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *id == 0 && *email == "" {
		fmt.Fprintln(os.Stderr, "Please provide either --id or --email")
		os.Exit(1)
	}
	if *id != 0 && *email != "" {
		fmt.Fprintln(os.Stderr, "Please provide only one of --id or --email (not both)")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()
	users := repo.NewUserRepo(d)

	var user *models.User
	var err error
	if *id != 0 {
		user, err = users.GetByID(ctx, *id)
	} else {
		user, err = users.GetByEmail(ctx, *email)
	}
	if err != nil {
		exitErr(err)
	}
	if user == nil {
		if *id != 0 {
			fmt.Printf("User not found (id=%d)\n", *id)
		} else {
			fmt.Println("User not found")
		}
		return
	}
	fmt.Printf("Found user: %s (%s)\n", user.Name, user.Email)
}

func usersList(args []string) {
	fs := newFlagSet("users list")
	minTotal := fs.String("min-total", "", "Only users whose invoices sum to at least this amount")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)

	var minCents int64
	if *minTotal != "" {
		var err error
		minCents, err = normalize.ToCents(*minTotal)
		if err != nil {
			exitErr(err)
		}
	}

	d := openDB(*path)
	defer d.Close()

	users, err := repo.NewUserRepo(d).List(context.Background(), minCents)
	if err != nil {
		exitErr(err)
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return
	}
	fmt.Printf("%-8s %-28s %s\n\n", "User_ID", "Name", "Email")
	for _, u := range users {
		fmt.Printf("%-8d %-28s %s\n", u.ID, u.Name, u.Email)
	}
}

func usersUpdate(args []string) {
	fs := newFlagSet("users update")
	id := fs.Int64("id", 0, "ID of the user to select")
	fs.Int64Var(id, "i", 0, "ID of the user to select (shorthand)")
	email := fs.String("email", "", "Email of the user to select")
	fs.StringVar(email, "e", "", "Email of the user to select (shorthand)")
	newName := fs.String("name", "", "Name to update the user with")
	newEmail := fs.String("new-email", "", "Email to update the user with")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *id == 0 && *email == "" {
		fmt.Fprintln(os.Stderr, "Please provide either --id or --email to select a user")
		os.Exit(1)
	}
	if *id != 0 && *email != "" {
		fmt.Fprintln(os.Stderr, "Please provide only one of --id or --email (not both)")
		os.Exit(1)
	}
	if *newName == "" && *newEmail == "" {
		fmt.Fprintln(os.Stderr, "Please provide --name and/or --new-email")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	var updated *models.User
	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		users := repo.NewUserRepo(tx)

		target := *id
		if target == 0 {
			u, err := users.GetByEmail(ctx, *email)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("%w: user email=%s", models.ErrNotFound, *email)
			}
			target = u.ID
		}

		params := models.UpdateUserParams{ID: target}
		if *newName != "" {
			params.Name = newName
		}
		if *newEmail != "" {
			params.Email = newEmail
		}
		if _, err := users.Update(ctx, params); err != nil {
			return err
		}
		var err error
		updated, err = users.GetByID(ctx, target)
		return err
	})
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Updated: %d  %s  %s\n", updated.ID, updated.Name, updated.Email)
}

func usersDelete(args []string) {
	fs := newFlagSet("users delete")
	id := fs.Int64("id", 0, "ID of the user")
	fs.Int64Var(id, "i", 0, "ID of the user (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "users delete: --id is required")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		deleted, err := repo.NewUserRepo(tx).Delete(ctx, *id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: user id=%d", models.ErrNotFound, *id)
		}
		return nil
	})
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Deleted user: %d\n", *id)
}

// ─────────────────────────────────────────────────────────────────────────────
// invoices commands
// ─────────────────────────────────────────────────────────────────────────────

func runInvoices(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: invoicedb invoices <create|get|list|range|count|sum|update|delete> [flags]")
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "create":
		invoicesCreate(rest)
	case "get":
		invoicesGet(rest)
	case "list":
		invoicesList(rest)
	case "range":
		invoicesRange(rest)
	case "count":
		invoicesCount(rest)
	case "sum":
		invoicesSum(rest)
	case "update":
		invoicesUpdate(rest)
	case "delete":
		invoicesDelete(rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown invoices command %q\n", sub)
		os.Exit(1)
	}
}

func invoicesCreate(args []string) {
	fs := newFlagSet("invoices create")
	userID := fs.Int64("id", 0, "The user to assign this invoice to")
	fs.Int64Var(userID, "i", 0, "The user to assign this invoice to (shorthand)")
	total := fs.String("total", "", "Invoice total amount, e.g. 300.25")
	fs.StringVar(total, "t", "", "Invoice total amount (shorthand)")
	dateIssued := fs.String("date-issued", "", "Date the invoice was issued (defaults to today)")
	dateDue := fs.String("date-due", "", "Date the invoice is due")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *userID == 0 || *total == "" {
		fmt.Fprintln(os.Stderr, "invoices create: --id and --total are required")
		os.Exit(1)
	}

	issued := *dateIssued
	if issued == "" {
		issued = time.Now().Format(normalize.ISODate)
	}
	params := models.CreateInvoiceParams{
		UserID:     *userID,
		DateIssued: issued,
		Total:      *total,
	}
	if *dateDue != "" {
		params.DateDue = dateDue
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	var created *models.Invoice
	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		invoices := repo.NewInvoiceRepo(tx)
		id, err := invoices.Insert(ctx, params)
		if err != nil {
			return err
		}
		created, err = invoices.GetByID(ctx, id)
		return err
	})
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Invoice %d created for user %d (total: %s)\n",
		created.ID, created.UserID, normalize.FormatCents(created.TotalCents))
}

func invoicesGet(args []string) {
	fs := newFlagSet("invoices get")
	id := fs.Int64("id", 0, "ID of the invoice")
	fs.Int64Var(id, "i", 0, "ID of the invoice (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "invoices get: --id is required")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()

	inv, err := repo.NewInvoiceRepo(d).GetByID(context.Background(), *id)
	if err != nil {
		exitErr(err)
	}
	if inv == nil {
		fmt.Printf("Invoice not found (id=%d)\n", *id)
		return
	}
	printInvoice(inv)
}

func invoicesList(args []string) {
	fs := newFlagSet("invoices list")
	userID := fs.Int64("user-id", 0, "Filter by user ID")
	fs.Int64Var(userID, "u", 0, "Filter by user ID (shorthand)")
	email := fs.String("email", "", "Filter by user email")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()
	users := repo.NewUserRepo(d)
	invoices := repo.NewInvoiceRepo(d)

	if *email != "" {
		list, err := invoices.ListByEmail(ctx, *email)
		if err != nil {
			exitErr(err)
		}
		if len(list) == 0 {
			fmt.Println("No invoices")
			return
		}
		for _, inv := range list {
			printInvoice(inv)
		}
		return
	}

	if *userID != 0 {
		user, err := users.GetByID(ctx, *userID)
		if err != nil {
			exitErr(err)
		}
		if user == nil {
			fmt.Printf("User not found (id=%d)\n", *userID)
			os.Exit(1)
		}
		list, err := invoices.ListByUser(ctx, *userID)
		if err != nil {
			exitErr(err)
		}
		printUserInvoices(user, list)
		return
	}

	all, err := users.List(ctx, 0)
	if err != nil {
		exitErr(err)
	}
	if len(all) == 0 {
		fmt.Println("No users found")
		return
	}
	for _, user := range all {
		list, err := invoices.ListByUser(ctx, user.ID)
		if err != nil {
			exitErr(err)
		}
		printUserInvoices(user, list)
	}
}

func invoicesRange(args []string) {
	fs := newFlagSet("invoices range")
	userID := fs.Int64("user-id", 0, "User whose invoices to list")
	fs.Int64Var(userID, "u", 0, "User whose invoices to list (shorthand)")
	start := fs.String("start", "", "Start of the issue date range (inclusive)")
	end := fs.String("end", "", "End of the issue date range (inclusive)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *userID == 0 || *start == "" || *end == "" {
		fmt.Fprintln(os.Stderr, "invoices range: --user-id, --start and --end are required")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()

	list, err := repo.NewInvoiceRepo(d).ListByRange(context.Background(), *userID, *start, *end)
	if err != nil {
		exitErr(err)
	}
	if len(list) == 0 {
		fmt.Println("No invoices")
		return
	}
	for _, inv := range list {
		printInvoice(inv)
	}
}

func invoicesCount(args []string) {
	fs := newFlagSet("invoices count")
	userID := fs.Int64("user-id", 0, "Filter by user ID")
	fs.Int64Var(userID, "u", 0, "Filter by user ID (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()
	invoices := repo.NewInvoiceRepo(d)

	if *userID != 0 {
		user, err := repo.NewUserRepo(d).GetByID(ctx, *userID)
		if err != nil {
			exitErr(err)
		}
		if user == nil {
			fmt.Printf("User not found (id=%d)\n", *userID)
			os.Exit(1)
		}
		count, err := invoices.Count(ctx, userID)
		if err != nil {
			exitErr(err)
		}
		fmt.Printf("User: %s\nTotal number of invoices: %d\n", user.Name, count)
		return
	}

	count, err := invoices.Count(ctx, nil)
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Total number of invoices: %d\n", count)
}

func invoicesSum(args []string) {
	fs := newFlagSet("invoices sum")
	userID := fs.Int64("user-id", 0, "User whose invoice totals to sum")
	fs.Int64Var(userID, "u", 0, "User whose invoice totals to sum (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "invoices sum: --user-id is required")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	user, err := repo.NewUserRepo(d).GetByID(ctx, *userID)
	if err != nil {
		exitErr(err)
	}
	if user == nil {
		fmt.Printf("User not found (id=%d)\n", *userID)
		os.Exit(1)
	}
	sum, err := repo.NewInvoiceRepo(d).SumByUser(ctx, *userID)
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("User: %s\nTotal invoiced: %s\n", user.Name, normalize.FormatCents(sum))
}

func invoicesUpdate(args []string) {
	fs := newFlagSet("invoices update")
	id := fs.Int64("id", 0, "Invoice id to select")
	fs.Int64Var(id, "i", 0, "Invoice id to select (shorthand)")
	dateIssued := fs.String("date-issued", "", "New issue date")
	dateDue := fs.String("date-due", "", "New due date")
	total := fs.String("total", "", "New total for the invoice")
	newUser := fs.Int64("user", 0, "User to move the invoice to")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "invoices update: --id is required")
		os.Exit(1)
	}
	if *dateIssued == "" && *dateDue == "" && *total == "" && *newUser == 0 {
		fmt.Fprintln(os.Stderr, "Please enter one value to update the invoice with (refer to --help)")
		os.Exit(1)
	}

	params := models.UpdateInvoiceParams{ID: *id}
	if *dateIssued != "" {
		params.DateIssued = dateIssued
	}
	if *dateDue != "" {
		params.DateDue = dateDue
	}
	if *total != "" {
		params.Total = total
	}
	if *newUser != 0 {
		params.UserID = newUser
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	var updated *models.Invoice
	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		invoices := repo.NewInvoiceRepo(tx)
		if _, err := invoices.Update(ctx, params); err != nil {
			return err
		}
		var err error
		updated, err = invoices.GetByID(ctx, *id)
		return err
	})
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Updated Invoice %d user_id=%d, total=%s, date_issued=%s, date_due=%s\n",
		updated.ID, updated.UserID, normalize.FormatCents(updated.TotalCents),
		updated.DateIssued, dueString(updated))
}

func invoicesDelete(args []string) {
	fs := newFlagSet("invoices delete")
	id := fs.Int64("id", 0, "ID of the invoice")
	fs.Int64Var(id, "i", 0, "ID of the invoice (shorthand)")
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "invoices delete: --id is required")
		os.Exit(1)
	}

	d := openDB(*path)
	defer d.Close()
	ctx := context.Background()

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		deleted, err := repo.NewInvoiceRepo(tx).Delete(ctx, *id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: invoice id=%d", models.ErrNotFound, *id)
		}
		return nil
	})
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("Deleted invoice %d\n", *id)
}

// ─────────────────────────────────────────────────────────────────────────────
// report command
// ─────────────────────────────────────────────────────────────────────────────

func runReport(args []string) {
	path := pathFlag("report", args)

	d := openDB(path)
	defer d.Close()

	summaries, err := repo.UserInvoiceSummaries(context.Background(), d)
	if err != nil {
		exitErr(err)
	}
	if len(summaries) == 0 {
		fmt.Println("No users found")
		return
	}
	fmt.Println(strings.Repeat("-", 20) + "User Invoice Summary" + strings.Repeat("-", 20))
	for _, s := range summaries {
		fmt.Printf("%-4d %-24s %-30s invoices: %-4d total: %s\n",
			s.UserID, s.Name, s.Email, s.InvoiceCount, normalize.FormatCents(s.TotalCents))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

// parseFlags wraps Parse; ExitOnError already terminates on bad input.
func parseFlags(fs *flag.FlagSet, args []string) {
	_ = fs.Parse(args)
}

// pathFlag parses commands whose only flag is the database path.
func pathFlag(name string, args []string) string {
	fs := newFlagSet(name)
	path := fs.String("db", defaultDBPath(), "Path to SQLite DB")
	parseFlags(fs, args)
	return *path
}

func printInvoice(inv *models.Invoice) {
	fmt.Printf("Invoice: %d | Total: %s | Issued: %s | Due: %s\n",
		inv.ID, normalize.FormatCents(inv.TotalCents), inv.DateIssued, dueString(inv))
}

func printUserInvoices(user *models.User, list []*models.Invoice) {
	fmt.Printf("\nUser %d: %s <%s>\n", user.ID, user.Name, user.Email)
	fmt.Println(strings.Repeat("-", 50))
	if len(list) == 0 {
		fmt.Println("No invoices")
		return
	}
	for _, inv := range list {
		printInvoice(inv)
	}
}

func dueString(inv *models.Invoice) string {
	if inv.DateDue == nil {
		return "none"
	}
	return *inv.DateDue
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: invoicedb <topic> <command> [flags]

Topics:
  db        init | drop | delete
  users     create | get | list | update | delete
  invoices  create | get | list | range | count | sum | update | delete
  report    Per-user invoice counts and totals

Common flags:
  --db PATH   Path to the SQLite file (default: invoices.db or INVOICEDB_PATH)

Run 'invoicedb <topic> <command> --help' for command flags.`)
}
