// Driver adapters: each supported database implements Driver, enabling
// OpenWithDriver() to stay driver-agnostic while preserving explicit DSN
// construction per database. SQLite is the primary store; the PostgreSQL and
// MySQL adapters remain available for deployments that outgrow a single file.
package db

import (
	"fmt"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Driver interface
// ─────────────────────────────────────────────────────────────────────────────

// Driver encapsulates database-specific behaviour:
//   - building a DSN from structured options
//   - providing a driver-specific ErrorMapper
//
// Implement Driver to add support for a new database without modifying the
// core package.
type Driver interface {
	// Name returns the name registered with database/sql, e.g. "sqlite3".
	Name() string

	// DSN converts structured options into a driver DSN string.
	DSN(opts DriverOptions) (string, error)

	// ErrorMapper returns a mapper tuned to this driver's error types.
	ErrorMapper() ErrorMapper
}

// DriverOptions carries the most common connection parameters in a structured,
// driver-agnostic form. DSN() converts them to the driver's native format.
// For SQLite, Database is the file path and Extra holds connection pragmas.
type DriverOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable", "require", "verify-full", etc.
	// Extra holds driver-specific key/value parameters.
	Extra map[string]string
}

// ─────────────────────────────────────────────────────────────────────────────
// Driver registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver adds a Driver to the global registry.
// Panics if a driver with the same name is already registered.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, ok := drivers[d.Name()]; ok {
		panic(fmt.Sprintf("invoicedb/db: driver %q already registered", d.Name()))
	}
	drivers[d.Name()] = d
}

// LookupDriver returns the registered Driver by name or an error.
func LookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("invoicedb/db: driver %q not registered", name)
	}
	return d, nil
}

// OpenWithDriver opens a DB using a registered Driver and structured options,
// removing the need for manual DSN construction. The corresponding
// database/sql driver package must be blank-imported by the caller.
//
//	database, err := db.OpenWithDriver("sqlite3", db.DriverOptions{
//	    Database: "invoices.db",
//	}, db.Config{MaxOpenConns: 1})
func OpenWithDriver(driverName string, driverOpts DriverOptions, cfg Config) (*DB, error) {
	drv, err := LookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	dsn, err := drv.DSN(driverOpts)
	if err != nil {
		return nil, fmt.Errorf("invoicedb/db: DSN construction failed: %w", err)
	}

	cfg.DriverName = drv.Name()
	cfg.DSN = dsn

	d, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	// Install the driver-specific error mapper.
	d.SetErrorMapper(ChainMapper(drv.ErrorMapper(), DefaultErrorMapper()))
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite driver adapter (mattn/go-sqlite3)
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDriver builds file DSNs for mattn/go-sqlite3.
// Import _ "github.com/mattn/go-sqlite3" alongside this to activate.
// Foreign key enforcement is on by default: the invoices table relies on
// cascading deletes, which SQLite ignores unless the pragma is set.
type SQLiteDriver struct{}

func (SQLiteDriver) Name() string { return "sqlite3" }

func (SQLiteDriver) DSN(o DriverOptions) (string, error) {
	if o.Database == "" {
		return "", fmt.Errorf("sqlite3 driver: Database (file path) is required")
	}
	params := map[string]string{
		"_foreign_keys":       "on",
		"_recursive_triggers": "off",
	}
	for k, v := range o.Extra {
		params[k] = v
	}
	dsn := o.Database
	sep := "?"
	for _, k := range []string{"_foreign_keys", "_recursive_triggers"} {
		dsn += sep + k + "=" + params[k]
		sep = "&"
		delete(params, k)
	}
	for k, v := range params {
		dsn += sep + k + "=" + v
		sep = "&"
	}
	return dsn, nil
}

func (SQLiteDriver) ErrorMapper() ErrorMapper {
	return ErrorMapperFunc(func(err error) error {
		if err == nil {
			return nil
		}
		if mapped := mapSQLiteError(err); mapped != nil {
			return mapped
		}
		return err
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL driver adapter (lib/pq)
// ─────────────────────────────────────────────────────────────────────────────

// PostgresDriver is the lib/pq adapter.
// Import _ "github.com/lib/pq" alongside this to activate.
type PostgresDriver struct{}

func (PostgresDriver) Name() string { return "postgres" }

func (PostgresDriver) DSN(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("postgres driver: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 5432
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		o.Host, port, o.User, o.Password, o.Database, sslMode,
	)
	for k, v := range o.Extra {
		dsn += fmt.Sprintf(" %s=%s", k, v)
	}
	return dsn, nil
}

func (PostgresDriver) ErrorMapper() ErrorMapper { return DefaultErrorMapper() }

// ─────────────────────────────────────────────────────────────────────────────
// MySQL driver adapter
// ─────────────────────────────────────────────────────────────────────────────

// MySQLDriver is the go-sql-driver/mysql adapter.
type MySQLDriver struct{}

func (MySQLDriver) Name() string { return "mysql" }

func (MySQLDriver) DSN(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("mysql driver: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		o.User, o.Password, o.Host, port, o.Database)
	for k, v := range o.Extra {
		dsn += fmt.Sprintf("&%s=%s", k, v)
	}
	return dsn, nil
}

func (MySQLDriver) ErrorMapper() ErrorMapper { return DefaultErrorMapper() }

func init() {
	RegisterDriver(SQLiteDriver{})
	RegisterDriver(PostgresDriver{})
	RegisterDriver(MySQLDriver{})
}
