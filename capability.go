package schemaup

import (
	"database/sql"
	"fmt"
)

// Capability is the narrow database surface the engine operates through.
// Every operation returns an explicit error; implementations must never
// swallow a driver failure. The engine never parses or inspects the SQL it
// is handed, so implementations are free to target any dialect as long as
// ListTables understands the dialect's catalog.
type Capability interface {
	// ListTables returns the names of all tables whose name matches the
	// given LIKE-style pattern.
	ListTables(pattern string) ([]string, error)

	// QueryScalar runs a query expected to produce at most one row with one
	// column and returns its value. The second return is false when the
	// query produced no rows at all, which is not an error.
	QueryScalar(query string) (string, bool, error)

	// Execute runs a single statement outside of any transaction.
	Execute(statement string) error

	// Begin opens a new transaction. The engine holds at most one
	// transaction open at a time.
	Begin() (Tx, error)
}

// Tx is a transaction opened through a Capability. It ends with exactly one
// call to either Commit or Rollback.
type Tx interface {
	Execute(statement string) error
	Commit() error
	Rollback() error
}

// Dialect selects the catalog query used by SQLCapability to list tables.
type Dialect int

// Dialects understood by SQLCapability. Each corresponds to a driver wired
// into cmd/schemaup: mattn/go-sqlite3, go-sql-driver/mysql and lib/pq.
const (
	SQLite Dialect = iota
	MySQL
	Postgres
)

// String returns the conventional driver name for the dialect.
func (dialect Dialect) String() string {
	switch dialect {
	case SQLite:
		return "sqlite3"
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	}
	return fmt.Sprintf("dialect(%d)", int(dialect))
}

// DialectByName returns the Dialect matching a driver name as passed to
// sql.Open. It returns an error for names it does not know.
func DialectByName(name string) (Dialect, error) {
	switch name {
	case "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres":
		return Postgres, nil
	}
	return 0, fmt.Errorf("DialectByName: unknown driver name '%s'", name)
}

// SQLCapability adapts a *sql.DB handle to the Capability interface. The
// handle is exclusively owned by the migration run for its duration; the
// adapter does no locking of its own.
type SQLCapability struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLCapability wraps a database handle. The dialect only affects how
// tables are listed; statement execution is passed through untouched.
func NewSQLCapability(db *sql.DB, dialect Dialect) (*SQLCapability, error) {
	if db == nil {
		return nil, fmt.Errorf("NewSQLCapability: got nil database handle")
	}
	return &SQLCapability{db: db, dialect: dialect}, nil
}

// ListTables returns the names of all tables matching pattern, using the
// catalog query appropriate for the configured dialect.
func (capability *SQLCapability) ListTables(pattern string) ([]string, error) {
	var rows *sql.Rows
	var err error

	switch capability.dialect {
	case SQLite:
		rows, err = capability.db.Query(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE ?", pattern)
	case MySQL:
		rows, err = capability.db.Query(
			"SELECT table_name FROM information_schema.tables "+
				"WHERE table_schema = DATABASE() AND table_name LIKE ?", pattern)
	case Postgres:
		rows, err = capability.db.Query(
			"SELECT tablename FROM pg_catalog.pg_tables "+
				"WHERE schemaname = current_schema() AND tablename LIKE $1", pattern)
	default:
		return nil, fmt.Errorf("SQLCapability.ListTables: unknown dialect '%d'", capability.dialect)
	}

	if err != nil {
		return nil, err
	}

	defer func() {
		_ = rows.Close()
	}()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// QueryScalar runs query and scans the first column of its first row.
func (capability *SQLCapability) QueryScalar(query string) (string, bool, error) {
	var value string
	if err := capability.db.QueryRow(query).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Execute runs a single statement outside of any transaction.
func (capability *SQLCapability) Execute(statement string) error {
	_, err := capability.db.Exec(statement)
	return err
}

// Begin opens a transaction on the underlying handle.
func (capability *SQLCapability) Begin() (Tx, error) {
	tx, err := capability.db.Begin()
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (tx *sqlTx) Execute(statement string) error {
	_, err := tx.tx.Exec(statement)
	return err
}

func (tx *sqlTx) Commit() error {
	return tx.tx.Commit()
}

func (tx *sqlTx) Rollback() error {
	return tx.tx.Rollback()
}
