package repositories

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrLockNotAvailable is returned when a FOR UPDATE NOWAIT lock cannot be
	// acquired because another transaction holds the row. Callers may retry
	// the whole operation.
	ErrLockNotAvailable = errors.New("row lock not available")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx.
// This allows repository methods to be used within transactions or with a
// direct DB connection.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// Tx is a transaction handle usable as an SQLExecutor. Satisfied by *sql.Tx.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// TxManager begins transactions. Services depend on this instead of a bare
// *sql.DB so transactional flows can be exercised without a database.
type TxManager interface {
	Begin() (Tx, error)
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager wraps a *sql.DB as a TxManager.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) Begin() (Tx, error) {
	return m.db.Begin()
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
// This allows for generic scanning helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}
