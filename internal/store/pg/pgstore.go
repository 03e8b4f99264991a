// Package pg implements store.Store on PostgreSQL via the pgx stdlib
// driver.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"epicevents.org/internal/store"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store bundles the per-entity stores over one *sql.DB.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to Postgres. Pool sizing is modest: the CLI is a
// single-user synchronous process.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection (used by tests with sqlmock).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw connection for the migration manager.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Employees() store.EmployeeStore { return &employeeStore{db: s.db} }
func (s *Store) Clients() store.ClientStore     { return &clientStore{db: s.db} }
func (s *Store) Contracts() store.ContractStore { return &contractStore{db: s.db} }
func (s *Store) Events() store.EventStore       { return &eventStore{db: s.db} }
func (s *Store) Audit() store.AuditStore        { return &auditStore{db: s.db} }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func translateErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return store.ErrConflict
		case pgErrForeignKeyViolation:
			return store.ErrNotFound
		}
	}
	return err
}

// orderClause renders a validated ORDER BY from sort-column specifiers.
// allowed maps exposed column names to SQL expressions; specifiers
// naming unknown columns are rejected rather than interpolated.
func orderClause(fields []store.OrderField, allowed map[string]string, fallback string) (string, error) {
	if len(fields) == 0 {
		return "order by " + fallback, nil
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		expr, ok := allowed[f.Column()]
		if !ok {
			return "", fmt.Errorf("unknown sort column %q", f.Column())
		}
		dir := "asc"
		if f.Descending() {
			dir = "desc"
		}
		parts = append(parts, expr+" "+dir)
	}
	return "order by " + strings.Join(parts, ", "), nil
}

func countRows(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, `select count(*) from `+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
