// Package repo contains all database access logic for the dispatch core.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, and lets
// Transactor hand the same repos a live transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// beginner is a db that can open a transaction. On a pgx.Tx, Begin opens a
// savepoint, so Transactor also works inside a test transaction.
type beginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// TxRepos are the repositories bound to one open transaction.
type TxRepos struct {
	Trips       TripRepo
	Assignments AssignmentRepo
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	// WithinTx calls fn with repos bound to a new transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(TxRepos) error) error
}

type pgTransactor struct {
	db beginner
}

// NewTransactor constructs a Transactor over db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx.
func NewTransactor(db beginner) Transactor {
	return &pgTransactor{db: db}
}

// WithinTx implements Transactor using pgx.BeginFunc.
func (t *pgTransactor) WithinTx(ctx context.Context, fn func(TxRepos) error) error {
	return pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		return fn(TxRepos{
			Trips:       NewTripRepo(tx),
			Assignments: NewAssignmentRepo(tx),
		})
	})
}
