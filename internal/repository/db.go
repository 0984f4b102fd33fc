package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx satisfied by both a pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// New returns a Queries bound to the given connection source.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries implements Querier against a DBTX.
type Queries struct {
	db DBTX
}

// WithTx returns a Queries bound to an open transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Store is the full repository surface services depend on: every query plus
// the ability to open a transaction.
type Store interface {
	Querier
	BeginTx(ctx context.Context) (TxQuerier, error)
}

// TxQuerier is a Querier scoped to one open transaction.
type TxQuerier interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PgxStore implements Store on a pgx connection pool.
type PgxStore struct {
	pool *pgxpool.Pool
	*Queries
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool, Queries: New(pool)}
}

// BeginTx opens a transaction. Callers must Commit or Rollback.
func (s *PgxStore) BeginTx(ctx context.Context) (TxQuerier, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx, Queries: New(tx)}, nil
}

type pgxTx struct {
	tx pgx.Tx
	*Queries
}

func (t *pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
