// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs every statement against one DBTX, either the pool or a
// transaction. Inside WithTx all reads and writes must go through the
// transaction's Queries, never the Store.
type Queries struct {
	q       DBTX
	dialect db.Dialect
}

// Store is the database handle used by the services.
type Store struct {
	*Queries
	conn *sql.DB
}

func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{
		Queries: &Queries{q: conn, dialect: dialect},
		conn:    conn,
	}
}

func (s *Store) Dialect() db.Dialect {
	return s.dialect
}

// WithTx runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Queries) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fail("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fail("commit transaction", err)
	}
	return nil
}

// fail wraps a driver error so callers can tell storage failures apart
// from domain errors. Domain errors pass through untouched.
func fail(op string, err error) error {
	var pe *models.PersistenceError
	var nf *models.NotFoundError
	if errors.As(err, &pe) || errors.As(err, &nf) {
		return err
	}
	return &models.PersistenceError{Op: op, Err: err}
}

func notFound(entity, id string) error {
	return &models.NotFoundError{Entity: entity, ID: id}
}

type scanner interface {
	Scan(dest ...any) error
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return int64(*i)
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

// placeholders returns "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	b := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, fmt.Sprintf("$%d", start+i)...)
	}
	return string(b)
}
