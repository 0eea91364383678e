// Package transaction wraps a database connection lifecycle: its creation,
// preparation, commit/rollback and close.
package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrClosed reports use of a transaction after Close.
var ErrClosed = errors.New("transaction is closed")

// Transaction is the connection lifecycle capability consumed by the row
// binder. Every operation can fail with a data-access error.
type Transaction interface {
	// Connection returns the inner database transaction, beginning it on
	// first use.
	Connection() (*sql.Tx, error)
	// Commit commits the inner database transaction.
	Commit() error
	// Rollback rolls back the inner database transaction.
	Rollback() error
	// Close rolls back any open work and releases the transaction.
	Close() error
	// Timeout returns the configured timeout, if set.
	Timeout() (time.Duration, bool)
}

// Managed is a Transaction over a *sql.DB that begins lazily on first
// Connection call. It is not safe for concurrent use, matching database/sql
// transaction semantics.
type Managed struct {
	db         *sql.DB
	ctx        context.Context
	txOpts     *sql.TxOptions
	tx         *sql.Tx
	timeout    time.Duration
	hasTimeout bool
	closed     bool
}

// Option configures a Managed transaction.
type Option func(*Managed)

// WithIsolation sets the isolation level used when the transaction begins.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(m *Managed) {
		m.ensureTxOpts()
		m.txOpts.Isolation = level
	}
}

// WithReadOnly marks the transaction read-only.
func WithReadOnly() Option {
	return func(m *Managed) {
		m.ensureTxOpts()
		m.txOpts.ReadOnly = true
	}
}

// WithTimeout records a timeout for consumers to apply to statements.
func WithTimeout(d time.Duration) Option {
	return func(m *Managed) {
		m.timeout = d
		m.hasTimeout = true
	}
}

// NewManaged creates a lazily-begun transaction over db.
func NewManaged(ctx context.Context, db *sql.DB, opts ...Option) *Managed {
	m := &Managed{db: db, ctx: ctx}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Managed) ensureTxOpts() {
	if m.txOpts == nil {
		m.txOpts = &sql.TxOptions{}
	}
}

func (m *Managed) Connection() (*sql.Tx, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if m.tx != nil {
		return m.tx, nil
	}

	tx, err := m.db.BeginTx(m.ctx, m.txOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	m.tx = tx

	return tx, nil
}

func (m *Managed) Commit() error {
	if m.closed {
		return ErrClosed
	}
	if m.tx == nil {
		return nil
	}

	err := m.tx.Commit()
	m.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (m *Managed) Rollback() error {
	if m.closed {
		return ErrClosed
	}
	if m.tx == nil {
		return nil
	}

	err := m.tx.Rollback()
	m.tx = nil
	if err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}

	return nil
}

func (m *Managed) Close() error {
	if m.closed {
		return nil
	}

	err := m.Rollback()
	m.closed = true

	return err
}

func (m *Managed) Timeout() (time.Duration, bool) {
	return m.timeout, m.hasTimeout
}
