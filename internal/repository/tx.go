package repository

import (
	"context"
	"database/sql"
)

// Tx is an open transaction. It satisfies Conn; nested WithTx calls join it.
type Tx struct {
	tx       *sql.Tx
	dialect  string
	onCommit []func()
}

func (t *Tx) Dialect() string { return t.dialect }

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

// WithTx runs fn inside the already open transaction.
func (t *Tx) WithTx(_ context.Context, fn func(tx *Tx) error) error {
	return fn(t)
}

// OnCommit registers fn to run after the outermost transaction commits. Hooks are dropped on rollback.
func (t *Tx) OnCommit(fn func()) {
	t.onCommit = append(t.onCommit, fn)
}
