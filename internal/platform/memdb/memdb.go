// Package memdb is the in-process storage backend. All memory stores share one
// DB; its single lock makes every transaction serializable, and an undo log
// restores store state when a transaction fails.
package memdb

import (
	"context"
	"sync"
)

type DB struct {
	mu sync.Mutex
}

func New() *DB { return &DB{} }

type txKey struct{}

type Tx struct {
	db   *DB
	undo []func()
}

// OnRollback registers fn to run, newest first, if the enclosing transaction fails.
func (t *Tx) OnRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *Tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (d *DB) current(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok && t.db == d {
		return t
	}
	return nil
}

// RunInTx runs fn holding the lock. Calls that already run inside a transaction
// of this DB join it.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.current(ctx) != nil {
		return fn(ctx)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	t := &Tx{db: d}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// Do is the store-level entry point: fn sees a ctx bound to the active
// transaction, or to a fresh single-operation one.
func (d *DB) Do(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	if t := d.current(ctx); t != nil {
		return fn(ctx, t)
	}
	return d.RunInTx(ctx, func(ctx context.Context) error {
		return fn(ctx, d.current(ctx))
	})
}
