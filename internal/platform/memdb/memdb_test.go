package memdb

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	db *DB
	n  map[string]int
}

func (c *counter) incr(ctx context.Context, key string) error {
	return c.db.Do(ctx, func(ctx context.Context, tx *Tx) error {
		prev, had := c.n[key]
		c.n[key] = prev + 1
		tx.OnRollback(func() {
			if had {
				c.n[key] = prev
			} else {
				delete(c.n, key)
			}
		})
		return nil
	})
}

func TestRunInTxRollsBack(t *testing.T) {
	db := New()
	c := &counter{db: db, n: map[string]int{"a": 1}}

	boom := errors.New("boom")
	err := db.RunInTx(context.Background(), func(ctx context.Context) error {
		require.NoError(t, c.incr(ctx, "a"))
		require.NoError(t, c.incr(ctx, "a"))
		require.NoError(t, c.incr(ctx, "b"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, map[string]int{"a": 1}, c.n)
}

func TestRunInTxCommits(t *testing.T) {
	db := New()
	c := &counter{db: db, n: map[string]int{}}

	err := db.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := c.incr(ctx, "a"); err != nil {
			return err
		}
		// nested transaction joins the outer one instead of deadlocking
		return db.RunInTx(ctx, func(ctx context.Context) error { return c.incr(ctx, "a") })
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.n["a"])
}

func TestDoSerializes(t *testing.T) {
	db := New()
	c := &counter{db: db, n: map[string]int{}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.incr(context.Background(), "k")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.n["k"])
}
