package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lume/internal/domain/model"
	"lume/internal/infra/db/dbtest"
	repo "lume/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartStore interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	Update(ctx context.Context, sessionID string, fn func(c *model.Cart) error) error
	Consume(ctx context.Context, sessionID string, fn func(lines []model.CartLine) error) error
}

func stores(t *testing.T) map[string]cartStore {
	t.Helper()
	redisStore, _ := newRedisStore(t, time.Hour)
	return map[string]cartStore{
		"gorm":  NewGormStore(dbtest.Open(t), time.Hour),
		"redis": redisStore,
	}
}

func seedCart(t *testing.T, s cartStore, sid string, lines ...model.CartLine) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, s.Update(context.Background(), sid, appendLine(l)))
	}
}

func TestConsume_LineAddedDuringCheckoutStays(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCart(t, s, "sid-1", line("Anel", 1, "4499.00"), line("Colar", 1, "899.00"))

			var got []model.CartLine
			err := s.Consume(ctx, "sid-1", func(lines []model.CartLine) error {
				got = lines
				return s.Update(ctx, "sid-1", appendLine(line("Brinco", 2, "350.00")))
			})
			require.NoError(t, err)
			require.Len(t, got, 2)

			cart, err := s.Load(ctx, "sid-1")
			require.NoError(t, err)
			require.Len(t, cart.Lines, 1)
			assert.Equal(t, "Brinco", cart.Lines[0].ProductName)
		})
	}
}

func TestConsume_SecondCheckoutWhileHeldIsRejected(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCart(t, s, "sid-1", line("Anel", 1, "4499.00"))

			var nested error
			nestedRan := false
			err := s.Consume(ctx, "sid-1", func([]model.CartLine) error {
				nested = s.Consume(ctx, "sid-1", func([]model.CartLine) error {
					nestedRan = true
					return nil
				})
				return nil
			})
			require.NoError(t, err)
			assert.ErrorIs(t, nested, repo.ErrCheckoutInProgress)
			assert.False(t, nestedRan)

			// the lease is gone and the consumed line with it
			var after []model.CartLine
			require.NoError(t, s.Consume(ctx, "sid-1", func(lines []model.CartLine) error {
				after = lines
				return nil
			}))
			assert.Empty(t, after)
		})
	}
}

func TestConsume_FailureKeepsCartAndReleases(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCart(t, s, "sid-1", line("Anel", 1, "4499.00"), line("Colar", 1, "899.00"))

			boom := errors.New("boom")
			err := s.Consume(ctx, "sid-1", func([]model.CartLine) error { return boom })
			require.ErrorIs(t, err, boom)

			var again []model.CartLine
			require.NoError(t, s.Consume(ctx, "sid-1", func(lines []model.CartLine) error {
				again = lines
				return nil
			}))
			assert.Len(t, again, 2)
		})
	}
}

func TestConsume_ConcurrentCheckoutsTakeLinesOnce(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCart(t, s, "sid-1", line("Anel", 1, "4499.00"), line("Colar", 1, "899.00"))

			const n = 6
			var (
				mu    sync.Mutex
				taken int
				wg    sync.WaitGroup
				start = make(chan struct{})
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					err := s.Consume(ctx, "sid-1", func(lines []model.CartLine) error {
						mu.Lock()
						taken += len(lines)
						mu.Unlock()
						time.Sleep(5 * time.Millisecond)
						return nil
					})
					if err != nil {
						assert.ErrorIs(t, err, repo.ErrCheckoutInProgress)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, 2, taken)
			cart, err := s.Load(ctx, "sid-1")
			require.NoError(t, err)
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestGormStore_StaleLeaseExpires(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	store := NewGormStore(gdb, time.Hour)
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return t0 }
	seedCart(t, store, "sid-1", line("Anel", 1, "4499.00"))

	// a checkout that died without settling
	until := t0.Add(checkoutLease)
	require.NoError(t, gdb.Model(&model.Session{}).Where("id = ?", "sid-1").Update("checkout_until", &until).Error)

	err := store.Consume(ctx, "sid-1", func([]model.CartLine) error { return nil })
	require.ErrorIs(t, err, repo.ErrCheckoutInProgress)

	// plain cart writes are not blocked by the lease
	require.NoError(t, store.Update(ctx, "sid-1", appendLine(line("Brinco", 1, "350.00"))))

	store.now = func() time.Time { return t0.Add(checkoutLease + time.Second) }
	var got []model.CartLine
	require.NoError(t, store.Consume(ctx, "sid-1", func(lines []model.CartLine) error {
		got = lines
		return nil
	}))
	assert.Len(t, got, 2)

	var row model.Session
	require.NoError(t, gdb.Where("id = ?", "sid-1").Take(&row).Error)
	assert.Nil(t, row.CheckoutUntil)
}

func TestRedisStore_LeaseKey(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)
	seedCart(t, store, "sid-1", line("Anel", 1, "4499.00"))
	lease := "lume:cart:sid-1:checkout"

	require.NoError(t, store.Consume(ctx, "sid-1", func([]model.CartLine) error {
		assert.True(t, mr.Exists(lease))
		assert.Equal(t, checkoutLease, mr.TTL(lease))
		return nil
	}))
	assert.False(t, mr.Exists(lease))

	// a lease left by a dead checkout blocks until its TTL runs out
	require.NoError(t, mr.Set(lease, "someone-else"))
	mr.SetTTL(lease, checkoutLease)
	err := store.Consume(ctx, "sid-1", func([]model.CartLine) error { return nil })
	require.ErrorIs(t, err, repo.ErrCheckoutInProgress)
	mr.FastForward(checkoutLease + time.Second)
	require.NoError(t, store.Consume(ctx, "sid-1", func([]model.CartLine) error { return nil }))

	// a lease that expired mid-checkout and was taken over is not released by
	// the original holder
	require.NoError(t, store.Consume(ctx, "sid-1", func([]model.CartLine) error {
		mr.Del(lease)
		return mr.Set(lease, "someone-else")
	}))
	got, err := mr.Get(lease)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
