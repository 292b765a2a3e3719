package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lume/internal/domain/model"
	"lume/internal/infra/db/dbtest"
	"lume/internal/infra/repository"
	"lume/internal/infra/session"
	repo "lume/internal/repository"
	"lume/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// hookedTx runs afterCommit once, right after the first successful
// transaction, which for PlaceOrder is the window between the order commit
// and the cart being settled.
type hookedTx struct {
	repo.TransactionManager
	afterCommit func()
}

func (h *hookedTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := h.TransactionManager.WithinTx(ctx, fn); err != nil {
		return err
	}
	if hook := h.afterCommit; hook != nil {
		h.afterCommit = nil
		hook()
	}
	return nil
}

func addToCart(t *testing.T, carts *session.GormStore, sid string, l model.CartLine) {
	t.Helper()
	require.NoError(t, carts.Update(context.Background(), sid, func(c *model.Cart) error {
		c.Append(l)
		return nil
	}))
}

type checkoutEnv struct {
	db    *gorm.DB
	user  model.User
	prod  model.Product
	carts *session.GormStore
	tx    *hookedTx
	uc    *usecase.OrderUsecase
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()
	db := dbtest.Open(t)
	env := &checkoutEnv{
		db:    db,
		user:  mustUser(t, db, "maria@example.com"),
		prod:  mustProduct(t, db, "Anel Solitário"),
		carts: session.NewGormStore(db, time.Hour),
		tx:    &hookedTx{TransactionManager: repository.NewTxManagerGorm(db)},
	}
	env.uc = usecase.NewOrderUsecase(env.tx, env.carts, nil, nil)
	return env
}

func (e *checkoutEnv) placeOrder() (usecase.OrderOutput, error) {
	return e.uc.PlaceOrder(context.Background(), e.user.ID, "sid-1", usecase.CheckoutInput{PaymentMethod: "pix"})
}

func TestPlaceOrder_LineAddedAfterCommitStaysInCart(t *testing.T) {
	env := newCheckoutEnv(t)
	addToCart(t, env.carts, "sid-1", cartLine(env.prod, 1))
	env.tx.afterCommit = func() {
		addToCart(t, env.carts, "sid-1", cartLine(env.prod, 2))
	}

	out, err := env.placeOrder()

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Items[0].Quantity)

	cart, err := env.carts.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)

	// the surviving line checks out on its own
	next, err := env.placeOrder()
	require.NoError(t, err)
	assert.Equal(t, "8998.00", next.Total)
	assert.Equal(t, int64(2), count(t, env.db, &model.Order{}))
}

func TestPlaceOrder_SecondCheckoutOfSameCartConflicts(t *testing.T) {
	env := newCheckoutEnv(t)
	addToCart(t, env.carts, "sid-1", cartLine(env.prod, 1))
	addToCart(t, env.carts, "sid-1", cartLine(env.prod, 2))

	var second error
	env.tx.afterCommit = func() {
		_, second = env.placeOrder()
	}

	out, err := env.placeOrder()

	require.NoError(t, err)
	assert.Equal(t, "13497.00", out.Total)
	assert.ErrorIs(t, second, usecase.ErrConflict)
	assert.Equal(t, int64(1), count(t, env.db, &model.Order{}))
	assert.Equal(t, int64(2), count(t, env.db, &model.OrderItem{}))

	_, err = env.placeOrder()
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
}

func TestPlaceOrder_ConcurrentCheckoutsPlaceOneOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	addToCart(t, env.carts, "sid-1", cartLine(env.prod, 1))

	const n = 5
	var (
		wg     sync.WaitGroup
		start  = make(chan struct{})
		errs   = make([]error, n)
		placed = make([]int64, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			out, err := env.placeOrder()
			errs[i], placed[i] = err, out.ID
		}(i)
	}
	close(start)
	wg.Wait()

	ok := 0
	for i, err := range errs {
		if err == nil {
			ok++
			assert.NotZero(t, placed[i])
			continue
		}
		assert.True(t, errors.Is(err, usecase.ErrConflict) || errors.Is(err, usecase.ErrEmptyCart), err)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int64(1), count(t, env.db, &model.Order{}))

	cart, err := env.carts.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
