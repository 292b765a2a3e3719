package usecase_test

import (
	"context"
	"sync"

	"lume/internal/domain/model"
	repo "lume/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// txManagerStub runs fn against fixed repos so the mocks see every call.
type txManagerStub struct {
	repos repo.TxRepos
	calls int
}

func (s *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.calls++
	return fn(s.repos)
}

type txReposStub struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	favorites  repo.FavoriteRepository
	ratings    repo.RatingRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposStub) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposStub) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposStub) Products() repo.ProductRepository     { return r.products }
func (r *txReposStub) Favorites() repo.FavoriteRepository   { return r.favorites }
func (r *txReposStub) Ratings() repo.RatingRepository       { return r.ratings }
func (r *txReposStub) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, items []model.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OptionRepoMock struct{ mock.Mock }

func (m *OptionRepoMock) ListMaterials(ctx context.Context) ([]model.Material, error) {
	args := m.Called(ctx)
	ms, _ := args.Get(0).([]model.Material)
	return ms, args.Error(1)
}

func (m *OptionRepoMock) FindMaterial(ctx context.Context, id int64) (model.Material, error) {
	args := m.Called(ctx, id)
	mat, _ := args.Get(0).(model.Material)
	return mat, args.Error(1)
}

func (m *OptionRepoMock) ListStones(ctx context.Context) ([]model.Stone, error) {
	args := m.Called(ctx)
	ss, _ := args.Get(0).([]model.Stone)
	return ss, args.Error(1)
}

func (m *OptionRepoMock) FindStone(ctx context.Context, id int64) (model.Stone, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Stone)
	return s, args.Error(1)
}

func (m *OptionRepoMock) ListSizes(ctx context.Context) ([]model.Size, error) {
	args := m.Called(ctx)
	ss, _ := args.Get(0).([]model.Size)
	return ss, args.Error(1)
}

func (m *OptionRepoMock) SizeExists(ctx context.Context, label string) (bool, error) {
	args := m.Called(ctx, label)
	return args.Bool(0), args.Error(1)
}

type RatingRepoMock struct{ mock.Mock }

func (m *RatingRepoMock) Create(ctx context.Context, r model.Rating) (model.Rating, error) {
	args := m.Called(ctx, r)
	out, _ := args.Get(0).(model.Rating)
	return out, args.Error(1)
}

func (m *RatingRepoMock) ListRecentByProduct(ctx context.Context, productID int64, limit int) ([]model.RatingWithAuthor, error) {
	args := m.Called(ctx, productID, limit)
	rs, _ := args.Get(0).([]model.RatingWithAuthor)
	return rs, args.Error(1)
}

type FavoriteRepoMock struct{ mock.Mock }

func (m *FavoriteRepoMock) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepoMock) Create(ctx context.Context, userID, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepoMock) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepoMock) ListProductsByUser(ctx context.Context, userID int64) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var (
	_ repo.OrderRepository     = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository = (*OrderItemRepoMock)(nil)
	_ repo.ProductRepository   = (*ProductRepoMock)(nil)
	_ repo.OptionRepository    = (*OptionRepoMock)(nil)
	_ repo.RatingRepository    = (*RatingRepoMock)(nil)
	_ repo.FavoriteRepository  = (*FavoriteRepoMock)(nil)
	_ repo.AuditLogRepository  = (*AuditRepoMock)(nil)
	_ repo.UserRepository      = (*UserRepoMock)(nil)
)

// =====================
// Cart store / events / metrics fakes
// =====================

// memCartStore copies carts in and out so callers never share slices
// with the stored value.
type memCartStore struct {
	mu        sync.Mutex
	carts     map[string]model.Cart
	leased    map[string]bool
	settleErr error
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]model.Cart{}, leased: map[string]bool{}}
}

func (s *memCartStore) Load(_ context.Context, sid string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.carts[sid]), nil
}

func (s *memCartStore) Update(_ context.Context, sid string, fn func(c *model.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := copyCart(s.carts[sid])
	if err := fn(&c); err != nil {
		return err
	}
	s.carts[sid] = c
	return nil
}

func (s *memCartStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sid)
	return nil
}

// Consume releases the mutex while fn runs, like the real stores do.
func (s *memCartStore) Consume(_ context.Context, sid string, fn func(lines []model.CartLine) error) error {
	s.mu.Lock()
	if s.leased[sid] {
		s.mu.Unlock()
		return repo.ErrCheckoutInProgress
	}
	s.leased[sid] = true
	lines := copyCart(s.carts[sid]).Lines
	s.mu.Unlock()

	err := fn(lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leased, sid)
	if err != nil {
		return err
	}
	if s.settleErr != nil {
		return s.settleErr
	}
	c := copyCart(s.carts[sid])
	c.Remove(lines)
	s.carts[sid] = c
	return nil
}

func (s *memCartStore) put(sid string, lines ...model.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c model.Cart
	for _, l := range lines {
		c.Append(l)
	}
	s.carts[sid] = c
}

func copyCart(c model.Cart) model.Cart {
	if len(c.Lines) == 0 {
		return model.Cart{}
	}
	return model.Cart{Lines: append([]model.CartLine(nil), c.Lines...)}
}

var _ repo.CartStore = (*memCartStore)(nil)

type publisherSpy struct {
	events []model.OrderEvent
	err    error
}

func (p *publisherSpy) PublishOrderEvent(_ context.Context, evt model.OrderEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

type metricsSpy struct {
	placed   int
	failures []string
	toggles  []bool
	ratings  int
}

func (m *metricsSpy) OrderPlaced()                 { m.placed++ }
func (m *metricsSpy) CheckoutFailed(reason string) { m.failures = append(m.failures, reason) }
func (m *metricsSpy) FavoriteToggled(fav bool)     { m.toggles = append(m.toggles, fav) }
func (m *metricsSpy) RatingCreated()               { m.ratings++ }
