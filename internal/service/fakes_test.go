package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/fmpberger88/potion-shop/internal/cache"
	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/events"
	"github.com/fmpberger88/potion-shop/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			copied := u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token {
			copied := u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.published {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]domain.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	product.ID = fmt.Sprintf("product-%d", r.seq)
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		copied := p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	seq   int
	carts map[string]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]domain.Cart)}
}

func (r *fakeCartRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		copied := c
		copied.Lines = append([]domain.CartLine(nil), c.Lines...)
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCartRepo) CreateForUser(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cart := domain.Cart{ID: fmt.Sprintf("cart-%d", r.seq), UserID: userID}
	r.carts[userID] = cart
	return &cart, nil
}

func (r *fakeCartRepo) ReplaceLines(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.carts[cart.UserID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Lines = append([]domain.CartLine(nil), cart.Lines...)
	r.carts[cart.UserID] = stored
	return nil
}

func (r *fakeCartRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

type fakeCountCache struct {
	mu          sync.Mutex
	counts      map[string]int
	sets        int
	invalidates int
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{counts: make(map[string]int)}
}

func (c *fakeCountCache) Get(_ context.Context, userID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if count, ok := c.counts[userID]; ok {
		return count, nil
	}
	return 0, cache.ErrMiss
}

func (c *fakeCountCache) Set(_ context.Context, userID string, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
	c.sets++
	return nil
}

func (c *fakeCountCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, userID)
	c.invalidates++
	return nil
}

func (c *fakeCountCache) cached(userID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[userID]
	return count, ok
}

type fakeCheckoutTx struct {
	cart       *domain.Cart
	cartErr    error
	decrements map[string]int
	order      *domain.Order
	deletedID  string
	committed  bool
	rolledBack bool
}

func (t *fakeCheckoutTx) CartForUpdate(context.Context, string) (*domain.Cart, error) {
	if t.cartErr != nil {
		return nil, t.cartErr
	}
	return t.cart, nil
}

func (t *fakeCheckoutTx) DecrementStock(_ context.Context, productID string, quantity int) error {
	if t.decrements == nil {
		t.decrements = make(map[string]int)
	}
	t.decrements[productID] += quantity
	return nil
}

func (t *fakeCheckoutTx) CreateOrder(_ context.Context, order *domain.Order) error {
	order.ID = "order-1"
	t.order = order
	return nil
}

func (t *fakeCheckoutTx) DeleteCart(_ context.Context, cartID string) error {
	t.deletedID = cartID
	return nil
}

func (t *fakeCheckoutTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeCheckoutTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeCheckoutStore struct {
	tx *fakeCheckoutTx
}

func (s *fakeCheckoutStore) Begin(context.Context) (repository.CheckoutTx, error) {
	return s.tx, nil
}

type fakeOrderRepo struct {
	orders []domain.Order
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}
