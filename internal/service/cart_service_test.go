package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fmpberger88/potion-shop/internal/domain"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

func newTestCartService(carts *fakeCartRepo, products *fakeProductRepo, counts *fakeCountCache) *CartService {
	return NewCartService(CartDependencies{
		CartRepo:    carts,
		ProductRepo: products,
		CountCache:  counts,
	}, zap.NewNop())
}

func seedProduct(t *testing.T, products *fakeProductRepo, name string, price float64, stock int) string {
	t.Helper()
	p := &domain.Product{
		Name:     name,
		Category: domain.CategoryBouldering,
		Price:    price,
		Stock:    stock,
	}
	if err := products.Create(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p.ID
}

func TestAddItemCreatesCartAndMergesLines(t *testing.T) {
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	counts := newFakeCountCache()
	svc := newTestCartService(carts, products, counts)

	chalk := seedProduct(t, products, "Chalk Bag", 19.90, 10)
	rope := seedProduct(t, products, "Dynamic Rope 70m", 189.00, 5)

	cart, err := svc.AddItem(context.Background(), "user-1", chalk, 1)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if cart.LineCount() != 1 {
		t.Fatalf("expected 1 line, got %d", cart.LineCount())
	}

	if _, err := svc.AddItem(context.Background(), "user-1", rope, 1); err != nil {
		t.Fatalf("second add: %v", err)
	}
	cart, err = svc.AddItem(context.Background(), "user-1", chalk, 2)
	if err != nil {
		t.Fatalf("merge add: %v", err)
	}

	if cart.LineCount() != 2 {
		t.Fatalf("adding an existing product must merge, got %d lines", cart.LineCount())
	}
	for _, line := range cart.Lines {
		if line.ProductID == chalk && line.Quantity != 3 {
			t.Fatalf("expected merged quantity 3, got %d", line.Quantity)
		}
	}

	if count, ok := counts.cached("user-1"); !ok || count != 2 {
		t.Fatalf("cache should hold line count 2, got %d (cached=%v)", count, ok)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestCartService(newFakeCartRepo(), newFakeProductRepo(), newFakeCountCache())

	for _, quantity := range []int{0, -3} {
		_, err := svc.AddItem(context.Background(), "user-1", "product-1", quantity)
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
			t.Fatalf("quantity %d: expected VALIDATION_FAILED, got %v", quantity, err)
		}
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := newTestCartService(newFakeCartRepo(), newFakeProductRepo(), newFakeCountCache())

	_, err := svc.AddItem(context.Background(), "user-1", "missing", 1)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRemoveItemAbsentLineIsNoop(t *testing.T) {
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	counts := newFakeCountCache()
	svc := newTestCartService(carts, products, counts)

	chalk := seedProduct(t, products, "Chalk Bag", 19.90, 10)
	if _, err := svc.AddItem(context.Background(), "user-1", chalk, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.RemoveItem(context.Background(), "user-1", "never-added")
	if err != nil {
		t.Fatalf("removing an absent product must not fail: %v", err)
	}
	if cart.LineCount() != 1 {
		t.Fatalf("cart must be unchanged, got %d lines", cart.LineCount())
	}

	cart, err = svc.RemoveItem(context.Background(), "user-1", chalk)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cart.LineCount() != 0 {
		t.Fatalf("expected empty cart, got %d lines", cart.LineCount())
	}
	if count, ok := counts.cached("user-1"); !ok || count != 0 {
		t.Fatalf("cache should hold 0 after removal, got %d (cached=%v)", count, ok)
	}
}

func TestRemoveItemWithoutCart(t *testing.T) {
	svc := newTestCartService(newFakeCartRepo(), newFakeProductRepo(), newFakeCountCache())

	_, err := svc.RemoveItem(context.Background(), "user-1", "product-1")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestItemCountRecomputesOnMiss(t *testing.T) {
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	counts := newFakeCountCache()
	svc := newTestCartService(carts, products, counts)

	chalk := seedProduct(t, products, "Chalk Bag", 19.90, 10)
	rope := seedProduct(t, products, "Dynamic Rope 70m", 189.00, 5)
	if _, err := svc.AddItem(context.Background(), "user-1", chalk, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), "user-1", rope, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Expire the cached hint; the next read must fall back to the cart.
	if err := counts.Invalidate(context.Background(), "user-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	count, err := svc.ItemCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("item count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count is lines not quantities: expected 2, got %d", count)
	}
	if cached, ok := counts.cached("user-1"); !ok || cached != 2 {
		t.Fatalf("miss must re-prime the cache, got %d (cached=%v)", cached, ok)
	}
}

func TestItemCountWithoutCart(t *testing.T) {
	svc := newTestCartService(newFakeCartRepo(), newFakeProductRepo(), newFakeCountCache())

	count, err := svc.ItemCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("item count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for missing cart, got %d", count)
	}
}
