package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fmpberger88/potion-shop/internal/domain"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

func TestCatalogQueryNormalize(t *testing.T) {
	t.Run("valid filters", func(t *testing.T) {
		filter := CatalogQuery{
			Category:     "Bouldering",
			MinPrice:     "10",
			MaxPrice:     "99.5",
			Availability: "inStock",
		}.Normalize()

		if filter.Category == nil || *filter.Category != domain.CategoryBouldering {
			t.Fatalf("expected Bouldering filter, got %v", filter.Category)
		}
		if filter.MinPrice == nil || *filter.MinPrice != 10 {
			t.Fatalf("expected min price 10, got %v", filter.MinPrice)
		}
		if filter.MaxPrice == nil || *filter.MaxPrice != 99.5 {
			t.Fatalf("expected max price 99.5, got %v", filter.MaxPrice)
		}
		if filter.InStock == nil || !*filter.InStock {
			t.Fatalf("expected inStock=true, got %v", filter.InStock)
		}
	})

	t.Run("unknown category is dropped", func(t *testing.T) {
		filter := CatalogQuery{Category: "Skiing"}.Normalize()
		if filter.Category != nil {
			t.Fatalf("unknown category must be dropped, got %v", *filter.Category)
		}
	})

	t.Run("unparsable prices are dropped", func(t *testing.T) {
		filter := CatalogQuery{MinPrice: "cheap", MaxPrice: ""}.Normalize()
		if filter.MinPrice != nil || filter.MaxPrice != nil {
			t.Fatal("bad price values must be dropped")
		}
	})

	t.Run("outOfStock selects unavailable", func(t *testing.T) {
		filter := CatalogQuery{Availability: "outOfStock"}.Normalize()
		if filter.InStock == nil || *filter.InStock {
			t.Fatalf("expected inStock=false, got %v", filter.InStock)
		}
	})

	t.Run("unknown availability is dropped", func(t *testing.T) {
		filter := CatalogQuery{Availability: "backorder"}.Normalize()
		if filter.InStock != nil {
			t.Fatal("unknown availability must be dropped")
		}
	})
}

func TestCatalogCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo())

	_, err := svc.Create(context.Background(), ProductInput{
		Name:        "Ski Poles",
		Category:    "Skiing",
		Description: "not climbing gear",
		Price:       49.90,
		Stock:       3,
	})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if _, ok := domainErr.Details["category"]; !ok {
		t.Fatalf("expected category detail, got %v", domainErr.Details)
	}
}

func TestCatalogUpdateMissingProduct(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo())

	_, err := svc.Update(context.Background(), "missing", ProductInput{
		Name:        "Crash Pad",
		Category:    "Bouldering",
		Description: "thick foam",
		Price:       249.00,
		Stock:       4,
	})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo())

	created, err := svc.Create(context.Background(), ProductInput{
		Name:        "Crash Pad",
		Category:    "Bouldering",
		Description: "thick foam",
		Price:       249.00,
		Stock:       4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Crash Pad" || got.Category != domain.CategoryBouldering {
		t.Fatalf("unexpected product %+v", got)
	}
	if !got.InStock() {
		t.Fatal("product with stock 4 must be in stock")
	}
}
