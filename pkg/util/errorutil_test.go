package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewBusinessRule("CART_EMPTY", "cart is empty", nil)

	mapped := ToDomainError(original)
	if mapped.Code != "CART_EMPTY" || mapped.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected mapping %+v", mapped)
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", mapped)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection refused")
	mapped := ToDomainError(cause)
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected INTERNAL_ERROR, got %+v", mapped)
	}
	if !errors.Is(mapped, cause) {
		t.Fatal("cause must stay reachable via errors.Is")
	}
}

func TestDomainErrorMessage(t *testing.T) {
	err := &DomainError{Message: "internal server error", Err: errors.New("boom")}
	if err.Error() != "internal server error: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
