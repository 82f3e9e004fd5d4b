package mail

import (
	"strings"
	"testing"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

func TestRenderVerification(t *testing.T) {
	subject, body, err := RenderVerification("Anna", "http://localhost:5000", "tok-123")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject == "" {
		t.Fatal("subject must not be empty")
	}
	if !strings.Contains(body, "http://localhost:5000/auth/verify-email?token=tok-123") {
		t.Fatalf("body missing verification link: %s", body)
	}
}

func TestRenderPasswordReset(t *testing.T) {
	_, body, err := RenderPasswordReset("Anna", "http://localhost:5000", "tok-456")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, "http://localhost:5000/password/reset/tok-456") {
		t.Fatalf("body missing reset link: %s", body)
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	order := &domain.Order{
		ID:    "order-1",
		Total: 228.80,
		Items: []domain.OrderItem{
			{ProductName: "Chalk Bag", UnitPrice: 19.90, Quantity: 2},
			{ProductName: "Dynamic Rope 70m", UnitPrice: 189.00, Quantity: 1},
		},
	}

	_, body, err := RenderOrderConfirmation("Anna", order)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"order-1", "Chalk Bag", "Dynamic Rope 70m", "228.80"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
}
