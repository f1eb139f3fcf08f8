package domain

import (
	"testing"
	"time"
)

func TestNewPurchase(t *testing.T) {
	cart := NewCart(NewCustomer(1, "11-11-11"))
	_ = cart.Add("widget", 7)

	before := time.Now()
	purchase := NewPurchase("p-1", cart, true)
	after := time.Now()

	if purchase.ID != "p-1" {
		t.Fatalf("expected ID 'p-1', got %q", purchase.ID)
	}
	if purchase.Customer.ID != 1 {
		t.Fatalf("expected customer id 1, got %d", purchase.Customer.ID)
	}
	if !purchase.Bought {
		t.Fatal("expected Bought to be true")
	}
	if len(purchase.Lines) != 1 || purchase.Lines[0].Quantity != 7 {
		t.Fatalf("expected one line with quantity 7, got %+v", purchase.Lines)
	}
	if purchase.PurchasedAt.Before(before) || purchase.PurchasedAt.After(after) {
		t.Fatalf("PurchasedAt not in expected range")
	}
}

func TestPurchaseCompletedEvent(t *testing.T) {
	cart := NewCart(NewCustomer(3, "33-33-33"))
	_ = cart.Add("widget", 2)
	now := time.Now()

	event := NewPurchaseCompletedEvent(cart, now)

	if event.CustomerID != 3 {
		t.Fatalf("expected CustomerID 3, got %d", event.CustomerID)
	}
	if !event.PurchasedAt.Equal(now) {
		t.Fatalf("expected PurchasedAt %v, got %v", now, event.PurchasedAt)
	}
	if got := event.GetName(); got != "purchase.completed" {
		t.Fatalf("expected 'purchase.completed', got %q", got)
	}
	if got := event.GetEntityName(); got != "purchase" {
		t.Fatalf("expected 'purchase', got %q", got)
	}
}
