package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewProduct(t *testing.T) {
	before := time.Now()
	p := NewProduct("widget", 10)
	after := time.Now()

	if p.Name != "widget" {
		t.Fatalf("expected name 'widget', got %q", p.Name)
	}
	if p.Stock != 10 {
		t.Fatalf("expected stock 10, got %d", p.Stock)
	}
	if p.ID != "" {
		t.Fatalf("expected empty ID, got %q", p.ID)
	}
	if p.CreatedAt.Before(before) || p.CreatedAt.After(after) {
		t.Fatalf("CreatedAt %v not in expected range [%v, %v]", p.CreatedAt, before, after)
	}
}

func TestProduct_HasStock(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		quantity int
		want     bool
	}{
		{"less than stock", 10, 7, true},
		{"exactly stock", 10, 10, true},
		{"more than stock", 5, 10, false},
		{"empty stock", 0, 1, false},
		{"zero quantity", 10, 0, false},
		{"negative quantity", 10, -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProduct("widget", tt.stock)
			if got := p.HasStock(tt.quantity); got != tt.want {
				t.Errorf("HasStock(%d) with stock %d = %v, want %v", tt.quantity, tt.stock, got, tt.want)
			}
		})
	}
}

func TestProduct_DeductAndRestore(t *testing.T) {
	p := NewProduct("widget", 10)
	original := p.UpdatedAt

	if err := p.Deduct(7); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Stock != 3 {
		t.Fatalf("expected stock 3 after deduct, got %d", p.Stock)
	}
	if p.UpdatedAt.Before(original) {
		t.Fatalf("expected UpdatedAt to move forward")
	}

	p.Restore(7, original)
	if p.Stock != 10 {
		t.Fatalf("expected stock 10 after restore, got %d", p.Stock)
	}
	if !p.UpdatedAt.Equal(original) {
		t.Fatalf("expected UpdatedAt %v after restore, got %v", original, p.UpdatedAt)
	}
}

func TestProduct_Deduct_NeverGoesNegative(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{"more than stock", 6},
		{"zero", 0},
		{"negative", -1},
		{"most negative int", math.MinInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProduct("widget", 5)
			updatedAt := p.UpdatedAt

			if err := p.Deduct(tt.quantity); !errors.Is(err, ErrStockExceeded) {
				t.Fatalf("expected ErrStockExceeded, got %v", err)
			}
			if p.Stock != 5 {
				t.Fatalf("expected stock 5, got %d", p.Stock)
			}
			if !p.UpdatedAt.Equal(updatedAt) {
				t.Fatalf("expected UpdatedAt unchanged")
			}
		})
	}
}
