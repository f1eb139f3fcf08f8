package domain

import (
	"errors"
	"time"
)

var ErrStockExceeded = errors.New("product: quantity exceeds available stock")

// Product is shared by reference between the catalog and every cart lookup,
// so stock changes made through one pointer are seen by all holders.
type Product struct {
	ID          ID
	Name        string
	Description string
	Price       Amount
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(name string, stock int) *Product {
	now := time.Now()
	return &Product{
		Name:      name,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasStock reports whether quantity units can be taken. Non-positive
// quantities never can.
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && quantity <= p.Stock
}

// Deduct leaves the product untouched when HasStock would refuse quantity,
// so Stock never goes negative.
func (p *Product) Deduct(quantity int) error {
	if !p.HasStock(quantity) {
		return ErrStockExceeded
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// Restore undoes a Deduct that could not be persisted.
func (p *Product) Restore(quantity int, updatedAt time.Time) {
	p.Stock += quantity
	p.UpdatedAt = updatedAt
}
