package domain

import "time"

// Purchase is the receipt of a checkout. Bought is false when the cart was
// empty and nothing changed.
type Purchase struct {
	ID          string     `json:"id"`
	Customer    Customer   `json:"customer"`
	Lines       []CartLine `json:"lines"`
	Bought      bool       `json:"bought"`
	PurchasedAt time.Time  `json:"purchased_at"`
}

func NewPurchase(id string, cart *Cart, bought bool) *Purchase {
	return &Purchase{
		ID:          id,
		Customer:    cart.Owner,
		Lines:       cart.Lines(),
		Bought:      bought,
		PurchasedAt: time.Now(),
	}
}

// PurchaseCompletedEvent is published once a cart was bought. Total is the
// sum of unit price times quantity over every line.
type PurchaseCompletedEvent struct {
	CustomerID  int        `json:"customer_id"`
	Lines       []CartLine `json:"lines"`
	Total       Amount     `json:"total"`
	PurchasedAt time.Time  `json:"purchased_at"`
}

func (e *PurchaseCompletedEvent) GetName() string {
	return "purchase.completed"
}

func (e *PurchaseCompletedEvent) GetEntityName() string {
	return "purchase"
}

func NewPurchaseCompletedEvent(cart *Cart, purchasedAt time.Time) *PurchaseCompletedEvent {
	return &PurchaseCompletedEvent{
		CustomerID:  cart.Owner.ID,
		Lines:       cart.Lines(),
		PurchasedAt: purchasedAt,
	}
}
