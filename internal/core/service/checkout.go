package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/logger"
	"github.com/rafaelleal24/shopping/internal/core/utils"
)

// CheckoutService turns a Buy into a receipt and makes it safe to retry
// with an idempotency key.
type CheckoutService struct {
	shopping    *ShoppingService
	idempotency *IdempotencyService[domain.Purchase]
}

func NewCheckoutService(shopping *ShoppingService, idempotency *IdempotencyService[domain.Purchase]) *CheckoutService {
	return &CheckoutService{shopping: shopping, idempotency: idempotency}
}

type checkoutPayload struct {
	Customer domain.Customer   `json:"customer"`
	Lines    []domain.CartLine `json:"lines"`
}

func (s *CheckoutService) process(ctx context.Context, cart *domain.Cart) (*domain.Purchase, error) {
	bought, err := s.shopping.Buy(ctx, cart)
	if err != nil {
		return nil, err
	}
	return domain.NewPurchase(uuid.NewString(), cart, bought), nil
}

func (s *CheckoutService) Checkout(ctx context.Context, idempotencyKey string, cart *domain.Cart) (*domain.Purchase, error) {
	if cart == nil {
		cart = &domain.Cart{}
	}
	if idempotencyKey == "" {
		return s.process(ctx, cart)
	}

	payloadHash := utils.HashJSON(checkoutPayload{Customer: cart.Owner, Lines: cart.Lines()})

	existing, err := s.idempotency.Claim(ctx, idempotencyKey, payloadHash)
	if err != nil {
		logger.Error(ctx, "idempotency: claim failed", err, map[string]any{
			"idempotency_key": idempotencyKey,
		})
		return nil, err
	}
	if existing != nil {
		logger.Info(ctx, "checkout replayed", map[string]any{
			"idempotency_key": idempotencyKey,
			"purchase_id":     existing.ID,
		})
		return existing, nil
	}

	purchase, err := s.process(ctx, cart)
	if err != nil {
		s.idempotency.Release(ctx, idempotencyKey)
		return nil, err
	}

	s.idempotency.Complete(ctx, idempotencyKey, payloadHash, purchase)

	return purchase, nil
}
