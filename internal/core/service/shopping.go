package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/logger"
	"github.com/rafaelleal24/shopping/internal/core/port"
	"github.com/rafaelleal24/shopping/internal/core/serviceerrors"
)

const productCacheTTL = 5 * time.Minute

type ShoppingService struct {
	productRepository port.ProductPort
	productCache      port.CachePort[domain.Product]
	events            port.EventRecorder
	txManager         port.TransactionManager
	metrics           port.PurchaseMetrics
	locks             *keyedLock
}

func NewShoppingService(
	productRepository port.ProductPort,
	productCache port.CachePort[domain.Product],
	events port.EventRecorder,
	txManager port.TransactionManager,
	metrics port.PurchaseMetrics,
) *ShoppingService {
	return &ShoppingService{
		productRepository: productRepository,
		productCache:      productCache,
		events:            events,
		txManager:         txManager,
		metrics:           metrics,
		locks:             newKeyedLock(),
	}
}

func (s *ShoppingService) getCacheKey(name string) string {
	return fmt.Sprintf("product:%s", name)
}

func (s *ShoppingService) GetCart(customer domain.Customer) *domain.Cart {
	return domain.NewCart(customer)
}

func (s *ShoppingService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepository.GetAll(ctx)
}

// GetProductByName serves reads from the cache. Buy never goes through the
// cache; it always works on the stored product.
func (s *ShoppingService) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	cached, err := s.productCache.Get(ctx, s.getCacheKey(name))
	if err != nil {
		logger.Error(ctx, "cache: get product failed", err, map[string]any{
			"product_name": name,
		})
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.productRepository.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.productCache.Set(ctx, s.getCacheKey(name), product, productCacheTTL); err != nil {
		logger.Error(ctx, "cache: set product failed", err, map[string]any{
			"product_name": name,
		})
	}

	return product, nil
}

type reservation struct {
	product  *domain.Product
	quantity int
}

// Buy purchases every line of the cart or none of them. It returns false
// without touching storage when the cart is empty.
func (s *ShoppingService) Buy(ctx context.Context, cart *domain.Cart) (bool, error) {
	if cart == nil || cart.IsEmpty() {
		s.metrics.ObservePurchase(port.PurchaseOutcomeEmpty, 0)
		return false, nil
	}

	lines := cart.Lines()
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = line.ProductName
	}
	unlock := s.locks.Lock(names...)
	defer unlock()

	reserved, err := s.validate(ctx, lines)
	if err != nil {
		s.observeFailure(err)
		return false, err
	}

	if err := s.commit(ctx, cart, reserved); err != nil {
		logger.Error(ctx, "purchase: commit failed", err, map[string]any{
			"customer_id": cart.Owner.ID,
		})
		s.observeFailure(err)
		return false, err
	}

	s.invalidate(ctx, reserved)
	s.metrics.ObservePurchase(port.PurchaseOutcomeBought, cart.TotalUnits())

	logger.Info(ctx, "Cart purchased", map[string]any{
		"customer_id": cart.Owner.ID,
		"lines":       len(reserved),
		"units":       cart.TotalUnits(),
	})
	return true, nil
}

// validate stops at the first line that cannot be served.
func (s *ShoppingService) validate(ctx context.Context, lines []domain.CartLine) ([]reservation, error) {
	reserved := make([]reservation, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, serviceerrors.NewInvalidRequestError(fmt.Sprintf("invalid quantity %d for item '%s'", line.Quantity, line.ProductName))
		}
		product, err := s.productRepository.GetByName(ctx, line.ProductName)
		if err != nil {
			if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
				return nil, serviceerrors.NewNotFoundError(fmt.Sprintf("product '%s' not found", line.ProductName))
			}
			return nil, err
		}
		if !product.HasStock(line.Quantity) {
			logger.Warn(ctx, "purchase: insufficient stock", map[string]any{
				"product_name": line.ProductName,
				"requested":    line.Quantity,
				"available":    product.Stock,
			})
			return nil, serviceerrors.NewInsufficientStockError(line.ProductName)
		}
		reserved = append(reserved, reservation{product: product, quantity: line.Quantity})
	}
	return reserved, nil
}

type deduction struct {
	reservation
	previousUpdatedAt time.Time
}

func (s *ShoppingService) commit(ctx context.Context, cart *domain.Cart, reserved []reservation) error {
	var applied []deduction
	rollback := func() {
		for i := len(applied) - 1; i >= 0; i-- {
			applied[i].product.Restore(applied[i].quantity, applied[i].previousUpdatedAt)
		}
		applied = applied[:0]
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// the transaction body may be retried
		rollback()

		var total domain.Amount
		for _, r := range reserved {
			previousUpdatedAt := r.product.UpdatedAt
			if err := r.product.Deduct(r.quantity); err != nil {
				return serviceerrors.NewInsufficientStockError(r.product.Name)
			}
			applied = append(applied, deduction{reservation: r, previousUpdatedAt: previousUpdatedAt})
			if err := s.productRepository.Save(txCtx, r.product); err != nil {
				return fmt.Errorf("save product %s: %w", r.product.Name, err)
			}
			total += r.product.Price.Multiply(r.quantity)
		}

		event := domain.NewPurchaseCompletedEvent(cart, time.Now())
		event.Total = total
		return s.events.Record(txCtx, event)
	})
	if err != nil {
		rollback()
		return err
	}
	return nil
}

func (s *ShoppingService) invalidate(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.productCache.Del(ctx, s.getCacheKey(r.product.Name)); err != nil {
			logger.Error(ctx, "cache: invalidate product failed", err, map[string]any{
				"product_name": r.product.Name,
			})
		}
	}
}

func (s *ShoppingService) observeFailure(err error) {
	if serviceerrors.IsOfKind(err, serviceerrors.KindInsufficientStock) {
		s.metrics.ObservePurchase(port.PurchaseOutcomeInsufficientStock, 0)
		return
	}
	s.metrics.ObservePurchase(port.PurchaseOutcomeError, 0)
}
