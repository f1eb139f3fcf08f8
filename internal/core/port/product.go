package port

import (
	"context"

	"github.com/rafaelleal24/shopping/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// ProductPort persists products keyed by name. Save is an upsert of the
// product's current state.
type ProductPort interface {
	Save(ctx context.Context, product *domain.Product) error
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
}
