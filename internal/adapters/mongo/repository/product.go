package repository

import (
	"context"

	"github.com/rafaelleal24/shopping/internal/adapters/mongo/document"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/logger"
	"github.com/rafaelleal24/shopping/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
}

func NewProductRepository(db *mongo.Database) port.ProductPort {
	repo := &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, productsCollection),
	}

	if err := repo.createIndexes(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": productsCollection,
		})
	}

	return repo
}

// Save writes the whole product keyed by its name. Saving the same product
// twice leaves one stored document. The stored stock is overwritten, not
// decremented, so a concurrent save from another process is lost.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	id, err := r.Upsert(ctx, bson.M{"name": product.Name}, document.ToProductDocument(product))
	if err != nil {
		return err
	}
	if !id.IsZero() {
		product.ID = domain.ID(id.Hex())
	}
	return nil
}

func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	doc, err := r.FindOne(ctx, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	return doc.ToDomain(), nil
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	docs, err := r.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, len(docs))
	for i, doc := range docs {
		products[i] = doc.ToDomain()
	}
	return products, nil
}
