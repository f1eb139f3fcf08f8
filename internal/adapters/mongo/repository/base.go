package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/rafaelleal24/shopping/internal/adapters/mongo/document"
	"github.com/rafaelleal24/shopping/internal/core/serviceerrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BaseRepository[T document.Document] struct {
	collection *mongo.Collection
}

func NewBaseRepository[T document.Document](db *mongo.Database, collectionName string) *BaseRepository[T] {
	return &BaseRepository[T]{
		collection: db.Collection(collectionName),
	}
}

func (r *BaseRepository[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, parseError(err)
	}
	defer cursor.Close(ctx)

	entities := make([]T, 0)
	if err = cursor.All(ctx, &entities); err != nil {
		return nil, parseError(err)
	}

	return entities, nil
}

func (r *BaseRepository[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var entity T
	if err := r.collection.FindOne(ctx, filter).Decode(&entity); err != nil {
		return nil, parseError(err)
	}
	return &entity, nil
}

func (r *BaseRepository[T]) Insert(ctx context.Context, entity *T) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, entity)
	if err != nil {
		return primitive.NilObjectID, parseError(err)
	}
	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Upsert replaces the document matching filter or inserts entity when none
// does. It returns the new _id on insert and NilObjectID on replace.
func (r *BaseRepository[T]) Upsert(ctx context.Context, filter bson.M, entity *T) (primitive.ObjectID, error) {
	result, err := r.collection.ReplaceOne(ctx, filter, entity, options.Replace().SetUpsert(true))
	if err != nil {
		return primitive.NilObjectID, parseError(err)
	}
	id, _ := result.UpsertedID.(primitive.ObjectID)
	return id, nil
}

func (r *BaseRepository[T]) UpdateByID(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return parseError(err)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return parseError(err)
	}
	if result.MatchedCount == 0 {
		return serviceerrors.NewNotFoundError("entity not found")
	}
	return nil
}

func (r *BaseRepository[T]) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return parseError(err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return parseError(err)
	}
	if result.DeletedCount == 0 {
		return serviceerrors.NewNotFoundError("entity not found")
	}
	return nil
}

func (r *BaseRepository[T]) createIndexes(ctx context.Context, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func parseError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return serviceerrors.NewNotFoundError("entity not found")
	}
	if mongo.IsDuplicateKeyError(err) {
		return serviceerrors.NewConflictError("duplicate key error")
	}
	if isInvalidObjectIDError(err) {
		return serviceerrors.NewInvalidRequestError("invalid ID format")
	}
	return err
}

func isInvalidObjectIDError(err error) bool {
	return err != nil && (errors.Is(err, primitive.ErrInvalidHex) || strings.Contains(err.Error(), "not a valid ObjectID"))
}
