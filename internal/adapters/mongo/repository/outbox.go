package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rafaelleal24/shopping/internal/adapters/mongo/document"
	"github.com/rafaelleal24/shopping/internal/adapters/outbox"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const outboxCollection = "outbox"

type OutboxRepository struct {
	*BaseRepository[document.OutboxDocument]
}

// NewOutboxRepository returns a repository that is both the outbox store
// drained by the outbox handler and the port.EventRecorder used by services.
func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	repo := &OutboxRepository{
		BaseRepository: NewBaseRepository[document.OutboxDocument](db, outboxCollection),
	}

	if err := repo.createIndexes(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": outboxCollection,
		})
	}

	return repo
}

// Record stores the event in the outbox. Called with a transaction context
// it commits or aborts together with the writes that produced the event.
func (r *OutboxRepository) Record(ctx context.Context, event domain.Event) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.GetName(), err)
	}

	return r.Insert(ctx, outbox.Entry{
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  eventData,
	})
}

func (r *OutboxRepository) Insert(ctx context.Context, entry outbox.Entry) error {
	_, err := r.BaseRepository.Insert(ctx, &document.OutboxDocument{
		EventName:  entry.EventName,
		EntityName: entry.EntityName,
		EventData:  string(entry.EventData),
		CreatedAt:  time.Now(),
	})
	return err
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	docs, err := r.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]outbox.Entry, len(docs))
	for i, doc := range docs {
		entries[i] = outbox.Entry{
			ID:         doc.ID.Hex(),
			EventName:  doc.EventName,
			EntityName: doc.EntityName,
			EventData:  []byte(doc.EventData),
			Attempts:   doc.Attempts,
		}
	}
	return entries, nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"attempts": 1}})
}

func (r *OutboxRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}
