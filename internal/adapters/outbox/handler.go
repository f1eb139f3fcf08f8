package outbox

import (
	"context"
	"time"

	"github.com/rafaelleal24/shopping/internal/adapters/config"
	"github.com/rafaelleal24/shopping/internal/core/logger"
	"github.com/rafaelleal24/shopping/internal/core/port"
)

// Handler publishes pending outbox entries to the broker on every tick and
// deletes the ones that were published.
type Handler struct {
	outbox   Repository
	broker   port.BrokerPort
	interval time.Duration
	batch    int
}

func NewHandler(outbox Repository, broker port.BrokerPort, cfg config.OutboxConfig) *Handler {
	return &Handler{
		outbox:   outbox,
		broker:   broker,
		interval: cfg.Interval,
		batch:    cfg.BatchSize,
	}
}

// Start blocks until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch publishes one batch and returns how many entries were published.
func (h *Handler) ProcessBatch(ctx context.Context) int {
	entries, err := h.outbox.FetchPending(ctx, h.batch)
	if err != nil {
		logger.Error(ctx, "outbox: failed to fetch pending events", err, map[string]any{
			"batch": h.batch,
		})
		return 0
	}

	published := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		attrs := map[string]any{
			"event_id":    entry.ID,
			"event_name":  entry.EventName,
			"entity_name": entry.EntityName,
			"attempts":    entry.Attempts,
		}

		if err := h.broker.PublishRaw(ctx, entry.EventName, entry.EntityName, entry.EventData); err != nil {
			logger.Error(ctx, "outbox: failed to publish event", err, attrs)
			if err := h.outbox.MarkFailed(ctx, entry.ID); err != nil {
				logger.Error(ctx, "outbox: failed to record publish attempt", err, attrs)
			}
			continue
		}
		published++

		logger.Debug(ctx, "outbox: event published", attrs)

		if err := h.outbox.Delete(ctx, entry.ID); err != nil {
			logger.Error(ctx, "outbox: failed to delete event after publish", err, attrs)
		}
	}
	return published
}
