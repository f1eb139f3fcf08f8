package port

import "context"

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// BrokerPort publishes events that were already serialized, as stored in the
// outbox.
type BrokerPort interface {
	PublishRaw(ctx context.Context, eventName, entityName string, data []byte) error
	Close() error
}
