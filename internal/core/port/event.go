package port

import (
	"context"

	"github.com/rafaelleal24/shopping/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// EventRecorder stores an event for later publishing. Called inside a
// transaction it commits or rolls back together with the surrounding writes.
type EventRecorder interface {
	Record(ctx context.Context, event domain.Event) error
}
