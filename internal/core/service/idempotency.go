package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelleal24/shopping/internal/core/logger"
	"github.com/rafaelleal24/shopping/internal/core/port"
	"github.com/rafaelleal24/shopping/internal/core/serviceerrors"
)

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyEntry[T any] struct {
	Status      IdempotencyStatus `json:"status"`
	PayloadHash string            `json:"payload_hash"`
	Result      *T                `json:"result,omitempty"`
}

type IdempotencyOptions struct {
	// TTL bounds how long both claims and completed results are kept.
	TTL          time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// IdempotencyService lets the first request for a key run and makes
// concurrent or later requests with that key wait for and reuse its result.
type IdempotencyService[T any] struct {
	cache port.CachePort[IdempotencyEntry[T]]
	opts  IdempotencyOptions
}

func NewIdempotencyService[T any](cache port.CachePort[IdempotencyEntry[T]], opts IdempotencyOptions) *IdempotencyService[T] {
	return &IdempotencyService[T]{cache: cache, opts: opts}
}

// Claim returns (nil, nil) when the caller owns the key and must run the
// request, or the stored result of an earlier run.
func (s *IdempotencyService[T]) Claim(ctx context.Context, key, payloadHash string) (*T, error) {
	claimed, err := s.cache.SetNX(ctx, key, &IdempotencyEntry[T]{
		Status:      IdempotencyProcessing,
		PayloadHash: payloadHash,
	}, s.opts.TTL)
	if err != nil {
		return nil, fmt.Errorf("idempotency claim failed: %w", err)
	}
	if claimed {
		return nil, nil
	}

	return s.waitForCompletion(ctx, key, payloadHash)
}

func (s *IdempotencyService[T]) Complete(ctx context.Context, key, payloadHash string, result *T) {
	entry := &IdempotencyEntry[T]{
		Status:      IdempotencyCompleted,
		PayloadHash: payloadHash,
		Result:      result,
	}
	if err := s.cache.Set(ctx, key, entry, s.opts.TTL); err != nil {
		logger.Error(ctx, "idempotency: complete failed", err, map[string]any{
			"idempotency_key": key,
		})
	}
}

// Release drops a claim so the key can be retried after a failed request.
func (s *IdempotencyService[T]) Release(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, key); err != nil {
		logger.Error(ctx, "idempotency: release failed", err, map[string]any{
			"idempotency_key": key,
		})
	}
}

func (s *IdempotencyService[T]) checkEntry(ctx context.Context, key, payloadHash string) (*T, bool, error) {
	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency check failed: %w", err)
	}
	switch {
	case entry == nil:
		return nil, false, serviceerrors.NewConflictError("previous request failed, retry with the same key")
	case entry.PayloadHash != payloadHash:
		return nil, false, serviceerrors.NewUnprocessableEntityError("idempotency key already used with a different payload")
	case entry.Status == IdempotencyCompleted:
		return entry.Result, true, nil
	}
	return nil, false, nil
}

func (s *IdempotencyService[T]) waitForCompletion(ctx context.Context, key, payloadHash string) (*T, error) {
	result, done, err := s.checkEntry(ctx, key, payloadHash)
	if done || err != nil {
		return result, err
	}

	timeout := time.NewTimer(s.opts.PollTimeout)
	defer timeout.Stop()
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout.C:
			return nil, serviceerrors.NewConflictError("idempotency key still being processed, timed out")
		case <-ticker.C:
			result, done, err := s.checkEntry(ctx, key, payloadHash)
			if done || err != nil {
				return result, err
			}
		}
	}
}
