package midtranswebhook

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	WebhookKey(provider, notificationID string) string
}

// IdempotencyGuard de-duplicates webhook deliveries at the edge. The
// reconciler itself is idempotent; the guard just avoids redundant work on
// provider retry storms.
type IdempotencyGuard struct {
	store idempotencyStore
	ttl   time.Duration
}

// NewIdempotencyGuard builds a guard for midtrans notifications.
func NewIdempotencyGuard(store idempotencyStore, ttl time.Duration) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &IdempotencyGuard{store: store, ttl: ttl}, nil
}

// CheckAndMark reports whether this notification was already seen,
// marking it as seen otherwise.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, notificationID string) (bool, error) {
	if notificationID == "" {
		return false, errors.New("notification id is required")
	}
	key := g.store.WebhookKey("midtrans", notificationID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Release clears the mark so a failed application can be retried by the
// provider.
func (g *IdempotencyGuard) Release(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return errors.New("notification id is required")
	}
	return g.store.Del(ctx, g.store.WebhookKey("midtrans", notificationID))
}
