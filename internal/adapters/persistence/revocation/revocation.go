// Package revocation holds the refresh-token revocation set. It is the only
// shared mutable state outside the identity store, so it lives behind a
// narrow interface and is injected into the session manager.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lendease/internal/core/domain"
)

// List is the revocation set. Revoke is idempotent; IsRevoked is an atomic
// membership check.
type List interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const keyPrefix = "revoked_token:"

// redisList implements List over Redis. Entries carry a TTL equal to the
// token's remaining lifetime, so the set prunes itself as tokens expire.
type redisList struct {
	client *redis.Client
}

// NewRedisList creates a Redis-backed revocation list
func NewRedisList(client *redis.Client) List {
	return &redisList{client: client}
}

// Revoke adds a token id to the set. Re-revoking an entry only refreshes
// its TTL, never an error.
func (l *redisList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; keep the entry briefly so a racing
		// refresh still sees it.
		ttl = time.Minute
	}
	if err := l.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether a token id is in the set
func (l *redisList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}
