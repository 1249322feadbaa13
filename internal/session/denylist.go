package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Denylist records token IDs revoked before their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryDenylist keeps revoked token IDs in process memory.
type MemoryDenylist struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

// NewMemoryDenylist returns an empty MemoryDenylist.
func NewMemoryDenylist(now func() time.Time) *MemoryDenylist {
	if now == nil {
		now = time.Now
	}
	return &MemoryDenylist{now: now, revoked: make(map[string]time.Time)}
}

// Revoke denies tokenID until the given time. Expired entries are pruned on write.
func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.revoked {
		if !exp.After(now) {
			delete(d.revoked, id)
		}
	}
	if until.After(now) {
		d.revoked[tokenID] = until
	}
	return nil
}

// IsRevoked reports whether tokenID is currently denied.
func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[tokenID]
	return ok && exp.After(d.now()), nil
}

// RedisDenylist stores revoked token IDs as expiring Redis keys so every
// instance behind a load balancer sees the same revocations.
type RedisDenylist struct {
	c      *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisDenylist wraps an existing client. Keys are written as prefix+tokenID.
func NewRedisDenylist(c *redis.Client, prefix string, now func() time.Time) *RedisDenylist {
	if prefix == "" {
		prefix = "housekeeping:session:revoked:"
	}
	if now == nil {
		now = time.Now
	}
	return &RedisDenylist{c: c, prefix: prefix, now: now}
}

// Revoke stores tokenID with a TTL matching the token's remaining lifetime.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.c.Set(ctx, d.prefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether tokenID has a live denylist key.
func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := d.c.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
