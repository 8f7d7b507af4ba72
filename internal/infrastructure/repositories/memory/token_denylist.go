package memory

import (
	"context"
	"time"

	"roomcast/internal/core/ports"
	"roomcast/pkg/cache"
)

// MemoryTokenDenylist keeps revoked token IDs in a TTL cache so entries
// disappear once the token could no longer verify anyway.
type MemoryTokenDenylist struct {
	cache *cache.Cache
}

func NewMemoryTokenDenylist(sweepInterval time.Duration) *MemoryTokenDenylist {
	return &MemoryTokenDenylist{
		cache: cache.NewCache(sweepInterval),
	}
}

var _ ports.TokenDenylist = (*MemoryTokenDenylist)(nil)

func (d *MemoryTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if !time.Now().Before(until) {
		return nil
	}
	d.cache.SetUntil(tokenID, struct{}{}, until)
	return nil
}

func (d *MemoryTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, revoked := d.cache.Get(tokenID)
	return revoked, nil
}

// Close stops the background sweeper.
func (d *MemoryTokenDenylist) Close() {
	d.cache.Stop()
}
