package stock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// stockKV is the slice of the redis client the cache relies on.
type stockKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache keeps computed per-location totals in redis so product reads
// do not replay the full movement ledger every time. Movement writes
// invalidate the product's entry. A nil Cache disables caching.
type Cache struct {
	kv  stockKV
	ttl time.Duration
}

func NewCache(kv stockKV, ttl time.Duration) *Cache {
	return &Cache{kv: kv, ttl: ttl}
}

type cachedStock struct {
	AddisAbaba     float64 `json:"addis_ababa"`
	SEZKenya       float64 `json:"sez_kenya"`
	NairobiPartner float64 `json:"nairobi_partner"`
}

func stockKey(productID uuid.UUID) string {
	return "stock:product:" + productID.String()
}

// Lookup returns the cached totals for a product, if present.
func (c *Cache) Lookup(ctx context.Context, productID uuid.UUID) (locationStock, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.kv.Get(ctx, stockKey(productID))
	if err != nil {
		return nil, false
	}
	var cached cachedStock
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false
	}
	return locationStock{
		enums.LocationAddisAbaba:     cached.AddisAbaba,
		enums.LocationSEZKenya:       cached.SEZKenya,
		enums.LocationNairobiPartner: cached.NairobiPartner,
	}, true
}

// Store caches the totals under the configured TTL. Failures are not
// reported; the next read recomputes.
func (c *Cache) Store(ctx context.Context, productID uuid.UUID, totals locationStock) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(cachedStock{
		AddisAbaba:     totals[enums.LocationAddisAbaba],
		SEZKenya:       totals[enums.LocationSEZKenya],
		NairobiPartner: totals[enums.LocationNairobiPartner],
	})
	if err != nil {
		return
	}
	_ = c.kv.Set(ctx, stockKey(productID), string(raw), c.ttl)
}

// Invalidate drops a product's cached totals.
func (c *Cache) Invalidate(ctx context.Context, productID uuid.UUID) {
	if c == nil {
		return
	}
	_ = c.kv.Del(ctx, stockKey(productID))
}
