package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v84"
)

type PriceCache interface {
	Get(ctx context.Context, priceID string) (*stripe.Price, bool)
	Set(ctx context.Context, priceID string, price *stripe.Price)
}

// InMemoryPriceCache keeps recently resolved Stripe prices for a short TTL so
// repeated checkouts against the same price reference do not round-trip to
// Stripe every time. Prices rarely change; a stale entry only lasts one TTL.
type InMemoryPriceCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	cache map[string]priceEntry
}

type priceEntry struct {
	price     *stripe.Price
	expiresAt time.Time
}

func NewInMemoryPriceCache(ttl time.Duration) *InMemoryPriceCache {
	return &InMemoryPriceCache{
		ttl:   ttl,
		cache: make(map[string]priceEntry),
	}
}

func (c *InMemoryPriceCache) Get(ctx context.Context, priceID string) (*stripe.Price, bool) {
	c.mu.RLock()
	entry, ok := c.cache[priceID]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.price, true
}

func (c *InMemoryPriceCache) Set(ctx context.Context, priceID string, price *stripe.Price) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[priceID] = priceEntry{
		price:     price,
		expiresAt: time.Now().Add(c.ttl),
	}
}
