package workers

import (
	"context"
	"sync"
	"time"

	"fusevip/logger"
	"fusevip/tools"
)

// FallbackXRPPrice is served until the first successful quote.
const FallbackXRPPrice = 0.50

// PriceCache holds the latest XRP/USD quote.
type PriceCache struct {
	mu        sync.RWMutex
	price     float64
	updatedAt time.Time
}

func NewPriceCache() *PriceCache {
	return &PriceCache{}
}

func (p *PriceCache) Set(price float64, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
	p.updatedAt = at
}

// Latest returns the cached quote; ok is false before the first refresh.
func (p *PriceCache) Latest() (float64, time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.updatedAt.IsZero() {
		return FallbackXRPPrice, time.Time{}, false
	}
	return p.price, p.updatedAt, true
}

// StartPriceRefresher fetches a quote now and then on every tick until ctx
// is done.
func StartPriceRefresher(ctx context.Context, src tools.PriceSource, cache *PriceCache, every time.Duration) {
	go func() {
		refreshPrice(ctx, src, cache)

		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refreshPrice(ctx, src, cache)
			}
		}
	}()
}

func refreshPrice(ctx context.Context, src tools.PriceSource, cache *PriceCache) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	price, err := src.XRPUSD(ctx)
	if err != nil {
		logger.Get().Warn("price worker: fetch xrp price", "error", err)
		return
	}
	cache.Set(price, time.Now())
}
