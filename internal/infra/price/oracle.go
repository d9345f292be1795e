// Package price resolves spot USD prices from a CoinGecko-compatible API.
package price

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/vietddude/chainlens/internal/infra/chain/jsonx"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
	"github.com/vietddude/chainlens/internal/metrics"
)

// Config controls the short-lived price cache.
type Config struct {
	// CacheTTL of zero disables caching.
	CacheTTL  time.Duration
	CacheSize int
}

// Oracle returns spot prices. A failed call yields "unknown" and is never retried.
type Oracle struct {
	provider provider.Provider
	cache    *expirable.LRU[string, decimal.Decimal]
}

// NewOracle creates an oracle on top of a CoinGecko provider.
func NewOracle(p provider.Provider, cfg Config) *Oracle {
	o := &Oracle{provider: p}
	if cfg.CacheTTL > 0 {
		size := cfg.CacheSize
		if size <= 0 {
			size = 16
		}
		o.cache = expirable.NewLRU[string, decimal.Decimal](size, nil, cfg.CacheTTL)
	}
	return o
}

// PriceUSD returns the USD price of coinID. ok is false when the price is unknown.
func (o *Oracle) PriceUSD(ctx context.Context, coinID string) (decimal.Decimal, bool) {
	if o.cache != nil {
		if p, hit := o.cache.Get(coinID); hit {
			metrics.PriceCacheTotal.WithLabelValues("hit").Inc()
			return p, true
		}
		metrics.PriceCacheTotal.WithLabelValues("miss").Inc()
	}

	doc, err := o.provider.Get(ctx, provider.Request{
		Endpoint: "simple_price",
		Path:     "/api/v3/simple/price",
		Query:    url.Values{"ids": {coinID}, "vs_currencies": {"usd"}},
	})
	if err != nil {
		slog.Warn("price unavailable", "coin", coinID, "error", err)
		return decimal.Zero, false
	}

	p, ok := jsonx.Decimal(jsonx.Obj(doc, coinID), "usd")
	if !ok || !p.IsPositive() {
		slog.Warn("price missing from response", "coin", coinID)
		return decimal.Zero, false
	}

	if o.cache != nil {
		o.cache.Add(coinID, p)
	}
	return p, true
}
