// Package lookup turns a raw query into a unified account summary and activity feed.
//
// A lookup runs in three stages:
//   - classify the query and resolve the adapter of its network
//   - fetch the account (primary); a failure degrades to a mock result
//   - fetch activity and the coin price concurrently, each degrading on its own
//
// Upstream calls are never retried.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/chainlens/internal/classify"
	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/metrics"
)

// PriceSource resolves spot USD prices.
type PriceSource interface {
	PriceUSD(ctx context.Context, coinID string) (decimal.Decimal, bool)
}

// Options tunes the engine.
type Options struct {
	// StrictNetwork rejects inputs that do not conform to an explicitly chosen network.
	StrictNetwork bool
}

// Engine performs lookups against the registered adapters.
type Engine struct {
	adapters *chain.Registry
	prices   PriceSource
	opts     Options
	log      *slog.Logger
}

// NewEngine creates a lookup engine.
func NewEngine(adapters *chain.Registry, prices PriceSource, opts Options) *Engine {
	return &Engine{
		adapters: adapters,
		prices:   prices,
		opts:     opts,
		log:      slog.Default().With("component", "lookup"),
	}
}

// Lookup resolves query, optionally pinned to network (AUTO or empty to detect).
//
// The returned error wraps domain.ErrValidation or domain.ErrUnsupported; the result is
// then an ok=false envelope suitable for the caller. Upstream failures are never returned.
func (e *Engine) Lookup(ctx context.Context, query string, network domain.Network) (*domain.LookupResult, error) {
	start := time.Now()
	query = strings.TrimSpace(query)

	c := classify.Classify(query, network)
	defer func() {
		metrics.LookupLatency.WithLabelValues(string(c.Network)).Observe(time.Since(start).Seconds())
	}()

	if query == "" {
		return e.reject(c, "Empty query", domain.ErrValidation)
	}

	if network.Known() && !classify.Conforms(c, query) {
		if e.opts.StrictNetwork {
			return e.reject(c, fmt.Sprintf("Input is not a valid %s %s", network, c.Kind), domain.ErrValidation)
		}
		e.log.Warn("input does not conform to forced network", "network", network, "kind", c.Kind)
	}

	if c.Kind != domain.KindAddress {
		return e.reject(c, "Unsupported or unknown input", domain.ErrUnsupported)
	}

	adapter, err := e.adapters.Get(c.Network)
	if err != nil {
		return e.reject(c, "Unsupported or unknown input", domain.ErrUnsupported)
	}

	normalized := adapter.Normalize(query)

	account, err := adapter.FetchAccount(ctx, normalized)
	if err != nil {
		e.log.Warn("account fetch failed, serving mock result", "network", c.Network, "error", err)
		metrics.LookupsTotal.WithLabelValues(string(c.Network), string(c.Kind), domain.StatusMock).Inc()
		return Mock(c, query), nil
	}

	var (
		g        errgroup.Group
		activity *chain.Activity
		price    decimal.Decimal
		priceOK  bool
	)
	g.Go(func() error {
		activity = adapter.FetchActivity(ctx, account)
		return nil
	})
	g.Go(func() error {
		if e.prices != nil {
			price, priceOK = e.prices.PriceUSD(ctx, domain.NetworkCoinID[c.Network])
		}
		return nil
	})
	_ = g.Wait()

	metrics.LookupsTotal.WithLabelValues(string(c.Network), string(c.Kind), "ok").Inc()

	return Assemble(Input{
		Query:          query,
		Classification: c,
		Normalized:     normalized,
		Account:        account,
		Activity:       activity,
		Price:          price,
		PriceOK:        priceOK,
	}), nil
}

func (e *Engine) reject(c domain.Classification, msg string, kind error) (*domain.LookupResult, error) {
	metrics.LookupsTotal.WithLabelValues(string(c.Network), string(c.Kind), "rejected").Inc()
	return domain.FailedLookup(c, msg), fmt.Errorf("%w: %s", kind, msg)
}

// IsClientError reports whether err came from the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUnsupported)
}
