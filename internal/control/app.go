// Package control builds the application from configuration and manages its lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/chainlens/internal/api"
	"github.com/vietddude/chainlens/internal/comments"
	"github.com/vietddude/chainlens/internal/core/config"
	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/health"
	"github.com/vietddude/chainlens/internal/infra/chain"
	"github.com/vietddude/chainlens/internal/infra/chain/blockcypher"
	"github.com/vietddude/chainlens/internal/infra/chain/ton"
	"github.com/vietddude/chainlens/internal/infra/chain/tron"
	"github.com/vietddude/chainlens/internal/infra/price"
	redisclient "github.com/vietddude/chainlens/internal/infra/redis"
	"github.com/vietddude/chainlens/internal/infra/rpc/provider"
	"github.com/vietddude/chainlens/internal/infra/storage"
	"github.com/vietddude/chainlens/internal/infra/storage/memory"
	"github.com/vietddude/chainlens/internal/infra/storage/postgres"
	"github.com/vietddude/chainlens/internal/lookup"
)

// App is the main application struct that owns every long-lived resource.
type App struct {
	cfg       *config.AppConfig
	engine    *lookup.Engine
	comments  *comments.Service
	server    *api.Server
	providers []provider.Provider
	db        *postgres.DB
	redis     *redisclient.Client
	log       *slog.Logger
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	app := &App{cfg: cfg, log: slog.Default()}

	// 1. Upstream providers and the lookup engine
	engine, providers, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	app.engine, app.providers = engine, providers

	// 2. Comment storage
	repo, err := app.openCommentStore(ctx)
	if err != nil {
		app.closeResources()
		return nil, err
	}
	app.comments = comments.NewService(repo, cfg.Comments.Salt)
	app.log.Info("Comment storage ready", "storage", repo.Name())

	// 3. HTTP surface
	monitor := health.NewMonitor(app.comments, app.providers)
	handler := api.NewHandler(app.engine, app.comments, monitor, app.log)
	app.server = api.NewServer(handler, api.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	return app, nil
}

// Engine returns the lookup engine.
func (a *App) Engine() *lookup.Engine {
	return a.engine
}

// Comments returns the comment service.
func (a *App) Comments() *comments.Service {
	return a.comments
}

// Start starts the HTTP server and background collectors.
func (a *App) Start(ctx context.Context) error {
	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down and releases connections.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping chainlens...")

	var stopErr error
	if a.server != nil {
		if err := a.server.Stop(ctx); err != nil {
			stopErr = fmt.Errorf("failed to stop http server: %w", err)
		}
	}
	a.closeResources()
	return stopErr
}

// Close releases connections without touching the server. Used by one-shot commands.
func (a *App) Close() {
	a.closeResources()
}

func (a *App) closeResources() {
	for _, p := range a.providers {
		_ = p.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}
}

func (a *App) openCommentStore(ctx context.Context) (storage.CommentRepository, error) {
	switch backend := a.cfg.CommentsBackend(); backend {
	case config.BackendRedis:
		client, err := redisclient.NewClient(a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		a.redis = client
		return redisclient.NewCommentRepo(client), nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		a.db = db
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		return postgres.NewCommentRepo(db), nil

	default:
		a.log.Warn("Using in-memory comment storage; comments are lost on restart")
		return memory.NewCommentRepo(), nil
	}
}

// NewEngine builds the upstream providers, chain adapters and price oracle.
func NewEngine(cfg *config.AppConfig) (*lookup.Engine, []provider.Provider, error) {
	up := cfg.Upstream

	tonapi := newProvider("tonapi", up, up.TonAPI, bearer(up.TonAPI.APIKey), nil)
	bc := newProvider("blockcypher", up, up.BlockCypher, nil, param("token", up.BlockCypher.APIKey))
	tronscan := newProvider("tronscan", up, up.Tronscan, header("TRON-PRO-API-KEY", up.Tronscan.APIKey), nil)
	coingecko := newProvider("coingecko", up, up.CoinGecko, header("x-cg-demo-api-key", up.CoinGecko.APIKey), nil)

	providers := []provider.Provider{tonapi, bc, tronscan, coingecko}

	adapters := []chain.Adapter{ton.NewAdapter(tonapi), tron.NewAdapter(tronscan)}
	for _, n := range []domain.Network{domain.NetworkBTC, domain.NetworkLTC, domain.NetworkETH} {
		a, err := blockcypher.NewAdapter(n, bc)
		if err != nil {
			return nil, providers, fmt.Errorf("failed to build %s adapter: %w", n, err)
		}
		adapters = append(adapters, a)
	}

	oracle := price.NewOracle(coingecko, price.Config{
		CacheTTL:  cfg.Price.CacheTTL,
		CacheSize: cfg.Price.CacheSize,
	})

	engine := lookup.NewEngine(chain.NewRegistry(adapters...), oracle, lookup.Options{
		StrictNetwork: cfg.Lookup.StrictNetwork,
	})
	return engine, providers, nil
}

func newProvider(name string, up config.UpstreamConfig, pc config.ProviderConfig, headers, params map[string]string) *provider.HTTPProvider {
	timeout := pc.Timeout
	if timeout == 0 {
		timeout = up.Timeout
	}
	return provider.NewHTTPProvider(provider.Config{
		Name:      name,
		BaseURL:   pc.URL,
		Timeout:   timeout,
		UserAgent: up.UserAgent,
		Headers:   headers,
		Params:    params,
		RateLimit: pc.RateLimit,
		Burst:     pc.Burst,
	})
}

func bearer(key string) map[string]string {
	return header("Authorization", "Bearer "+key)
}

func header(name, value string) map[string]string {
	if value == "" || value == "Bearer " {
		return nil
	}
	return map[string]string{name: value}
}

func param(name, value string) map[string]string {
	if value == "" {
		return nil
	}
	return map[string]string{name: value}
}
