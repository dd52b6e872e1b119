package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/battlebrain/internal/clients/catalog"
	"github.com/KirkDiggler/battlebrain/internal/clients/predictor"
	"github.com/KirkDiggler/battlebrain/internal/config"
	"github.com/KirkDiggler/battlebrain/internal/observe"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/encounter"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/lookup"
	"github.com/KirkDiggler/battlebrain/internal/orchestrators/prediction"
	"github.com/KirkDiggler/battlebrain/internal/pkg/clock"
	"github.com/KirkDiggler/battlebrain/internal/pkg/idgen"
	"github.com/KirkDiggler/battlebrain/internal/redis"
	"github.com/KirkDiggler/battlebrain/internal/repositories/slots"
	"github.com/KirkDiggler/battlebrain/internal/services/roster"
	"github.com/KirkDiggler/battlebrain/internal/services/session"
)

// app holds the wired components for one command invocation
type app struct {
	catalog   catalog.Client
	encounter *encounter.Orchestrator
	sessions  session.Service
	cleanup   []func()
}

func (a *app) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// appOptions lets tests swap the clock and metrics
type appOptions struct {
	Clock    clock.Clock
	Metrics  *observe.Metrics
	OnChange func()
}

func newApp(ctx context.Context, cfg *config.Config, opts *appOptions) (*app, error) {
	if opts == nil {
		opts = &appOptions{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	a := &app{}

	repo, err := openStorage(ctx, cfg.Storage, clk, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	sessions, err := session.NewAdapter(&session.Config{Repository: repo})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sessions = sessions

	a.catalog, err = newCatalog(cfg.Catalog, metrics)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	predictorClient, err := predictor.New(&predictor.Config{
		BaseURL: cfg.Predictor.BaseURL,
		Timeout: cfg.Predictor.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create predictor client: %w", err)
	}

	store, err := roster.NewStore(&roster.Config{
		PartyIDs: idgen.NewUUID("pm"),
		EnemyIDs: idgen.NewUUID("en"),
		OnChange: opts.OnChange,
		Metrics:  metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	coordinator, err := lookup.NewCoordinator(&lookup.Config{
		Catalog:   a.catalog,
		Roster:    store,
		Clock:     clk,
		Debounce:  cfg.Builder.SuggestDebounce,
		BlurGrace: cfg.Builder.BlurGrace,
		OnChange:  opts.OnChange,
		Metrics:   metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cleanup = append(a.cleanup, coordinator.Close)

	predictions, err := prediction.New(&prediction.Config{
		Predictor:    predictorClient,
		Session:      sessions,
		Clock:        clk,
		LatencyFloor: cfg.Builder.LatencyFloor,
		OnChange:     opts.OnChange,
		Metrics:      metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.encounter, err = encounter.NewOrchestrator(&encounter.Config{
		Roster:     store,
		Lookup:     coordinator,
		Prediction: predictions,
		Session:    sessions,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func openStorage(ctx context.Context, sc config.StorageConfig, clk clock.Clock, a *app) (slots.Repository, error) {
	switch sc.Driver {
	case config.StorageMemory:
		return slots.NewInMemory(), nil

	case config.StorageRedis:
		client, err := redis.NewClient(sc.RedisAddr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		a.cleanup = append(a.cleanup, func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close redis client", "error", err)
			}
		})
		return slots.NewRedis(&slots.RedisConfig{
			Client:    client,
			Namespace: sc.Namespace,
			TTL:       sc.TTL,
		})

	default:
		repo, err := slots.OpenSQLite(ctx, &slots.SQLiteConfig{
			Path:      sc.Path,
			Namespace: sc.Namespace,
			Clock:     clk,
		})
		if err != nil {
			return nil, err
		}
		a.cleanup = append(a.cleanup, func() {
			if err := repo.Close(); err != nil {
				slog.Warn("Failed to close sqlite storage", "error", err)
			}
		})
		return repo, nil
	}
}

func newCatalog(cc config.CatalogConfig, metrics *observe.Metrics) (catalog.Client, error) {
	if cc.Provider == config.ProviderDND5e {
		return catalog.NewDND5e(&catalog.DND5eConfig{
			BaseURL:  dnd5eBaseURL(cc.BaseURL),
			Timeout:  cc.Timeout,
			CacheTTL: cc.CacheTTL,
			Metrics:  metrics,
		})
	}

	return catalog.NewHTTP(&catalog.HTTPConfig{
		BaseURL: cc.BaseURL,
		Timeout: cc.Timeout,
		Metrics: metrics,
	})
}

// dnd5eBaseURL drops the backend default so the SRD client falls back to
// its own default endpoint
func dnd5eBaseURL(base string) string {
	if base == config.Default().Catalog.BaseURL {
		return ""
	}
	return base
}
