// Package storeinit selects and constructs the store.Store backend named
// by config.Config.StoreBackend, keeping the backend-selection switch out
// of the API server's main package. The CLI does not use a store.
package storeinit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cycletrack/reconciler/internal/store"
	"github.com/cycletrack/reconciler/internal/store/memstore"
	"github.com/cycletrack/reconciler/internal/store/pgstore"
	"github.com/cycletrack/reconciler/internal/store/redisstore"
	"github.com/cycletrack/reconciler/pkg/config"
	"github.com/cycletrack/reconciler/pkg/postgres"
	"github.com/cycletrack/reconciler/pkg/redis"
)

// New builds the store.Store backend selected by cfg.StoreBackend
// ("memory", "redis", or "postgres"; cfg.Validate has already rejected
// anything else). Postgres additionally connects and bootstraps its
// schema before returning.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		client := redis.NewClient(cfg, logger)
		return redisstore.New(client), nil
	case "postgres":
		client := postgres.NewClient(cfg, logger)
		if err := client.Connect(ctx); err != nil {
			return nil, fmt.Errorf("storeinit: connecting to postgres: %w", err)
		}
		s := pgstore.New(client)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("storeinit: ensuring schema: %w", err)
		}
		return s, nil
	default:
		return memstore.New(), nil
	}
}
