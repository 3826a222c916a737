package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/config"
	"hoops-edge-lab/internal/storage"
	chstore "hoops-edge-lab/internal/storage/clickhouse"
	"hoops-edge-lab/internal/storage/migrations"
	pgstore "hoops-edge-lab/internal/storage/postgres"
)

// openDatabaseStores connects the durable backends: games always live
// in Postgres; aligned series live in Postgres or ClickHouse depending
// on the configured backend.
func openDatabaseStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.GameStore, storage.AlignedPointStore, func(), error) {
	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}
	games := pgstore.NewGameStore(pool)

	switch cfg.Storage.Backend {
	case "postgres":
		return games, pgstore.NewAlignedPointStore(pool), pool.Close, nil

	case "clickhouse":
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouse(ctx, conn); err != nil {
			conn.Close()
			pool.Close()
			return nil, nil, nil, fmt.Errorf("apply clickhouse migrations: %w", err)
		}
		cleanup := func() {
			conn.Close()
			pool.Close()
		}
		logger.Info("using clickhouse for aligned series")
		return games, chstore.NewAlignedPointStore(conn), cleanup, nil

	default:
		pool.Close()
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
