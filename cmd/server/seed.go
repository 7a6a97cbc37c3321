package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/tablekit/internal/config"
	"github.com/JonMunkholm/tablekit/internal/core/tables"
)

// loadUsers reads the users seed from the configured source. Postgres is
// read once; the pool is closed before serving starts.
func loadUsers(ctx context.Context, cfg *config.SeedConfig) ([]tables.User, error) {
	switch cfg.SeedSource() {
	case "file":
		users, err := tables.LoadUsersFile(cfg.File)
		if err != nil {
			return nil, err
		}
		slog.Info("seed loaded", "source", "file", "path", cfg.File, "rows", len(users))
		return users, nil

	case "postgres":
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("seed: connect: %w", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("seed: ping: %w", err)
		}

		users, err := tables.LoadUsersPostgres(ctx, pool, cfg.Table)
		if err != nil {
			return nil, err
		}
		slog.Info("seed loaded", "source", "postgres", "table", cfg.Table, "rows", len(users))
		return users, nil

	default:
		users := tables.DefaultUsers()
		slog.Info("seed loaded", "source", "builtin", "rows", len(users))
		return users, nil
	}
}
