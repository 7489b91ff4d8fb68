package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/platform/memory"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/platform/sqlite"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// openStore opens the configured backend and brings its schema up to date.
// The caller owns the returned store and must Close it.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (store.UserStore, error) {
	log = log.With(slog.String("component", "database"), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory store; data is lost on restart")
		return memory.NewUserStore(), nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database ready")
		return postgres.NewUserStore(db, log), nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database ready")
		return sqlite.NewUserStore(db, log), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
