package bootstrap

import (
	"context"
	"log/slog"

	"storefront-core/internal/infra/db"
	"storefront-core/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.DB.MigrateOnStart {
		if err := db.Migrate(cfg.DB.BuildDSN()); err != nil {
			cleanup()
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
