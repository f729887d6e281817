package bootstrap

import (
	"log/slog"

	"storefront-core/internal/handler/middleware"
	"storefront-core/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewSlogLogger(cfg.Log)
}
