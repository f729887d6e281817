package bootstrap

import (
	"storefront-core/internal/handler/middleware"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		fx.Annotate(
			func(s *jwt.Service) *jwt.Service { return s },
			fx.As(new(middleware.TokenAuthenticator)),
		),
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenDuration)
}
