package bootstrap

import (
	"storefront-core/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	RedisModule,
	JWTModule,
	GatewayModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
