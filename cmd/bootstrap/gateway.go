package bootstrap

import (
	"storefront-core/internal/infra/gateway"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		func(cfg config.Config) gateway.IntentClient {
			return gateway.NewStripeClient(cfg.Gateway)
		},
		fx.Annotate(
			gateway.NewStripeGateway,
			fx.As(new(shared.CardGateway)),
		),
		fx.Annotate(
			func(cfg config.Config) *gateway.WebhookVerifier {
				return gateway.NewWebhookVerifier(cfg.Gateway)
			},
			fx.As(new(shared.WebhookVerifier)),
		),
	),
)
