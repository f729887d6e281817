package components

import (
	"storefront-core/internal/infra/marketplace"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/usecase/commands"
	"storefront-core/internal/usecase/queries"
	"storefront-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) marketplace.FlatRatePolicy {
		return marketplace.NewFlatRatePolicy(cfg.Checkout)
	},
	fx.Annotate(
		marketplace.NewFlatRateShipping,
		fx.As(new(shared.ShippingCalculator)),
	),
	fx.Annotate(
		func(policy marketplace.FlatRatePolicy, cfg config.Config) *marketplace.BreakdownCalculator {
			return marketplace.NewBreakdownCalculator(policy, cfg.Checkout)
		},
		fx.As(new(shared.SellerBreakdownCalculator)),
	),
	fx.Annotate(
		marketplace.NewOrderNumberGenerator,
		fx.As(new(shared.OrderNumberGenerator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCartCommands,
		commands.NewCouponCommands,
		commands.NewWalletLedger,
		commands.NewOrderCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewPaymentQueries,
	),
)
