package components

import (
	"storefront-core/internal/infra/db"
	"storefront-core/internal/infra/kvstore"
	"storefront-core/internal/infra/readstore"
	"storefront-core/internal/infra/repository"
	"storefront-core/internal/infra/uow"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/usecase/queries"
	"storefront-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(shared.Catalog)),
		),
		fx.Annotate(
			readstore.NewAddressReadStore,
			fx.As(new(shared.AddressBook)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewStockRepository,
			fx.As(new(shared.StockMutator)),
		),
		fx.Annotate(
			NewKeyStore,
			fx.As(new(shared.KeyStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewKeyStore(client *redis.Client, cfg config.Config) *kvstore.RedisKeyStore {
	return kvstore.NewRedisKeyStore(client, cfg.Redis.KeyPrefix)
}
