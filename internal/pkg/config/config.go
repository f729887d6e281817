package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Wallet   WalletConfig
	Payment  PaymentConfig
	Gateway  GatewayConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           string `envconfig:"DB_PORT" default:"5432"`
	User           string `envconfig:"DB_USER" required:"true"`
	Password       string `envconfig:"DB_PASSWORD" required:"true"`
	DBName         string `envconfig:"DB_NAME" required:"true"`
	SSLMode        string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone       string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
	MaxConns       int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	MigrateOnStart bool   `envconfig:"DB_MIGRATE_ON_START" default:"true"`
}

type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD" default:""`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"storefront:"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type JWTConfig struct {
	Secret              string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration time.Duration `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
}

type CheckoutConfig struct {
	TaxRate               decimal.Decimal `envconfig:"TAX_RATE" default:"0.18"`
	PriceDriftThreshold   decimal.Decimal `envconfig:"PRICE_DRIFT_THRESHOLD" default:"0.10"`
	ShippingFlatFee       decimal.Decimal `envconfig:"SHIPPING_FLAT_FEE" default:"40"`
	ShippingFreeThreshold decimal.Decimal `envconfig:"SHIPPING_FREE_THRESHOLD" default:"500"`
	CommissionRate        decimal.Decimal `envconfig:"MARKETPLACE_COMMISSION_RATE" default:"0.10"`
}

type WalletConfig struct {
	MaxBalance      decimal.Decimal `envconfig:"WALLET_MAX_BALANCE" default:"100000"`
	TopUpMin        decimal.Decimal `envconfig:"WALLET_TOPUP_MIN" default:"10"`
	TopUpMax        decimal.Decimal `envconfig:"WALLET_TOPUP_MAX" default:"50000"`
	Currency        string          `envconfig:"WALLET_CURRENCY" default:"INR"`
	TopUpSessionTTL time.Duration   `envconfig:"WALLET_TOPUP_SESSION_TTL" default:"1h"`
}

type PaymentConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PAYMENT_IDEMPOTENCY_TTL" default:"600s"`
}

type GatewayConfig struct {
	SecretKey     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
			MaxConns: 5,
		},
		Redis: RedisConfig{
			Addr:      "localhost:16379",
			KeyPrefix: "test:",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:              "test-secret",
			AccessTokenDuration: 15 * time.Minute,
		},
		Checkout: CheckoutConfig{
			TaxRate:               decimal.RequireFromString("0.18"),
			PriceDriftThreshold:   decimal.RequireFromString("0.10"),
			ShippingFlatFee:       decimal.NewFromInt(40),
			ShippingFreeThreshold: decimal.NewFromInt(500),
			CommissionRate:        decimal.RequireFromString("0.10"),
		},
		Wallet: WalletConfig{
			MaxBalance:      decimal.NewFromInt(100000),
			TopUpMin:        decimal.NewFromInt(10),
			TopUpMax:        decimal.NewFromInt(50000),
			Currency:        "INR",
			TopUpSessionTTL: time.Hour,
		},
		Payment: PaymentConfig{
			IdempotencyTTL: 600 * time.Second,
		},
		Gateway: GatewayConfig{
			SecretKey:     "sk_test_dummy",
			WebhookSecret: "whsec_test_dummy",
		},
	}
}
