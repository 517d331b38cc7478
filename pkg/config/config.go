package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Bidding      BiddingConfig
	Settlement   SettlementConfig
	Customers     CustomersConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BIDZONE_APP_ENV" required:"true"`
	Port         string `envconfig:"BIDZONE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BIDZONE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIDZONE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BIDZONE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BIDZONE_DB_DSN"`
	Driver string `envconfig:"BIDZONE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BIDZONE_DB_HOST"`
	LegacyPort     int    `envconfig:"BIDZONE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BIDZONE_DB_USER"`
	LegacyPassword string `envconfig:"BIDZONE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BIDZONE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BIDZONE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIDZONE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIDZONE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIDZONE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIDZONE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BIDZONE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BIDZONE_REDIS_ADDR"`
	Password     string        `envconfig:"BIDZONE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIDZONE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIDZONE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIDZONE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIDZONE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIDZONE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIDZONE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BIDZONE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BIDZONE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BIDZONE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"BIDZONE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// BiddingConfig tunes the bid engine's contention handling.
type BiddingConfig struct {
	MaxRetries   int           `envconfig:"BIDZONE_BID_MAX_RETRIES" default:"3"`
	RetryBackoff time.Duration `envconfig:"BIDZONE_BID_RETRY_BACKOFF" default:"25ms"`
}

// SettlementConfig tunes the periodic sweep that closes ended auctions.
type SettlementConfig struct {
	Interval time.Duration `envconfig:"BIDZONE_SETTLEMENT_INTERVAL" default:"1m"`
	Window   time.Duration `envconfig:"BIDZONE_SETTLEMENT_WINDOW" default:"1m"`
}

type CustomersConfig struct {
	InitialCoinGrant int64 `envconfig:"BIDZONE_INITIAL_COIN_GRANT" default:"10000"`
}

// AuthRateLimitConfig throttles registration traffic per IP and per email.
type AuthRateLimitConfig struct {
	RegisterWindow     time.Duration `envconfig:"BIDZONE_REGISTER_RATE_WINDOW" default:"1m"`
	RegisterIPLimit    int           `envconfig:"BIDZONE_REGISTER_RATE_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"BIDZONE_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BIDZONE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BIDZONE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BIDZONE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BIDZONE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AuctionTopic        string `envconfig:"BIDZONE_PUBSUB_AUCTION_TOPIC" default:"bz-auction-events"`
	AuctionSubscription string `envconfig:"BIDZONE_PUBSUB_AUCTION_SUBSCRIPTION"`
	LedgerTopic         string `envconfig:"BIDZONE_PUBSUB_LEDGER_TOPIC" default:"bz-ledger-events"`
	LedgerSubscription  string `envconfig:"BIDZONE_PUBSUB_LEDGER_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BIDZONE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BIDZONE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BIDZONE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
