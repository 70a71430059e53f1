package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Midtrans MidtransConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"BELANJA_APP_ENV" required:"true"`
	Port         string `envconfig:"BELANJA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BELANJA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BELANJA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BELANJA_DB_DSN"`
	Driver string `envconfig:"BELANJA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BELANJA_DB_HOST"`
	LegacyPort     int    `envconfig:"BELANJA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BELANJA_DB_USER"`
	LegacyPassword string `envconfig:"BELANJA_DB_PASSWORD"`
	LegacyName     string `envconfig:"BELANJA_DB_NAME"`
	LegacySSLMode  string `envconfig:"BELANJA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BELANJA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BELANJA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BELANJA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BELANJA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BELANJA_REDIS_URL"`
	Address      string        `envconfig:"BELANJA_REDIS_ADDR"`
	Password     string        `envconfig:"BELANJA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BELANJA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BELANJA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BELANJA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BELANJA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BELANJA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BELANJA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BELANJA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BELANJA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BELANJA_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CheckoutConfig carries the pricing policy knobs.
type CheckoutConfig struct {
	TaxRatePercent        int    `envconfig:"BELANJA_CHECKOUT_TAX_RATE_PERCENT" default:"10"`
	FreeShippingThreshold string `envconfig:"BELANJA_CHECKOUT_FREE_SHIPPING_THRESHOLD" default:"50"`
	FlatShippingFee       string `envconfig:"BELANJA_CHECKOUT_FLAT_SHIPPING_FEE" default:"5"`
	OrderNumberAttempts   int    `envconfig:"BELANJA_CHECKOUT_ORDER_NUMBER_ATTEMPTS" default:"10"`
}

type MidtransConfig struct {
	ServerKey string        `envconfig:"BELANJA_MIDTRANS_SERVER_KEY" required:"true"`
	Env       string        `envconfig:"BELANJA_MIDTRANS_ENV" default:"sandbox"`
	Timeout   time.Duration `envconfig:"BELANJA_MIDTRANS_TIMEOUT" default:"15s"`
}

// Environment returns the normalized Midtrans environment (sandbox/production).
func (m MidtransConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(m.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BELANJA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BELANJA_AUTO_MIGRATE" default:"false"`
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
