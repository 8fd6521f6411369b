package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Pricing   PricingConfig
	Features  FeatureFlagsConfig
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
	Env          string `envconfig:"BAZAARI_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZAARI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZAARI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZAARI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAZAARI_DB_DSN"`
	Driver string `envconfig:"BAZAARI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAZAARI_DB_HOST"`
	LegacyPort     int    `envconfig:"BAZAARI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAZAARI_DB_USER"`
	LegacyPassword string `envconfig:"BAZAARI_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAZAARI_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAZAARI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAZAARI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAZAARI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAZAARI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZAARI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZAARI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAZAARI_REDIS_ADDR"`
	Password     string        `envconfig:"BAZAARI_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZAARI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZAARI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZAARI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZAARI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZAARI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZAARI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAZAARI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAZAARI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAZAARI_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"BAZAARI_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAZAARI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAZAARI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAZAARI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAZAARI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAZAARI_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BAZAARI_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BAZAARI_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BAZAARI_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BAZAARI_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BAZAARI_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BAZAARI_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PricingConfig struct {
	Currency      string `envconfig:"BAZAARI_PRICING_CURRENCY" default:"INR"`
	DisplayPlaces int32  `envconfig:"BAZAARI_PRICING_DISPLAY_PLACES" default:"2"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BAZAARI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BAZAARI_AUTO_MIGRATE" default:"false"`
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
