package config

// EnvPrefix is the envconfig prefix shared by every BAZAARI_* variable.
const EnvPrefix = "bazaari"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "BAZAARI_APP_ENV"
	EnvAppPort    = "BAZAARI_APP_PORT"
	EnvDBDSN      = "BAZAARI_DB_DSN"
	EnvDBHost     = "BAZAARI_DB_HOST"
	EnvDBUser     = "BAZAARI_DB_USER"
	EnvDBName     = "BAZAARI_DB_NAME"
	EnvRedisURL   = "BAZAARI_REDIS_URL"
	EnvJWTSecret  = "BAZAARI_JWT_SECRET"
	EnvJWTIssuer  = "BAZAARI_JWT_ISSUER"
	EnvJWTExpMins = "BAZAARI_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
