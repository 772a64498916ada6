package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev     = "development"
	AppEnvStaging = "staging"
	AppEnvProd    = "production"
)

// Environment variable names shared with tests and tooling.
const (
	EnvAppEnv                 = "CHURCHHUB_APP_ENV"
	EnvPort                   = "CHURCHHUB_APP_PORT"
	EnvDBDSN                  = "CHURCHHUB_DB_DSN"
	EnvRedisURL               = "CHURCHHUB_REDIS_URL"
	EnvJWTSecret              = "CHURCHHUB_JWT_SECRET"
	EnvJWTIssuer              = "CHURCHHUB_JWT_ISSUER"
	EnvJWTExpMins             = "CHURCHHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CHURCHHUB_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCSBucket              = "CHURCHHUB_GCS_BUCKET_NAME"
	EnvPaystackSecret         = "CHURCHHUB_PAYSTACK_SECRET_KEY"
	EnvFlutterwaveSecret      = "CHURCHHUB_FLUTTERWAVE_SECRET_KEY"
)
