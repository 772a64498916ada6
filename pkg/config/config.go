package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Paystack      PaystackConfig
	Flutterwave   FlutterwaveConfig
	Attendance    AttendanceConfig
	Profile       ProfileConfig
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
	Env          string `envconfig:"CHURCHHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"CHURCHHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHURCHHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHURCHHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHURCHHUB_DB_DSN"`
	Driver string `envconfig:"CHURCHHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CHURCHHUB_DB_HOST"`
	Port     int    `envconfig:"CHURCHHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"CHURCHHUB_DB_USER"`
	Password string `envconfig:"CHURCHHUB_DB_PASSWORD"`
	Name     string `envconfig:"CHURCHHUB_DB_NAME"`
	SSLMode  string `envconfig:"CHURCHHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHURCHHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHURCHHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHURCHHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHURCHHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either CHURCHHUB_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CHURCHHUB_REDIS_URL" required:"true"`
	Password     string        `envconfig:"CHURCHHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHURCHHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHURCHHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHURCHHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHURCHHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHURCHHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHURCHHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CHURCHHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CHURCHHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CHURCHHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CHURCHHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int           `envconfig:"CHURCHHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int           `envconfig:"CHURCHHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int           `envconfig:"CHURCHHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int           `envconfig:"CHURCHHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int           `envconfig:"CHURCHHUB_ARGON_KEY_LEN" default:"32"`
	ResetTokenTTL    time.Duration `envconfig:"CHURCHHUB_PASSWORD_RESET_TOKEN_TTL" default:"30m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CHURCHHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CHURCHHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CHURCHHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CHURCHHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CHURCHHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CHURCHHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CHURCHHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CHURCHHUB_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CHURCHHUB_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CHURCHHUB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CHURCHHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"CHURCHHUB_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"CHURCHHUB_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"CHURCHHUB_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type MediaConfig struct {
	MaxPhotoUploadMB int `envconfig:"CHURCHHUB_MAX_PHOTO_UPLOAD_MB" default:"10"`
	MaxMediaUploadMB int `envconfig:"CHURCHHUB_MAX_MEDIA_UPLOAD_MB" default:"500"`
}

type PaystackConfig struct {
	SecretKey string `envconfig:"CHURCHHUB_PAYSTACK_SECRET_KEY"`
	PublicKey string `envconfig:"CHURCHHUB_PAYSTACK_PUBLIC_KEY"`
	BaseURL   string `envconfig:"CHURCHHUB_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
}

type FlutterwaveConfig struct {
	SecretKey   string `envconfig:"CHURCHHUB_FLUTTERWAVE_SECRET_KEY"`
	PublicKey   string `envconfig:"CHURCHHUB_FLUTTERWAVE_PUBLIC_KEY"`
	BaseURL     string `envconfig:"CHURCHHUB_FLUTTERWAVE_BASE_URL" default:"https://api.flutterwave.com/v3"`
	RedirectURL string `envconfig:"CHURCHHUB_FLUTTERWAVE_REDIRECT_URL"`
}

type AttendanceConfig struct {
	// CodeAttempts bounds the re-roll loop when a generated join code
	// collides with another active event.
	CodeAttempts int `envconfig:"CHURCHHUB_ATTENDANCE_CODE_ATTEMPTS" default:"10"`
}

type ProfileConfig struct {
	// FetchRetryDelay is the pause before the single retry of a profile
	// read that misses immediately after registration.
	FetchRetryDelay time.Duration `envconfig:"CHURCHHUB_PROFILE_FETCH_RETRY_DELAY" default:"300ms"`
}
