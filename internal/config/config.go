package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Suggest  SuggestConfig  `mapstructure:"suggest"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	LogFormat      string   `mapstructure:"log_format"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction 判断当前是否运行在生产环境。
func (a APIConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(a.Environment), "production")
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr 返回 host:port 形式的地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// AuthConfig 描述外部认证服务签发的访问令牌如何校验。
// JWKSURL 优先；否则使用共享的 HS256 JWTSecret。
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	JWKSURL   string `mapstructure:"jwks_url"`
	Audience  string `mapstructure:"audience"`
}

// SuggestConfig contains the AI suggestion service endpoint and limits.
type SuggestConfig struct {
	URL              string        `mapstructure:"url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RateLimitPerHour int           `mapstructure:"rate_limit_per_hour"`
}

// ClamdConfig 为空地址时跳过病毒扫描。
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// WorkerConfig contains asynq worker settings.
type WorkerConfig struct {
	Concurrency    int `mapstructure:"concurrency"`
	PreviewQuality int `mapstructure:"preview_quality"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration from environment variables (with optional defaults).
// A local .env file is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local", ".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.AllowedOrigins = splitList(v.GetString("api.allowed_origins"))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.log_format", "text")
	v.SetDefault("api.allowed_origins", "http://localhost:3000")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "studentfolio")
	v.SetDefault("database.user", "studentfolio")
	v.SetDefault("database.password", "studentfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_sql", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "certificates")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("suggest.timeout", 30*time.Second)
	v.SetDefault("suggest.rate_limit_per_hour", 30)
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.preview_quality", 80)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                    "API_PORT",
		"api.environment":             "APP_ENV",
		"api.log_format":              "LOG_FORMAT",
		"api.allowed_origins":         "CORS_ALLOWED_ORIGINS",
		"database.host":               "DATABASE_HOST",
		"database.port":               "DATABASE_PORT",
		"database.name":               "POSTGRES_DB",
		"database.user":               "POSTGRES_USER",
		"database.password":           "POSTGRES_PASSWORD",
		"database.sslmode":            "DATABASE_SSLMODE",
		"database.log_sql":            "DATABASE_LOG_SQL",
		"redis.host":                  "REDIS_HOST",
		"redis.port":                  "REDIS_PORT",
		"minio.endpoint":              "MINIO_ENDPOINT",
		"minio.public_endpoint":       "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":         "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":     "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":               "MINIO_USE_SSL",
		"minio.bucket":                "MINIO_BUCKET",
		"minio.region":                "MINIO_REGION",
		"minio.bucket_lookup":         "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":    "MINIO_AUTO_CREATE_BUCKET",
		"auth.jwt_secret":             "AUTH_JWT_SECRET",
		"auth.jwks_url":               "AUTH_JWKS_URL",
		"auth.audience":               "AUTH_AUDIENCE",
		"suggest.url":                 "SUGGEST_URL",
		"suggest.timeout":             "SUGGEST_TIMEOUT",
		"suggest.rate_limit_per_hour": "SUGGEST_RATE_LIMIT_PER_HOUR",
		"clamd.addr":                  "CLAMD_ADDR",
		"sentry.dsn":                  "SENTRY_DSN",
		"worker.concurrency":          "WORKER_CONCURRENCY",
		"worker.preview_quality":      "WORKER_PREVIEW_QUALITY",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWKSURL == "" {
		return errors.New("auth jwt secret or jwks url is required")
	}
	if cfg.Suggest.Timeout <= 0 {
		return errors.New("suggest timeout must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	return nil
}
