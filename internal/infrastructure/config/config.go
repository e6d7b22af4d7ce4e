package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Zatca       ZatcaConfig
	Storage     StorageConfig
	JWT         JWTConfig
	Telemetry   TelemetryConfig
	Idempotency IdempotencyConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite, mysql
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path, ":memory:" allowed
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool // apply schema migrations on server start
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	TrustedProxies   []string
	RateLimit        float64 // requests per second per client IP, 0 disables
	RateBurst        int
}

// ZatcaConfig holds the compliance gateway client settings
type ZatcaConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
}

// JWTConfig holds bearer token settings
type JWTConfig struct {
	Enabled    bool
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
}

// IdempotencyConfig holds the Idempotency-Key guard settings
type IdempotencyConfig struct {
	TTL           time.Duration
	RequireShared bool // refuse to start without redis
}

// Load reads configuration. Priority, highest first:
//  1. environment variables with the EINV_ prefix (EINV_DATABASE_PASSWORD)
//  2. a .env file in the working directory
//  3. config.toml
//  4. built-in defaults
func Load() (*Config, error) {
	// a missing .env is fine; existing variables win over the file
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("EINV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			RateLimit:        v.GetFloat64("http.rate_limit"),
			RateBurst:        v.GetInt("http.rate_burst"),
		},
		Zatca: ZatcaConfig{
			BaseURL:   v.GetString("zatca.base_url"),
			Timeout:   v.GetDuration("zatca.timeout"),
			RateLimit: v.GetFloat64("zatca.rate_limit"),
			Burst:     v.GetInt("zatca.burst"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			Endpoint:        v.GetString("storage.endpoint"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
		},
		JWT: JWTConfig{
			Enabled:    v.GetBool("jwt.enabled"),
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
		Idempotency: IdempotencyConfig{
			TTL:           v.GetDuration("idempotency.ttl"),
			RequireShared: v.GetBool("idempotency.require_shared"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "einvoice-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		if cfg.Database.Driver == DriverMySQL {
			cfg.Database.Port = 3306
		} else {
			cfg.Database.Port = 5432
		}
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "einvoice"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "einvoice.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30 * time.Minute
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20
	}

	if cfg.Zatca.Timeout == 0 {
		cfg.Zatca.Timeout = 30 * time.Second
	}
	if cfg.Zatca.Burst == 0 {
		cfg.Zatca.Burst = 5
	}

	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "einvoice"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "einvoice-backend"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = time.Hour
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}

	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("database.driver must be one of postgres, sqlite, mysql, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Zatca.BaseURL == "" {
		return fmt.Errorf("zatca.base_url is required")
	}
	if u, err := url.Parse(c.Zatca.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("zatca.base_url must be an absolute URL, got %q", c.Zatca.BaseURL)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit cannot be negative")
	}
	if c.Zatca.RateLimit < 0 {
		return fmt.Errorf("zatca.rate_limit cannot be negative")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required when jwt.enabled is true")
	}

	if c.App.IsProduction() {
		if c.JWT.Enabled && len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == DriverPostgres && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}
	return nil
}

// DSN returns the connection string for the configured driver
func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverSQLite:
		return d.Path
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	default:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:   d.DBName,
		}
		q := u.Query()
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
		return u.String()
	}
}
