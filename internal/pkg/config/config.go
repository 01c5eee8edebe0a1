package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Google     GoogleConfig     `mapstructure:"google"`
	PhotoQuota PhotoQuotaConfig `mapstructure:"photo_quota"`
	Email      EmailConfig      `mapstructure:"email"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Nearby     NearbyConfig     `mapstructure:"nearby"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`
	WriteTimeout   int    `mapstructure:"write_timeout"`
	RequestTimeout int    `mapstructure:"request_timeout"`
	AllowOrigins   string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort     string `mapstructure:"host_port"`
	Namespace    string `mapstructure:"namespace"`
	TaskQueue    string `mapstructure:"task_queue"`
	CronSchedule string `mapstructure:"cron_schedule"`
}

// GoogleConfig configures the Places and Weather API clients.
type GoogleConfig struct {
	PlacesAPIKey   string `mapstructure:"places_api_key"`
	PlacesBaseURL  string `mapstructure:"places_base_url"`
	WeatherAPIKey  string `mapstructure:"weather_api_key"`
	WeatherBaseURL string `mapstructure:"weather_base_url"`
	MaxPhotos      int    `mapstructure:"max_photos"`
	HTTPTimeout    int    `mapstructure:"http_timeout"`
}

// PhotoQuotaConfig sets the ceilings of the billed photo API.
type PhotoQuotaConfig struct {
	Hourly  int `mapstructure:"hourly"`
	Daily   int `mapstructure:"daily"`
	Monthly int `mapstructure:"monthly"`
}

type EmailConfig struct {
	Region     string `mapstructure:"region"`
	From       string `mapstructure:"from"`
	AdminEmail string `mapstructure:"admin_email"`
}

// SecretsConfig holds shared secrets for the operational endpoints.
// An empty secret disables the corresponding check.
type SecretsConfig struct {
	Cron      string `mapstructure:"cron"`
	RateLimit string `mapstructure:"rate_limit"`
}

// NearbyConfig tunes proximity search.
type NearbyConfig struct {
	StoreTimeoutMs int `mapstructure:"store_timeout_ms"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15)
	v.SetDefault("server.allow_origins", "http://localhost:3000, https://golfkart.no, https://www.golfkart.no")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "golfkart")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "golfkart")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "weather-refresh")
	v.SetDefault("temporal.cron_schedule", "0 6,18 * * *")
	v.SetDefault("google.places_base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.weather_base_url", "https://weather.googleapis.com/v1")
	v.SetDefault("google.max_photos", 4)
	v.SetDefault("google.http_timeout", 10)
	v.SetDefault("photo_quota.hourly", 10)
	v.SetDefault("photo_quota.daily", 30)
	v.SetDefault("photo_quota.monthly", 900)
	v.SetDefault("email.region", "eu-north-1")
	v.SetDefault("email.from", "golfkart.no <post@golfkart.no>")
	v.SetDefault("email.admin_email", "post@golfkart.no")
	v.SetDefault("nearby.store_timeout_ms", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GOLFKART_DATABASE_HOST → database.host
	v.SetEnvPrefix("GOLFKART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.PhotoQuota.Hourly <= 0 || c.PhotoQuota.Daily <= 0 || c.PhotoQuota.Monthly <= 0 {
		errs = append(errs, "photo_quota ceilings must be positive")
	}
	if c.PhotoQuota.Hourly > c.PhotoQuota.Daily || c.PhotoQuota.Daily > c.PhotoQuota.Monthly {
		errs = append(errs, "photo_quota ceilings must satisfy hourly <= daily <= monthly")
	}
	if c.Google.MaxPhotos <= 0 {
		errs = append(errs, "google.max_photos must be positive")
	}
	if c.Nearby.StoreTimeoutMs <= 0 {
		errs = append(errs, "nearby.store_timeout_ms must be positive")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
