package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	API        API        `mapstructure:"api"`
	Statistics Statistics `mapstructure:"statistics"`
	Cache      Cache      `mapstructure:"cache"`
	Dashboard  Dashboard  `mapstructure:"dashboard"`
	Alert      Alert      `mapstructure:"alert"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port       int           `mapstructure:"port"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	RateBurst  int           `mapstructure:"rate_burst"`
	RateExpire time.Duration `mapstructure:"rate_expire"`
}

// Statistics describes the upstream trading-account statistics endpoint.
type Statistics struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	DefaultTimeRange int           `mapstructure:"default_time_range"`
}

// Cache configures the in-memory store holding dashboard sessions.
type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Dashboard struct {
	TimeZone      string `mapstructure:"time_zone"`
	ChartWidth    int    `mapstructure:"chart_width"`
	ChartHeight   int    `mapstructure:"chart_height"`
	SessionCookie string `mapstructure:"session_cookie"`
}

type Alert struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	MinLevel   string        `mapstructure:"min_level"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.rate_burst", 30)
	v.SetDefault("api.rate_expire", 3*time.Minute)

	v.SetDefault("statistics.base_url", "http://localhost:5010")
	v.SetDefault("statistics.timeout", 15*time.Second)
	v.SetDefault("statistics.max_request_per_min", 60)
	v.SetDefault("statistics.default_time_range", 30)

	v.SetDefault("cache.default_expiration", 30*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)

	v.SetDefault("dashboard.time_zone", "UTC")
	v.SetDefault("dashboard.chart_width", 1024)
	v.SetDefault("dashboard.chart_height", 300)
	v.SetDefault("dashboard.session_cookie", "stats_session")

	v.SetDefault("alert.min_level", "error")
	v.SetDefault("alert.timeout", 5*time.Second)
}

// Load reads config.yaml from the given directories (the working directory
// when none are given), then applies .env and environment overrides.
func Load(paths ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Statistics.MaxRequestPerMin <= 0 {
		return nil, fmt.Errorf("statistics.max_request_per_min must be positive, got %d", cfg.Statistics.MaxRequestPerMin)
	}

	return &cfg, nil
}

// DisplayLocation resolves the dashboard time zone, falling back to UTC.
func (c *Config) DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(c.Dashboard.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
