package shared

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv          string `mapstructure:"app_env"`
	LogLevel        string `mapstructure:"log_level"`
	HTTPAddr        string `mapstructure:"http_addr"`
	MetricsAddr     string `mapstructure:"metrics_addr"`
	MySQLDSN        string `mapstructure:"mysql_dsn"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisDB         int    `mapstructure:"redis_db"`
	RedisPass       string `mapstructure:"redis_password"`
	ReportsBase     string `mapstructure:"reports_base_url"`
	ReportsKey      string `mapstructure:"reports_api_key"`
	ReportsRPS      int    `mapstructure:"reports_rps"`
	Workers         int    `mapstructure:"ingest_workers"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

var defaults = map[string]any{
	"app_env":           "prod",
	"log_level":         "info",
	"http_addr":         ":8080",
	"metrics_addr":      ":9100",
	"mysql_dsn":         "root:root@tcp(localhost:3306)/landlords?parseTime=true&charset=utf8mb4&loc=UTC",
	"redis_addr":        "localhost:6379",
	"redis_db":          0,
	"redis_password":    "",
	"reports_base_url":  "https://data.cityofnewyork.us/resource",
	"reports_api_key":   "",
	"reports_rps":       5,
	"ingest_workers":    8,
	"cache_ttl_seconds": 900,
}

// Load reads defaults, then the optional config file, then environment
// variables (HTTP_ADDR, MYSQL_DSN, ...). Later sources win.
func Load(configFile string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if c.ReportsKey == "" {
		log.Warn().Msg("REPORTS_API_KEY is empty")
	}
	return c, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, errors.New("ingest_workers must be at least 1"))
	}
	if c.CacheTTLSeconds < 0 {
		errs = append(errs, errors.New("cache_ttl_seconds must not be negative"))
	}
	if c.ReportsRPS < 1 {
		errs = append(errs, errors.New("reports_rps must be at least 1"))
	}
	return errors.Join(errs...)
}
