package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds the optional Postgres connection settings for the
// pricing-profile store. An empty Host disables the store and the service
// falls back to the compiled-in profiles.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Enabled reports whether a database has been configured at all.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// ServiceConfig holds all configuration for the estimates service.
//
// Every external backend (geocoding key, fare backend, database, redis,
// kafka) is optional: absence degrades the corresponding feature rather than
// failing startup.
type ServiceConfig struct {
	Port   string
	AppEnv string

	// GeoapifyKey authorizes both the autocomplete and routing upstream.
	GeoapifyKey     string
	GeoapifyBaseURL string

	// FareAPIBaseURL points at the operator-run fare aggregation backend.
	// Empty means every estimate uses the local pricing heuristic.
	FareAPIBaseURL string

	// UpstreamTimeout bounds each outbound call to the geocoding, routing
	// and fare backends. The upstreams publish no SLA.
	UpstreamTimeout time.Duration

	DB DatabaseConfig

	RedisAddr            string
	AutocompleteCacheTTL time.Duration

	KafkaBrokers []string
}

// Load reads configuration from ESTIMATES_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("ESTIMATES")
	v.AutomaticEnv()

	v.SetDefault("PORT", ":8084")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("GEOAPIFY_BASE_URL", "https://api.geoapify.com")
	v.SetDefault("UPSTREAM_TIMEOUT", "8s")
	v.SetDefault("AUTOCOMPLETE_CACHE_TTL", "60s")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")

	upstreamTimeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid ESTIMATES_UPSTREAM_TIMEOUT: %w", err)
	}
	cacheTTL, err := time.ParseDuration(v.GetString("AUTOCOMPLETE_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid ESTIMATES_AUTOCOMPLETE_CACHE_TTL: %w", err)
	}

	port := v.GetString("PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	var brokers []string
	if raw := v.GetString("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &ServiceConfig{
		Port:            port,
		AppEnv:          v.GetString("APP_ENV"),
		GeoapifyKey:     v.GetString("GEOAPIFY_KEY"),
		GeoapifyBaseURL: strings.TrimRight(v.GetString("GEOAPIFY_BASE_URL"), "/"),
		FareAPIBaseURL:  strings.TrimRight(v.GetString("FARE_API_BASE_URL"), "/"),
		UpstreamTimeout: upstreamTimeout,
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RedisAddr:            v.GetString("REDIS_ADDR"),
		AutocompleteCacheTTL: cacheTTL,
		KafkaBrokers:         brokers,
	}, nil
}
