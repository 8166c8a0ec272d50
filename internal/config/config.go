// Package config loads and validates application configuration from environment
// variables, an optional .env file, and an optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies embedded migrations before serving.
	MigrateOnStart bool

	// RedisURL enables the shared rate limiter when set; otherwise the
	// limiter keeps its counters in process memory.
	RedisURL string

	// RateLimit is the number of write requests a client may make per minute.
	// Zero disables rate limiting.
	RateLimit int

	// KafkaBrokers enables booking event publishing when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	Telemetry Telemetry

	// Settings are the business defaults read from SETTINGS_FILE.
	Settings Settings
}

// Telemetry configures OpenTelemetry tracing.
type Telemetry struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string // host:port
	SampleRatio  float64
}

// Settings are business defaults that change more often than code.
type Settings struct {
	Pricing    PricingSettings `yaml:"pricing"`
	Categories []string        `yaml:"categories"`
}

// PricingSettings feed the booking quote when a request leaves a rate out.
type PricingSettings struct {
	PricePerMile   float64 `yaml:"price_per_mile"`
	FreeMiles      float64 `yaml:"free_miles"`
	IcePricePerBag float64 `yaml:"ice_price_per_bag"`
}

// DefaultSettings is used when SETTINGS_FILE is unset, and fills any pricing
// field the file leaves at zero.
func DefaultSettings() Settings {
	return Settings{
		Pricing: PricingSettings{
			PricePerMile:   1.25,
			FreeMiles:      20,
			IcePricePerBag: 5,
		},
		Categories: []string{"5x10", "75-slant", "model-100"},
	}
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win. Returns an error listing every required
// variable that is not set and every variable that fails to parse.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", err)
	}

	var (
		missing []string
		invalid []string
	)

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisURL:     os.Getenv("REDIS_URL"),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "bookings"),
		Telemetry: Telemetry{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "rentals-admin"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	parse := func(key string, fn func(string) error) {
		if v := os.Getenv(key); v != "" {
			if err := fn(v); err != nil {
				invalid = append(invalid, key)
			}
		}
	}

	cfg.MaxBodyBytes = 1 << 20
	parse("MAX_BODY_BYTES", func(v string) (err error) {
		cfg.MaxBodyBytes, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("MIGRATE_ON_START", func(v string) (err error) {
		cfg.MigrateOnStart, err = strconv.ParseBool(v)
		return err
	})
	cfg.RateLimit = 120
	parse("RATE_LIMIT", func(v string) (err error) {
		cfg.RateLimit, err = strconv.Atoi(v)
		return err
	})
	parse("OTEL_ENABLED", func(v string) (err error) {
		cfg.Telemetry.Enabled, err = strconv.ParseBool(v)
		return err
	})
	cfg.Telemetry.SampleRatio = 1
	parse("OTEL_SAMPLING_RATIO", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return errors.New("out of range")
		}
		cfg.Telemetry.SampleRatio = f
		return nil
	})

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	settings, err := LoadSettings(os.Getenv("SETTINGS_FILE"))
	if err != nil {
		return Config{}, err
	}
	cfg.Settings = settings

	return cfg, nil
}

// LoadSettings reads a YAML settings file, expanding ${VAR} references from
// the environment first. An empty path returns DefaultSettings.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config.LoadSettings: %w", err)
	}

	var file Settings
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return Settings{}, fmt.Errorf("config.LoadSettings: parse %s: %w", path, err)
	}

	if file.Pricing.PricePerMile > 0 {
		s.Pricing.PricePerMile = file.Pricing.PricePerMile
	}
	if file.Pricing.FreeMiles > 0 {
		s.Pricing.FreeMiles = file.Pricing.FreeMiles
	}
	if file.Pricing.IcePricePerBag > 0 {
		s.Pricing.IcePricePerBag = file.Pricing.IcePricePerBag
	}
	if len(file.Categories) > 0 {
		s.Categories = file.Categories
	}
	return s, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
