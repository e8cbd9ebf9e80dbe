package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const developmentEnv = "development"

type AppConfig struct {
	Env  string
	Host string
	Port string

	LogLevel  string
	LogFormat string

	// SeedData loads the sample dataset at startup.
	SeedData bool

	// CORSAllowOrigins enables the CORS middleware when non-empty.
	CORSAllowOrigins string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// HTTPTimeout bounds every outbound provider or geocoder request.
	HTTPTimeout time.Duration

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	// TrackedCities are ingested from the providers every IngestInterval.
	TrackedCities  []string
	IngestInterval time.Duration
	EnrichInterval time.Duration
}

// Load reads configuration from .env files and the environment with
// sensible defaults. Variables already set in the environment win over
// .env files.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_env", developmentEnv)
	env := appEnv(v)
	loadEnvFiles(".env."+env, ".env")

	// APP_ENV may only be set in .env.
	if fromFile := appEnv(v); fromFile != env {
		env = fromFile
		loadEnvFiles(".env." + env)
	}

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("seed_data", env == developmentEnv)
	v.SetDefault("cors_allow_origins", "")
	v.SetDefault("read_timeout", "10s")
	v.SetDefault("write_timeout", "10s")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("ingest_interval", "15m")
	v.SetDefault("enrich_interval", "1h")

	cfg := &AppConfig{
		Env:               env,
		Host:              v.GetString("host"),
		Port:              v.GetString("port"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		LogFormat:         strings.ToLower(v.GetString("log_format")),
		SeedData:          v.GetBool("seed_data"),
		CORSAllowOrigins:  v.GetString("cors_allow_origins"),
		OpenWeatherAPIKey: v.GetString("openweather_api_key"),
		WeatherAPIKey:     v.GetString("weatherapi_api_key"),
		GeocoderAPIKey:    v.GetString("geocoder_api_key"),
		TrackedCities:     splitList(v.GetString("tracked_cities")),
	}

	// viper's GetDuration swallows parse errors, so durations are parsed here.
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"read_timeout", &cfg.ReadTimeout},
		{"write_timeout", &cfg.WriteTimeout},
		{"shutdown_timeout", &cfg.ShutdownTimeout},
		{"http_timeout", &cfg.HTTPTimeout},
		{"ingest_interval", &cfg.IngestInterval},
		{"enrich_interval", &cfg.EnrichInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", strings.ToUpper(d.key), err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete and correct.
func (c *AppConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	for name, d := range map[string]time.Duration{
		"READ_TIMEOUT":     c.ReadTimeout,
		"WRITE_TIMEOUT":    c.WriteTimeout,
		"SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
		"HTTP_TIMEOUT":     c.HTTPTimeout,
		"INGEST_INTERVAL":  c.IngestInterval,
		"ENRICH_INTERVAL":  c.EnrichInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDevelopment reports whether APP_ENV is development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == developmentEnv
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *AppConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", s)
	}
}

func appEnv(v *viper.Viper) string {
	return strings.ToLower(strings.TrimSpace(v.GetString("app_env")))
}

// loadEnvFiles loads the files in order. Variables that are already set,
// including ones from earlier files, are never overridden.
func loadEnvFiles(files ...string) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			slog.Debug("env file not loaded", "file", file, "error", err)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
