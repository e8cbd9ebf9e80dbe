package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/i474232898/weather-reports/internal/api/http"
	"github.com/i474232898/weather-reports/internal/config"
	"github.com/i474232898/weather-reports/internal/scheduler"
	"github.com/i474232898/weather-reports/internal/store"
	"github.com/i474232898/weather-reports/internal/weather"
	"github.com/i474232898/weather-reports/internal/weather/providers"
)

var (
	portFlag   string
	noSeedFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and background jobs (default command)",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)

	// Make serve the default command, accepting the same flags.
	addServeFlags(rootCmd)
	rootCmd.RunE = runServe
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&portFlag, "port", "", "HTTP port (overrides PORT)")
	cmd.Flags().BoolVar(&noSeedFlag, "no-seed", false, "start with an empty store")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	memStore := store.NewMemoryStore()
	if cfg.SeedData && !noSeedFlag {
		if err := memStore.Seed(); err != nil {
			return err
		}
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	opts := []weather.Option{
		weather.WithLogger(logger),
		weather.WithProviders(buildProviders(cfg, httpClient)...),
	}
	if cfg.GeocoderAPIKey != "" {
		opts = append(opts, weather.WithGeocoder(providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	service := weather.NewService(memStore.Repositories(), opts...)

	sched := scheduler.New(service, scheduler.Options{
		Cities:         cfg.TrackedCities,
		IngestInterval: cfg.IngestInterval,
		EnrichInterval: cfg.EnrichInterval,
		JobTimeout:     3 * cfg.HTTPTimeout,
	}, logger)

	app := httpapi.NewApp(service, httpapi.Options{
		Environment:      cfg.Env,
		ReadTimeout:      cfg.ReadTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:        os.Stdout,
	})

	logger.Info("starting weather-reports",
		"addr", cfg.Addr(),
		"env", cfg.Env,
		"seeded", memStore.Counts().Reports > 0,
		"tracked_cities", len(cfg.TrackedCities),
		"geocoder", service.HasGeocoder(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error {
		if err := app.Listen(cfg.Addr()); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	waitErr := g.Wait()
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		logger.Error("weather-reports exited with error", "error", waitErr)
		return waitErr
	}
	logger.Info("weather-reports shutdown complete")
	return nil
}

// buildProviders returns the upstream providers that can run with cfg.
// Open-Meteo needs no key but only serves cities with real coordinates.
func buildProviders(cfg *config.AppConfig, client *http.Client) []weather.Provider {
	provs := []weather.Provider{providers.NewOpenMeteoProvider(client)}
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey))
	}
	return provs
}
