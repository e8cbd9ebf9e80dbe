package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-reports/internal/weather"
)

const (
	defaultIngestInterval = 15 * time.Minute
	defaultEnrichInterval = time.Hour
	defaultJobTimeout     = 30 * time.Second
)

// Options selects which background jobs run and how often.
type Options struct {
	// Cities are ingested from the upstream providers every IngestInterval.
	Cities         []string
	IngestInterval time.Duration
	EnrichInterval time.Duration
	// JobTimeout bounds a single run of a job.
	JobTimeout time.Duration
}

// Scheduler periodically ingests weather for tracked cities and geocodes
// placeholder locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	opts      Options
	logger    *slog.Logger
}

// New creates a new Scheduler. Zero intervals fall back to the defaults.
func New(service *weather.Service, opts Options, logger *slog.Logger) *Scheduler {
	if opts.IngestInterval <= 0 {
		opts.IngestInterval = defaultIngestInterval
	}
	if opts.EnrichInterval <= 0 {
		opts.EnrichInterval = defaultEnrichInterval
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = defaultJobTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		opts:      opts,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start registers the enabled jobs and starts the underlying scheduler.
// It reports how many jobs were scheduled.
func (s *Scheduler) Start() (int, error) {
	if len(s.opts.Cities) > 0 && s.service.HasProviders() {
		if _, err := s.scheduler.Every(s.opts.IngestInterval).Tag("ingest").Do(s.ingestAll); err != nil {
			return 0, err
		}
	} else if len(s.opts.Cities) > 0 {
		s.logger.Warn("tracked cities configured but no providers available; ingestion disabled")
	}

	if s.service.HasGeocoder() {
		if _, err := s.scheduler.Every(s.opts.EnrichInterval).Tag("enrich").Do(s.enrich); err != nil {
			return 0, err
		}
	}

	n := s.scheduler.Len()
	if n == 0 {
		s.logger.Info("no jobs configured; nothing to schedule")
		return 0, nil
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "jobs", n)
	return n, nil
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) ingestAll() {
	s.logger.Info("running ingestion job", "cities", len(s.opts.Cities))

	var wg sync.WaitGroup
	for _, city := range s.opts.Cities {
		wg.Add(1)
		go func(city string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.opts.JobTimeout)
			defer cancel()

			if _, err := s.service.IngestCity(ctx, city); err != nil {
				s.logger.Error("ingestion failed", "city", city, "error", err)
			}
		}(city)
	}
	wg.Wait()
	s.logger.Info("completed ingestion job")
}

func (s *Scheduler) enrich() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.JobTimeout)
	defer cancel()

	n, err := s.service.EnrichLocations(ctx)
	if err != nil {
		s.logger.Error("enrichment failed", "updated", n, "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("completed enrichment job", "updated", n)
	}
}
