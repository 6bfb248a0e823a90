package scraper

import (
	"context"
	"time"

	"igprofiler/internal/pool"
	"igprofiler/pkg/config"
	"igprofiler/pkg/errors"
	"igprofiler/pkg/instagram"
	"igprofiler/pkg/logger"
	"igprofiler/pkg/models"
	"igprofiler/pkg/payload"
	"igprofiler/pkg/profile"
	"igprofiler/pkg/telemetry"
)

// Scraper fetches profile pages and turns them into ProfileRecords
type Scraper struct {
	client  PageFetcher
	locator *payload.Locator
	config  *config.Config
	logger  logger.Logger
	metrics *telemetry.Collector
	tracker ProgressTracker
}

// New creates a Scraper backed by an Instagram page client built from cfg.
// metrics may be nil.
func New(cfg *config.Config, log logger.Logger, metrics *telemetry.Collector) *Scraper {
	log = logger.OrNop(log)
	client := instagram.NewClient(cfg.RequestTimeout.Duration(), cfg.UserAgent, cfg.BaseURL, log)
	return NewWithClient(cfg, client, log, metrics)
}

// NewWithClient creates a Scraper using the given page fetcher
func NewWithClient(cfg *config.Config, client PageFetcher, log logger.Logger, metrics *telemetry.Collector) *Scraper {
	log = logger.OrNop(log)
	return &Scraper{
		client:  client,
		locator: payload.NewLocator(log),
		config:  cfg,
		logger:  log,
		metrics: metrics,
	}
}

// SetTracker sets the progress tracker notified after every fetch
func (s *Scraper) SetTracker(tracker ProgressTracker) {
	s.tracker = tracker
}

// FetchProfile fetches and parses one profile with a single request.
// It returns nil when the page could not be fetched, and a record holding
// only the username when the page carries no recognizable payload.
func (s *Scraper) FetchProfile(ctx context.Context, username string) *models.ProfileRecord {
	start := time.Now()
	log := s.logger.WithField("username", username)

	page, err := s.client.FetchProfilePage(ctx, username)
	if err != nil {
		errType := errors.TypeOf(err)
		log.WithError(err).ErrorWithFields("Failed to fetch profile", map[string]interface{}{
			"error_type": string(errType),
		})
		s.metrics.ObserveFetch(string(errType), time.Since(start))
		if s.tracker != nil {
			s.tracker.Failed(username, err)
		}
		return nil
	}

	raw, ok := s.locator.Locate(string(page))
	if !ok {
		log.WarnWithFields("No embedded profile data found, returning username only", map[string]interface{}{
			"error_type": string(errors.ErrorTypeParsing),
			"bytes":      len(page),
		})
		s.metrics.ObserveFetch(telemetry.OutcomePartial, time.Since(start))
		if s.tracker != nil {
			s.tracker.Partial(username)
		}
		return &models.ProfileRecord{Username: username}
	}

	record := profile.Resolve(username, raw)
	record.TruncatePosts(s.config.MaxPosts)

	s.metrics.ObserveFetch(telemetry.OutcomeOK, time.Since(start))
	s.metrics.AddPosts(len(record.RecentPosts))
	if s.tracker != nil {
		s.tracker.Scraped(username)
	}

	fields := map[string]interface{}{
		"posts":    len(record.RecentPosts),
		"duration": time.Since(start),
	}
	if record.FollowersCount != nil {
		fields["followers"] = *record.FollowersCount
	}
	if record.EngagementRate != nil {
		fields["engagement_rate"] = *record.EngagementRate
	}
	log.InfoWithFields("Profile scraped", fields)

	return &record
}

// FetchAll fetches usernames concurrently with config.ConcurrentRequests
// workers. Successful records are returned in completion order; failed
// fetches are dropped.
func (s *Scraper) FetchAll(ctx context.Context, usernames []string) []models.ProfileRecord {
	wp := pool.NewWorkerPool(ctx, s.config.ConcurrentRequests, s, s.logger)
	wp.Start()

	s.logger.InfoWithFields("Fetching profiles", map[string]interface{}{
		"profiles": len(usernames),
		"workers":  wp.NumWorkers(),
	})

	go func() {
		defer wp.Stop()
		for _, username := range usernames {
			if err := wp.Submit(pool.FetchJob{Username: username}); err != nil {
				s.logger.WithError(err).Warn("Stopped submitting profiles")
				return
			}
		}
	}()

	profiles := make([]models.ProfileRecord, 0, len(usernames))
	for result := range wp.Results() {
		if result.Profile != nil {
			profiles = append(profiles, *result.Profile)
		}
	}

	return profiles
}
