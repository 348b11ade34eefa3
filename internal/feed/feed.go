package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"dining-status-backend/config"
	"dining-status-backend/internal/notification"
	"dining-status-backend/internal/parse"
	"dining-status-backend/internal/schedule"
	"dining-status-backend/internal/store"
)

// Response models the top-level structure of the upstream location feed.
type Response struct {
	Locations []store.FeedLocation `json:"locations"`
}

// Dispatcher receives notification jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, job notification.Job) error
}

// Service polls the upstream feed, persists locations and records their
// status transitions.
type Service struct {
	cfg        *config.FeedConfig
	store      store.Store
	client     *http.Client
	dispatcher Dispatcher
	log        *zap.Logger
	now        func() time.Time
}

// NewService creates a feed poller. dispatcher may be nil to disable
// notifications.
func NewService(cfg *config.FeedConfig, st store.Store, dispatcher Dispatcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("feed")

	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Warn("invalid proxy URL, feed will not use a proxy", zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		cfg:        cfg,
		store:      st,
		client:     &http.Client{Transport: transport, Timeout: timeout},
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// SetClock replaces the clock used to evaluate statuses.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Run polls until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("feed poller is disabled")
		return
	}
	s.log.Info("starting feed poller", zap.Duration("interval", s.cfg.Interval))

	if err := s.PollOnce(ctx); err != nil {
		s.log.Error("poll cycle failed", zap.Error(err))
	}

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("feed poller shutting down")
			return
		case <-timer.C:
			if err := s.PollOnce(ctx); err != nil {
				s.log.Error("poll cycle failed", zap.Error(err))
			}
			timer.Reset(s.cfg.Interval)
		}
	}
}

// PollOnce performs a single fetch, persist and evaluate cycle.
func (s *Service) PollOnce(ctx context.Context) error {
	now := s.now()

	resp, err := s.fetch(ctx)
	if err != nil {
		// Keep the stored state rather than archiving every location.
		return fmt.Errorf("fetch feed: %w", err)
	}

	locations := resp.Locations
	for i := range locations {
		s.prepareSchedule(&locations[i])
	}

	if err := s.store.UpsertLocations(ctx, locations); err != nil {
		return fmt.Errorf("persist locations: %w", err)
	}

	stored, err := s.store.ListLocations(ctx)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}

	statuses := make(map[int64]schedule.StatusResult, len(stored))
	for _, loc := range stored {
		result, err := loc.Status(now)
		if err != nil {
			s.log.Warn("stored schedule is invalid", zap.Int64("location_id", loc.ID), zap.Error(err))
		}
		statuses[loc.ID] = result
	}

	changes, err := s.store.RecordStatuses(ctx, now, statuses)
	if err != nil {
		return fmt.Errorf("record statuses: %w", err)
	}

	notified := 0
	for _, change := range changes {
		if !change.Notifies() || s.dispatcher == nil {
			continue
		}
		err := s.dispatcher.Dispatch(ctx, notification.Job{
			LocationID: change.LocationID,
			Status:     statuses[change.LocationID].Message.Long,
		})
		if err != nil {
			s.log.Warn("notification not queued", zap.Int64("location_id", change.LocationID), zap.Error(err))
			continue
		}
		notified++
	}

	s.log.Info("poll cycle finished",
		zap.Int("locations", len(stored)),
		zap.Int("changes", len(changes)),
		zap.Int("notified", notified))
	return nil
}

// prepareSchedule converts and validates the published hours. Locations
// whose hours fail are kept with no hours.
func (s *Service) prepareSchedule(loc *store.FeedLocation) {
	ranges, err := parse.Ranges(loc.Times)
	if err == nil {
		err = schedule.Validate(ranges)
	}
	if err != nil {
		s.log.Warn("dropping invalid hours",
			zap.Int64("location_id", loc.ConceptID),
			zap.String("name", loc.Name),
			zap.Error(err))
		loc.Ranges = nil
		loc.HoursValid = false
		return
	}
	loc.Ranges = ranges
	loc.HoursValid = true
}

func (s *Service) fetch(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var feed Response
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed: %w", err)
	}
	return &feed, nil
}
