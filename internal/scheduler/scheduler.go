package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/point-weather/internal/weather"
)

const jobTimeout = 2 * time.Minute

// Refresher re-samples a point and updates the cache.
type Refresher interface {
	Refresh(ctx context.Context, p weather.Point) error
}

// Scheduler periodically refreshes samples for configured locations so
// requests for them are served from cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	geocoder  Geocoder
	locations []weather.Location
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. geocoder may be nil when every location
// already carries a point.
func New(locations []weather.Location, interval time.Duration, service Refresher, geocoder Geocoder, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		geocoder:  geocoder,
		locations: locations,
		interval:  interval,
		logger:    logger.Named("scheduler"),
	}
}

// Start resolves named locations, schedules the periodic job and starts the
// underlying scheduler. The first run happens immediately.
func (s *Scheduler) Start() error {
	points := ResolveLocations(s.locations, s.geocoder, s.logger)
	if len(points) == 0 {
		s.logger.Info("no warm locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.runOnce(context.Background(), points)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Int("points", len(points)), zap.Int("interval_minutes", minutes))
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context, points []weather.Point) {
	s.logger.Debug("running warm-up job")

	var wg sync.WaitGroup
	for _, p := range points {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()

			if err := s.service.Refresh(ctx, p); err != nil {
				s.logger.Warn("warm-up failed", zap.String("point", p.Key()), zap.Error(err))
			}
		}()
	}
	wg.Wait()

	s.logger.Debug("completed warm-up job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
