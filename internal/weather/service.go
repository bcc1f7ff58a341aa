package weather

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	ee "github.com/i474232898/point-weather/internal/earthengine"
)

// ServiceConfig fixes what every sample covers.
type ServiceConfig struct {
	Window Window
	Scale  float64
}

// Service samples points through the remote Sampler, caching and recording results.
type Service struct {
	sampler  Sampler
	store    Store
	recorder Recorder
	window   Window
	scale    float64
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new Service. store and recorder may be nil.
func NewService(sampler Sampler, store Store, recorder Recorder, cfg ServiceConfig, logger *zap.Logger) *Service {
	if cfg.Window == (Window{}) {
		cfg.Window = DefaultWindow
	}
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sampler:  sampler,
		store:    store,
		recorder: recorder,
		window:   cfg.Window,
		scale:    cfg.Scale,
		logger:   logger,
		now:      time.Now,
	}
}

// Sample returns the renamed variables at p, served from cache when available.
func (s *Service) Sample(ctx context.Context, p Point) (Snapshot, error) {
	if err := p.Validate(); err != nil {
		return Snapshot{}, err
	}

	if s.store != nil {
		if snap, err := s.store.GetLatest(p); err == nil {
			s.logger.Debug("sample served from cache", zap.String("point", p.Key()))
			return snap, nil
		}
	}

	return s.fetch(ctx, p)
}

// Refresh samples p remotely regardless of cache state and stores the result.
func (s *Service) Refresh(ctx context.Context, p Point) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.fetch(ctx, p)
	return err
}

func (s *Service) fetch(ctx context.Context, p Point) (Snapshot, error) {
	if s.sampler == nil {
		return Snapshot{}, ee.ErrNotInitialized
	}

	start := s.now()
	raw, err := s.sampler.Compute(ctx, BuildQuery(p, s.window, s.scale))
	if err != nil {
		if ee.IsGeometryError(err) {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
		}
		if ee.IsPermanent(err) {
			s.logger.Warn("sample rejected", zap.String("point", p.Key()), zap.Error(err))
		} else {
			s.logger.Error("sample failed", zap.String("point", p.Key()), zap.Error(err))
		}
		return Snapshot{}, err
	}

	data, err := Rename(raw)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Point:     p,
		Window:    s.window,
		Scale:     s.scale,
		Data:      data,
		SampledAt: s.now().UTC(),
	}

	s.logger.Info("sampled point",
		zap.String("point", p.Key()),
		zap.Int("variables", len(data)),
		zap.Duration("elapsed", s.now().Sub(start)),
	)

	if s.store != nil {
		s.store.SaveSnapshot(snap)
	}

	if s.recorder != nil {
		// Recording is best effort; the caller still gets the sample.
		if err := s.recorder.Record(ctx, snap); err != nil {
			s.logger.Warn("failed to record sample", zap.String("point", p.Key()), zap.Error(err))
		}
	}

	return snap, nil
}
