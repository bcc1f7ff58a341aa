package weather

import (
	"context"

	ee "github.com/i474232898/point-weather/internal/earthengine"
)

// Sampler evaluates an expression remotely (the Earth Engine client).
type Sampler interface {
	Compute(ctx context.Context, expr ee.Expression) (any, error)
}

// Store is the contract the sample cache must satisfy.
type Store interface {
	SaveSnapshot(snapshot Snapshot)
	GetLatest(p Point) (Snapshot, error)
}

// Recorder durably logs every freshly sampled snapshot.
type Recorder interface {
	Record(ctx context.Context, snapshot Snapshot) error
}
