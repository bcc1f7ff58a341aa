package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/point-weather/internal/weather"
)

func snapshotAt(lat, lon float64) weather.Snapshot {
	v := lat + lon
	return weather.Snapshot{
		Point:     weather.Point{Lat: lat, Lon: lon},
		Window:    weather.DefaultWindow,
		Data:      weather.Sample{"t2m": &v},
		SampledAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	_, err := s.GetLatest(weather.Point{Lat: 1, Lon: 2})
	assert.ErrorIs(t, err, ErrNotFound)

	snap := snapshotAt(1, 2)
	s.SaveSnapshot(snap)

	got, err := s.GetLatest(weather.Point{Lat: 1, Lon: 2})
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestMemoryStore_ReplaceKeepsSingleEntry(t *testing.T) {
	s := NewMemoryStore(10, 0)

	s.SaveSnapshot(snapshotAt(1, 2))
	updated := snapshotAt(1, 2)
	updated.Scale = 5000
	s.SaveSnapshot(updated)

	assert.Equal(t, 1, s.Len())
	got, err := s.GetLatest(weather.Point{Lat: 1, Lon: 2})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, got.Scale)
}

func TestMemoryStore_EvictsOldestByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)

	s.SaveSnapshot(snapshotAt(1, 1))
	s.SaveSnapshot(snapshotAt(2, 2))
	// Re-saving point 1 makes point 2 the oldest.
	s.SaveSnapshot(snapshotAt(1, 1))
	s.SaveSnapshot(snapshotAt(3, 3))

	assert.Equal(t, 2, s.Len())

	_, err := s.GetLatest(weather.Point{Lat: 2, Lon: 2})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetLatest(weather.Point{Lat: 1, Lon: 1})
	assert.NoError(t, err)
	_, err = s.GetLatest(weather.Point{Lat: 3, Lon: 3})
	assert.NoError(t, err)
}

func TestMemoryStore_ExpiresByAge(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSnapshot(snapshotAt(1, 1))

	now = now.Add(30 * time.Minute)
	_, err := s.GetLatest(weather.Point{Lat: 1, Lon: 1})
	assert.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = s.GetLatest(weather.Point{Lat: 1, Lon: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	// The next save purges the stale entry.
	s.SaveSnapshot(snapshotAt(2, 2))
	assert.Equal(t, 1, s.Len())
}
