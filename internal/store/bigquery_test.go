package store

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/point-weather/internal/weather"
)

type captureInserter struct {
	rows []*SampleRow
	err  error
}

func (c *captureInserter) Put(_ context.Context, src interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.rows = append(c.rows, src.([]*SampleRow)...)
	return nil
}

func TestNewSampleRow(t *testing.T) {
	u10, stl1 := 1.25, 2731.5
	snap := snapshotAt(48.1, 11.6)
	snap.Scale = 10000
	snap.Data = weather.Sample{"u10": &u10, "stl1": &stl1, "sst": nil}

	row := NewSampleRow(snap)

	assert.Equal(t, 48.1, row.Latitude)
	assert.Equal(t, 11.6, row.Longitude)
	assert.Equal(t, "2024-01-01", row.WindowStart)
	assert.Equal(t, "2024-01-31", row.WindowEnd)
	assert.Equal(t, bigquery.NullFloat64{Float64: 1.25, Valid: true}, row.U10)
	assert.Equal(t, bigquery.NullFloat64{Float64: 2731.5, Valid: true}, row.STL1)
	assert.False(t, row.SST.Valid)
	assert.False(t, row.MSLP.Valid)
	assert.Equal(t, snap.SampledAt, row.SampledAt)
}

func TestBigQueryRecorder_Record(t *testing.T) {
	ins := &captureInserter{}
	r := &BigQueryRecorder{inserter: ins}

	require.NoError(t, r.Record(t.Context(), snapshotAt(1, 2)))
	require.Len(t, ins.rows, 1)
	assert.Equal(t, 1.0, ins.rows[0].Latitude)

	ins.err = errors.New("quota exceeded")
	err := r.Record(t.Context(), snapshotAt(1, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	assert.NoError(t, r.Close())
}
