package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/i474232898/point-weather/internal/weather"
)

// SampleRow is the BigQuery schema for one recorded sample.
type SampleRow struct {
	Latitude    float64              `bigquery:"latitude"`
	Longitude   float64              `bigquery:"longitude"`
	WindowStart string               `bigquery:"window_start"`
	WindowEnd   string               `bigquery:"window_end"`
	Scale       float64              `bigquery:"scale"`
	U10         bigquery.NullFloat64 `bigquery:"u10"`
	V10         bigquery.NullFloat64 `bigquery:"v10"`
	D2M         bigquery.NullFloat64 `bigquery:"d2m"`
	T2M         bigquery.NullFloat64 `bigquery:"t2m"`
	SP          bigquery.NullFloat64 `bigquery:"sp"`
	SST         bigquery.NullFloat64 `bigquery:"sst"`
	MSLP        bigquery.NullFloat64 `bigquery:"mslp"`
	STL1        bigquery.NullFloat64 `bigquery:"stl1"`
	SampledAt   time.Time            `bigquery:"sampled_at"`
}

// NewSampleRow flattens a snapshot. Missing and masked variables become NULL.
func NewSampleRow(s weather.Snapshot) *SampleRow {
	return &SampleRow{
		Latitude:    s.Point.Lat,
		Longitude:   s.Point.Lon,
		WindowStart: s.Window.Start,
		WindowEnd:   s.Window.End,
		Scale:       s.Scale,
		U10:         nullFloat(s.Data, "u10"),
		V10:         nullFloat(s.Data, "v10"),
		D2M:         nullFloat(s.Data, "d2m"),
		T2M:         nullFloat(s.Data, "t2m"),
		SP:          nullFloat(s.Data, "sp"),
		SST:         nullFloat(s.Data, "sst"),
		MSLP:        nullFloat(s.Data, "mslp"),
		STL1:        nullFloat(s.Data, "stl1"),
		SampledAt:   s.SampledAt,
	}
}

func nullFloat(data weather.Sample, key string) bigquery.NullFloat64 {
	v, ok := data[key]
	if !ok || v == nil {
		return bigquery.NullFloat64{}
	}
	return bigquery.NullFloat64{Float64: *v, Valid: true}
}

type rowInserter interface {
	Put(ctx context.Context, src interface{}) error
}

// BigQueryRecorder appends every sample to a BigQuery table.
type BigQueryRecorder struct {
	client   *bigquery.Client
	inserter rowInserter
}

// NewBigQueryRecorder connects to project and targets dataset.table, which
// must already exist with the SampleRow schema.
func NewBigQueryRecorder(ctx context.Context, project, dataset, table, credentialsFile string) (*BigQueryRecorder, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}

	return &BigQueryRecorder{
		client:   client,
		inserter: client.Dataset(dataset).Table(table).Inserter(),
	}, nil
}

// Record inserts one row for the snapshot.
func (r *BigQueryRecorder) Record(ctx context.Context, snapshot weather.Snapshot) error {
	if err := r.inserter.Put(ctx, []*SampleRow{NewSampleRow(snapshot)}); err != nil {
		return fmt.Errorf("failed to insert sample row: %w", err)
	}
	return nil
}

func (r *BigQueryRecorder) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
