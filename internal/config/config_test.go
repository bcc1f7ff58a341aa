package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/point-weather/internal/weather"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "EE_PROJECT", "SAMPLE_START", "SAMPLE_END", "SAMPLE_SCALE",
		"CACHE_TTL", "CACHE_MAX_ENTRIES", "WARM_LOCATIONS", "HTTP_TIMEOUT", "DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "ee-steviaap", cfg.EEProject)
	assert.Equal(t, weather.DefaultWindow, cfg.SampleWindow)
	assert.Equal(t, float64(weather.DefaultScale), cfg.SampleScale)
	assert.Equal(t, 6*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 1024, cfg.CacheMaxEntries)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.WarmLocations)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EE_PROJECT", "my-project")
	t.Setenv("SAMPLE_START", "2023-06-01")
	t.Setenv("SAMPLE_END", "2023-07-01")
	t.Setenv("SAMPLE_SCALE", "2500")
	t.Setenv("WARM_LOCATIONS", "52.52,13.405;Paris:FR")
	t.Setenv("CACHE_MAX_ENTRIES", "0")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-project", cfg.EEProject)
	assert.Equal(t, weather.Window{Start: "2023-06-01", End: "2023-07-01"}, cfg.SampleWindow)
	assert.Equal(t, 2500.0, cfg.SampleScale)
	assert.Equal(t, 0, cfg.CacheMaxEntries)
	assert.True(t, cfg.Debug)
	require.Len(t, cfg.WarmLocations, 2)
	assert.Equal(t, &weather.Point{Lat: 52.52, Lon: 13.405}, cfg.WarmLocations[0].Point)
	assert.Equal(t, "Paris", cfg.WarmLocations[1].City)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string][2]string{
		"bad duration":    {"CACHE_TTL", "soon"},
		"bad scale":       {"SAMPLE_SCALE", "-1"},
		"bad start":       {"SAMPLE_START", "January"},
		"reversed window": {"SAMPLE_START", "2024-02-15"},
		"bad location":    {"WARM_LOCATIONS", "95,10"},
		"bad cache size":  {"CACHE_MAX_ENTRIES", "lots"},
		"negative cache":  {"CACHE_MAX_ENTRIES", "-5"},
		"bad debug flag":  {"DEBUG", "sometimes"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLocations(t *testing.T) {
	locs, err := ParseLocations(" 10.5, -20 ; Berlin:DE ;;")
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, weather.Point{Lat: 10.5, Lon: -20}, *locs[0].Point)
	assert.Equal(t, weather.Location{City: "Berlin", Country: "DE"}, locs[1])

	for _, bad := range []string{"Berlin", ":DE", "abc,1", "1,abc", "1,200"} {
		_, err := ParseLocations(bad)
		assert.Error(t, err, bad)
	}
}
