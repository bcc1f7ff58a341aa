package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/point-weather/internal/weather"
)

type AppConfig struct {
	Port string

	// Earth Engine access.
	EEProject       string
	EEBaseURL       string
	CredentialsFile string
	HTTPTimeout     time.Duration // per outbound attempt
	RequestTimeout  time.Duration // whole sampling request, retries included
	SampleWindow    weather.Window
	SampleScale     float64

	// In-memory sample cache.
	CacheMaxEntries int           // 0 = unlimited
	CacheTTL        time.Duration // 0 = never expires

	// Points the scheduler keeps warm.
	WarmLocations  []weather.Location
	WarmInterval   time.Duration
	GeocoderAPIKey string

	// BigQuery recorder; disabled when BigQueryProject is empty.
	BigQueryProject string
	BigQueryDataset string
	BigQueryTable   string

	LogLevel string
	Debug    bool
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:            getenvDefault("PORT", "8080"),
		EEProject:       getenvDefault("EE_PROJECT", "ee-steviaap"),
		EEBaseURL:       os.Getenv("EE_BASE_URL"),
		CredentialsFile: os.Getenv("EE_CREDENTIALS_FILE"),
		GeocoderAPIKey:  os.Getenv("GEOCODER_API_KEY"),
		BigQueryProject: os.Getenv("BIGQUERY_PROJECT"),
		BigQueryDataset: getenvDefault("BIGQUERY_DATASET", "weather"),
		BigQueryTable:   getenvDefault("BIGQUERY_TABLE", "point_samples"),
		LogLevel:        getenvDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Debug, err = getenvBool("DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = getenvInt("CACHE_MAX_ENTRIES", 1024); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries < 0 {
		return nil, fmt.Errorf("invalid CACHE_MAX_ENTRIES %d: must not be negative", cfg.CacheMaxEntries)
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getenvDuration("REQUEST_TIMEOUT", "2m"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "6h"); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "60m"); err != nil {
		return nil, err
	}

	cfg.SampleWindow = weather.Window{
		Start: getenvDefault("SAMPLE_START", weather.DefaultWindow.Start),
		End:   getenvDefault("SAMPLE_END", weather.DefaultWindow.End),
	}
	if err := validateWindow(cfg.SampleWindow); err != nil {
		return nil, err
	}

	scaleStr := getenvDefault("SAMPLE_SCALE", strconv.Itoa(weather.DefaultScale))
	cfg.SampleScale, err = strconv.ParseFloat(scaleStr, 64)
	if err != nil || cfg.SampleScale <= 0 {
		return nil, fmt.Errorf("invalid SAMPLE_SCALE %q: must be a positive number", scaleStr)
	}

	locs, err := ParseLocations(os.Getenv("WARM_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.WarmLocations = locs

	return cfg, nil
}

// ParseLocations reads a ';'-separated list whose entries are either
// "lat,lon" or "City:Country".
func ParseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, raw := range strings.Split(s, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if city, country, ok := strings.Cut(raw, ":"); ok {
			city, country = strings.TrimSpace(city), strings.TrimSpace(country)
			if city == "" || country == "" {
				return nil, fmt.Errorf("invalid location %q: city and country are required", raw)
			}
			locs = append(locs, weather.Location{City: city, Country: country})
			continue
		}

		latStr, lonStr, ok := strings.Cut(raw, ",")
		if !ok {
			return nil, fmt.Errorf("invalid location %q: expected lat,lon or City:Country", raw)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", raw, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", raw, err)
		}

		p := weather.Point{Lat: lat, Lon: lon}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid location %q: %w", raw, err)
		}
		locs = append(locs, weather.Location{Point: &p})
	}
	return locs, nil
}

func validateWindow(w weather.Window) error {
	start, err := time.Parse(time.DateOnly, w.Start)
	if err != nil {
		return fmt.Errorf("invalid SAMPLE_START: %w", err)
	}
	end, err := time.Parse(time.DateOnly, w.End)
	if err != nil {
		return fmt.Errorf("invalid SAMPLE_END: %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("SAMPLE_END %s must be after SAMPLE_START %s", w.End, w.Start)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
