package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/point-weather/internal/weather"
)

// Geocoder turns a place name into coordinates.
type Geocoder interface {
	Geocode(city, country string) (weather.Point, error)
}

// geocoderMu guards the package-level API key of kelvins/geocoder.
var geocoderMu sync.Mutex

// GoogleGeocoder resolves names with the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{apiKey: apiKey}
}

func (g *GoogleGeocoder) Geocode(city, country string) (weather.Point, error) {
	if g.apiKey == "" {
		return weather.Point{}, errors.New("geocoder api key is not configured")
	}

	geocoderMu.Lock()
	defer geocoderMu.Unlock()

	geocoder.ApiKey = g.apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return weather.Point{}, fmt.Errorf("geocoding %s, %s: %w", city, country, err)
	}

	p := weather.Point{Lat: loc.Latitude, Lon: loc.Longitude}
	if err := p.Validate(); err != nil {
		return weather.Point{}, err
	}
	return p, nil
}

// ResolveLocations returns a point for every location, geocoding named ones.
// Locations that cannot be resolved are logged and skipped.
func ResolveLocations(locations []weather.Location, g Geocoder, logger *zap.Logger) []weather.Point {
	points := make([]weather.Point, 0, len(locations))
	for _, loc := range locations {
		if loc.Point != nil {
			points = append(points, *loc.Point)
			continue
		}
		if g == nil {
			logger.Warn("skipping named location: no geocoder configured", zap.String("location", loc.Name()))
			continue
		}

		p, err := g.Geocode(loc.City, loc.Country)
		if err != nil {
			logger.Warn("skipping location", zap.String("location", loc.Name()), zap.Error(err))
			continue
		}
		logger.Debug("geocoded location", zap.String("location", loc.Name()), zap.String("point", p.Key()))
		points = append(points, p)
	}
	return points
}
