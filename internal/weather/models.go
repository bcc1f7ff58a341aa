package weather

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidPoint is returned for coordinates outside the WGS84 range or
	// rejected by the remote service.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrInvalidValue is returned when the remote result holds a non-numeric band value.
	ErrInvalidValue = errors.New("invalid band value")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Point is a WGS84 coordinate to sample.
type Point struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Key returns a canonical string key for caching samples at this point.
// Four decimals is ~11 m, far below any sampling scale we use.
func (p Point) Key() string {
	return fmt.Sprintf("%.4f:%.4f", p.Lat, p.Lon)
}

// Validate checks the coordinate ranges. NaN and infinities fail both bounds.
func (p Point) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Field() {
		case "lat":
			msgs = append(msgs, fmt.Sprintf("lat must be between -90 and 90, got %v", fe.Value()))
		case "lon":
			msgs = append(msgs, fmt.Sprintf("lon must be between -180 and 180, got %v", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed '%s' validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidPoint, strings.Join(msgs, "; "))
}

// Window is the half-open date range [Start, End) collections are averaged
// over, as YYYY-MM-DD strings.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Location is a place the scheduler keeps warm. Either Point is set, or
// City/Country are geocoded into one.
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Point   *Point `json:"point,omitempty"`
}

// Name returns a human-readable label for logs.
func (l Location) Name() string {
	if l.City != "" {
		return l.City + ":" + l.Country
	}
	if l.Point != nil {
		return l.Point.Key()
	}
	return "<unnamed>"
}

// Sample maps output keys (u10, t2m, ...) to values. A nil value is a masked
// pixel: the band exists but has no data at the point.
type Sample map[string]*float64

// Snapshot is one sampled result together with where, over what window, and when.
type Snapshot struct {
	Point     Point     `json:"point"`
	Window    Window    `json:"window"`
	Scale     float64   `json:"scale"`
	Data      Sample    `json:"data"`
	SampledAt time.Time `json:"sampledAt"` // always UTC
}
