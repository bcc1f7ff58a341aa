package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/point-weather/internal/weather"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	legacySamplePath = "/get_weather_data"
	apiPrefix        = "/api/v1"
	samplePath       = "/weather/sample"
)

var validate = validator.New()

// Sampler is the part of weather.Service the routes need.
type Sampler interface {
	Sample(ctx context.Context, p weather.Point) (weather.Snapshot, error)
}

// Options tunes request handling.
type Options struct {
	Logger         *zap.Logger
	RequestTimeout time.Duration // 0 = no deadline beyond the client's
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Sampler, opts Options) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	h := sampleHandler(service, opts)

	app.Get(legacySamplePath, h)

	v1 := app.Group(apiPrefix)
	v1.Get(samplePath, h)
}

// ErrorHandler is the app-wide Fiber error handler. Errors that escape the
// sample routes, recovered panics included, keep the 200 + status body
// contract; elsewhere the Fiber status code is used, 500 by default.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	switch c.Path() {
	case legacySamplePath, apiPrefix + samplePath:
		if fe == nil {
			code = fiber.StatusOK
		}
	}

	return c.Status(code).JSON(errorBody(err))
}

// sampleHandler always answers 200; the outcome is carried in the status field.
func sampleHandler(service Sampler, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		point, err := parsePointQuery(c)
		if err != nil {
			return c.JSON(errorBody(err))
		}

		ctx := c.UserContext()
		if opts.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
			defer cancel()
		}

		snapshot, err := service.Sample(ctx, point)
		if err != nil {
			opts.Logger.Warn("sample request failed",
				zap.Float64("lat", point.Lat),
				zap.Float64("lon", point.Lon),
				zap.Error(err),
			)
			return c.JSON(errorBody(err))
		}

		return c.JSON(fiber.Map{
			"status": statusSuccess,
			"data":   snapshot.Data,
		})
	}
}

func errorBody(err error) fiber.Map {
	return fiber.Map{
		"status":  statusError,
		"message": err.Error(),
	}
}

// pointQuery holds the raw coordinate query parameters.
type pointQuery struct {
	Lat string `validate:"required"`
	Lon string `validate:"required"`
}

func parsePointQuery(c *fiber.Ctx) (weather.Point, error) {
	q := pointQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}

	if err := validate.Struct(q); err != nil {
		return weather.Point{}, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return weather.Point{}, fmt.Errorf("%w: lat %q is not a number", weather.ErrInvalidPoint, q.Lat)
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return weather.Point{}, fmt.Errorf("%w: lon %q is not a number", weather.ErrInvalidPoint, q.Lon)
	}

	p := weather.Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return weather.Point{}, err
	}
	return p, nil
}
