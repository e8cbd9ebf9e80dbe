package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/weather-reports/internal/weather"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRoutes wires the weather report handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/weather", func(c *fiber.Ctx) error {
		var req createReportRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		view, err := service.AddWeatherReport(req.toNewReport())
		if err != nil {
			return toHTTPError(err, "failed to add weather report")
		}
		return c.Status(fiber.StatusCreated).JSON(formatReport(view, time.Now()))
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		summaries, err := service.GetAllCitySummaries()
		if err != nil {
			return toHTTPError(err, "failed to fetch weather summaries")
		}
		return c.JSON(formatSummaries(summaries, time.Now()))
	})

	v1.Get("/weather/:city", func(c *fiber.Ctx) error {
		city, err := cityParam(c)
		if err != nil {
			return err
		}

		view, err := service.GetCityWeather(city)
		if err != nil {
			return toHTTPError(err, "failed to fetch weather data")
		}
		return c.JSON(formatReport(view, time.Now()))
	})

	v1.Put("/weather/:city", func(c *fiber.Ctx) error {
		city, err := cityParam(c)
		if err != nil {
			return err
		}

		var req updateReportRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		view, err := service.UpdateCityWeather(city, req.toUpdate())
		if err != nil {
			return toHTTPError(err, "failed to update weather data")
		}
		return c.JSON(formatReport(view, time.Now()))
	})

	v1.Delete("/weather/:city", func(c *fiber.Ctx) error {
		city, err := cityParam(c)
		if err != nil {
			return err
		}

		if err := service.DeleteCityWeather(city); err != nil {
			return toHTTPError(err, "failed to delete weather data")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// createReportRequest is the body of POST /api/v1/weather.
type createReportRequest struct {
	City        string   `json:"city" validate:"required,max=100"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Condition   string   `json:"condition" validate:"required,oneof=Sunny Cloudy Rainy Snowy Windy Foggy Stormy"`
	Timestamp   string   `json:"timestamp"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
}

// normalize trims the city so it matches the trimmed :city path parameter.
func (r *createReportRequest) normalize() {
	r.City = strings.TrimSpace(r.City)
}

func (r createReportRequest) toNewReport() weather.NewReport {
	in := weather.NewReport{
		City:        r.City,
		Temperature: *r.Temperature,
		Timestamp:   r.Timestamp,
		Condition:   r.Condition,
	}
	if r.Humidity != nil {
		in.Humidity = *r.Humidity
	}
	return in
}

// updateReportRequest is the body of PUT /api/v1/weather/:city. Omitted
// fields are left unchanged.
type updateReportRequest struct {
	Temperature *float64 `json:"temperature"`
	Condition   *string  `json:"condition" validate:"omitempty,oneof=Sunny Cloudy Rainy Snowy Windy Foggy Stormy"`
	Timestamp   *string  `json:"timestamp"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
}

func (r updateReportRequest) toUpdate() weather.ReportUpdate {
	return weather.ReportUpdate{
		Timestamp:   r.Timestamp,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Condition:   r.Condition,
	}
}

// bindBody decodes the JSON body into req, normalizes and validates it.
func bindBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if n, ok := req.(interface{ normalize() }); ok {
		n.normalize()
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

// cityParam returns a copy of the :city path parameter; Fiber reuses the
// underlying buffer once the handler returns.
func cityParam(c *fiber.Ctx) (string, error) {
	city := strings.TrimSpace(utils.CopyString(c.Params("city")))
	if city == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "city is required")
	}
	return city, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// toHTTPError maps service errors onto HTTP status codes. Server-side
// failures get the generic message so internals are not leaked.
func toHTTPError(err error, message string) error {
	switch {
	case errors.Is(err, weather.ErrCityNotFound), errors.Is(err, weather.ErrNoReports):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case weather.IsClientError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		slog.Error(message, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, message)
	}
}
