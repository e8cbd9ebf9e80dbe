package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/i474232898/weather-reports/internal/weather"
)

// Options configures the Fiber app built by NewApp.
type Options struct {
	Name         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CORSAllowOrigins is a comma separated origin list; empty disables CORS.
	CORSAllowOrigins string
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog io.Writer
}

// NewApp builds the Fiber app with middleware, system endpoints and the
// weather API.
func NewApp(service *weather.Service, opts Options) *fiber.App {
	if opts.Name == "" {
		opts.Name = "weather-reports"
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		DisableStartupMessage: true,
		UnescapePath:          true,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
			Output: opts.AccessLog,
		}))
	}
	app.Use(recover.New())
	if opts.CORSAllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSAllowOrigins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": opts.Name,
		})
	})

	RegisterRoutes(app, service)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"health":      "OK",
			"service":     opts.Name,
			"environment": opts.Environment,
			"endpoints":   endpoints(app),
		})
	})

	return app
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", code, "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

type endpoint struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// endpoints lists the registered routes grouped by path. HEAD routes that
// Fiber adds for every GET are left out.
func endpoints(app *fiber.App) []endpoint {
	byPath := map[string][]string{}
	for _, r := range app.GetRoutes(true) {
		if r.Method == fiber.MethodHead {
			continue
		}
		byPath[r.Path] = append(byPath[r.Path], r.Method)
	}

	out := make([]endpoint, 0, len(byPath))
	for path, methods := range byPath {
		sort.Strings(methods)
		out = append(out, endpoint{Path: path, Methods: methods})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
