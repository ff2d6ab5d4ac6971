// Package server exposes the translation coordinator over HTTP.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/logging"
	"github.com/ZaguanLabs/transcache/processor"
)

// AppOptions wires the HTTP application to its collaborators.
type AppOptions struct {
	Logger      *logrus.Logger
	Coordinator *transcache.Coordinator
	HTML        *processor.HTMLProcessor // Optional; defaults to NewHTMLProcessor
}

const contextKeyRequestID = "_transcache_request_id"

// NewApp builds the Fiber application with CORS, request IDs, access logs
// and the translation routes.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Coordinator == nil {
		return nil, errors.New("coordinator is required")
	}
	if opts.HTML == nil {
		opts.HTML = processor.NewHTMLProcessor()
	}

	app := fiber.New(fiber.Config{
		AppName: transcache.Name,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders: []string{fiber.HeaderContentType},
	}))

	h := &handlers{
		logger:      opts.Logger,
		coordinator: opts.Coordinator,
		html:        opts.HTML,
	}

	for _, path := range []string{"/api/translate", "/translate"} {
		app.Post(path, h.translate)
		app.Options(path, preflight)
	}
	app.Post("/api/translate/html", h.translateHTML)
	app.Options("/api/translate/html", preflight)

	app.Get("/-/health", h.health)
	app.Get("/-/stats", h.stats)

	return app, nil
}

// requestContextMiddleware assigns a request ID and writes one access log
// line per request.
func requestContextMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		entry := logger.WithFields(logging.RequestFields(
			reqID, c.Method(), c.Path(), status, time.Since(start).Milliseconds(),
		))
		if err != nil {
			entry.WithError(err).Warn("request failed")
		} else {
			entry.Debug("request served")
		}
		return err
	}
}

// preflight answers OPTIONS requests the CORS middleware passes through
// (those without Access-Control-Request-Method).
func preflight(c fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "POST, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, fiber.HeaderContentType)
	return c.SendStatus(fiber.StatusOK)
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
