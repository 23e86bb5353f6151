// Package server exposes the catalog and model uploads over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/app"
	"github.com/rcliao/sutra-power/internal/catalog"
	"github.com/rcliao/sutra-power/internal/upload"
)

// Options configures the HTTP server.
type Options struct {
	Addr      string
	UploadDir string
	Catalog   *catalog.Service
	// Status reports the startup outcome on GET /api/health.
	Status func() app.Status
	Log    *zap.Logger
}

// RegisterRoutes mounts the catalog API under /api.
func RegisterRoutes(e *echo.Echo, svc *catalog.Service, status func() app.Status) {
	if status == nil {
		status = func() app.Status { return app.Status{Ready: svc.Persistent()} }
	}
	h := &handler{catalog: svc, status: status}

	g := e.Group("/api")
	g.GET("/health", h.health)

	g.GET("/characters", h.listCharacters)
	g.POST("/characters", h.createCharacter)
	g.GET("/characters/:id", h.retrieveCharacter)
	g.PATCH("/characters/:id", h.updateCharacter)
	g.POST("/characters/:id/images", h.addImage)
	g.DELETE("/characters/:id/images/:imageId", h.removeImage)

	g.GET("/chapters", h.listChapters)
	g.GET("/chapters/:id", h.retrieveChapter)

	g.GET("/models", h.listModels)
	g.GET("/models/:id", h.retrieveModel)
}

// NewEcho builds the echo instance with every route and middleware.
func NewEcho(opts Options) *echo.Echo {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(log))

	RegisterRoutes(e, opts.Catalog, opts.Status)
	upload.RegisterRoutes(e, upload.NewHandler(opts.UploadDir, log))

	e.HTTPErrorHandler = (&errorHandler{log: log}).Handle
	return e
}

// New returns an http.Server serving NewEcho(opts).
func New(opts Options) *http.Server {
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           NewEcho(opts),
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error))
			return nil
		},
	})
}
