package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/neduet/campus-api/config"
	httpx "github.com/neduet/campus-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Nav:          cfg.Services.Nav,
		Users:        cfg.Services.Users,
		Departments:  cfg.Services.Departments,
		Courses:      cfg.Services.Courses,
		Enrollment:   cfg.Services.Enrollment,
		Marks:        cfg.Services.Marks,
		Attendance:   cfg.Services.Attendance,
		Canteen:      cfg.Services.Canteen,
		Feedback:     cfg.Services.Feedback,
		Locations:    cfg.Services.Locations,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	})

	// Order: Recover -> Metrics -> Logging -> Router
	handler := httpx.Recover(logger)(httpx.Metrics(cfg.Services.Metrics)(httpx.Logging(logger)(router)))

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // location streaming keeps responses open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}
