package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/faultline/internal/pkg/pkglog"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgresponse"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/faultline/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"

		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to load .env", "error", err)
		}
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLogging() {
	pkglog.InitLogging(pkglog.Options{
		Service: a.config.GetString("service.name"),
		Level:   a.config.GetString("log.level"),
	})
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100, pkgroutine.WithErrorHook(func(ctx context.Context, err error) {
		slog.ErrorContext(ctx, "background task failed", "error", err)
	}))
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = sf

	a.boundary = pkgboundary.New(pkgboundary.Options{})
	a.formatter = pkgresponse.NewFormatter(pkgresponse.Config{
		Debug:      a.config.GetBool("server.debug"),
		Registerer: prometheus.DefaultRegisterer,
	})
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(pkgrouter.Options{
		ID:        a.uuid,
		Boundary:  a.boundary,
		Formatter: a.formatter,
	})
	a.router.Handle(http.MethodGet, "/metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{pkgrouter.HeaderCorrelationID},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
