package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/faultline/internal/pkg/pkglog"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgresponse"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/faultline/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager
	boundary  *pkgboundary.Boundary
	formatter *pkgresponse.Formatter

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging(pkglog.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
