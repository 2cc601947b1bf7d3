package users

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/faultline/internal/pkg/pkghttpclient"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/faultline/internal/pkg/pkguid"
	"github.com/shandysiswandi/faultline/internal/users/inbound"
	"github.com/shandysiswandi/faultline/internal/users/outbound"
	"github.com/shandysiswandi/faultline/internal/users/store"
	"github.com/shandysiswandi/faultline/internal/users/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Boundary  *pkgboundary.Boundary
	Context   context.Context
	ID        pkguid.NumberID
}

// New wires the users module. The returned closer releases the store.
func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	if dep.ID == nil {
		sf, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, err
		}
		dep.ID = sf
	}

	var (
		storage usecase.Store
		closer  = func(context.Context) error { return nil }
	)
	if dsn := dep.Config.GetString("database.dsn"); dsn != "" {
		pg, err := store.NewPostgresStore(dep.Context, store.PostgresConfig{
			DSN:      dsn,
			MaxConns: int32(dep.Config.GetInt("database.max_conns")),
			MinConns: int32(dep.Config.GetInt("database.min_conns")),
		})
		if err != nil {
			return nil, err
		}
		storage, closer = pg, pg.Close
	} else {
		slog.WarnContext(dep.Context, "database.dsn is empty, users are kept in memory")
		storage = store.NewInMemoryStore()
	}

	var client *pkghttpclient.Client
	if url := dep.Config.GetString("modules.users.webhook_url"); url != "" {
		timeout := time.Duration(dep.Config.GetInt("client.timeout_ms")) * time.Millisecond
		client = pkghttpclient.NewClient(url, pkghttpclient.NewHTTPClient(pkghttpclient.WithClientTimeout(timeout)), nil)
	}

	webhook := outbound.WebhookDependency{
		Client:   client,
		Boundary: dep.Boundary,
		RootCtx:  dep.Context,
	}
	if dep.Goroutine != nil {
		webhook.Runner = dep.Goroutine
	}

	uc := usecase.New(usecase.Dependency{
		Store:    storage,
		Notifier: outbound.NewWebhook(webhook),
		ID:       dep.ID,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return closer, nil
}
