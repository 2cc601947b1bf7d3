package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/faultline/internal/users"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.users.enabled") {
		closer, err := users.New(users.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Boundary:  a.boundary,
			Context:   a.ctx,
			ID:        a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module users", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Users"] = closer
		}
	}
}
