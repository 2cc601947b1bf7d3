package main

import (
	"context"

	"github.com/shandysiswandi/faultline/internal/app"
)

func main() {
	application := app.New()
	<-application.Start()

	// The shutdown budget starts when the signal arrives, not at boot.
	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()

	application.Stop(ctx)
}
