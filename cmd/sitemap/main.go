// Command sitemap turns the GNSS project-site sheet into globe markers and a
// category legend.
//
// Usage:
//
//	sitemap render -o sites.czml --legend-json legend.json
//	sitemap legend
//	sitemap validate --strict
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("sitemap failed", "error", err)
		os.Exit(1)
	}
}
