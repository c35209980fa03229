// Command contentgen fills the static site's content: it runs the tutorial
// and article ingestion pipelines, maintains the blog Markdown and index,
// writes the sitemap, and publishes the generated files.
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
	defer stop()

	if err := Execute(ctx); err != nil {
		slog.Error("contentgen failed", "error", err)
		stop()
		os.Exit(1)
	}
}
