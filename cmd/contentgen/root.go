// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"edukoder/internal/cache"
	"edukoder/internal/config"
	"edukoder/internal/images"
	"edukoder/internal/ingest"
	"edukoder/internal/models"
)

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "contentgen",
	Short: "EduKoder content generation",
	Long: `contentgen generates and maintains the static content of the site.

Example usage:
  contentgen tutorials          # Fetch tutorials into public/data/tutorials.json
  contentgen articles           # Fetch articles, export Markdown for the blog
  contentgen reseed --count=5   # Regenerate five articles and the blog index
  contentgen sitemap            # Write public/sitemap.xml
  contentgen publish            # Upload generated files to object storage`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the command tree. Cancelling ctx aborts in-flight requests.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// initConfig loads the environment and installs the default logger.
func initConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// neverFail wraps an ingestion command so that errors and panics are logged
// and the process still exits 0. Scheduled jobs must not fail because a
// provider is down or misconfigured.
func neverFail(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("content generation panicked",
					"command", cmd.Name(),
					"error", rec,
					"stack", string(debug.Stack()),
				)
			}
			err = nil
		}()

		if err := run(cmd, args); err != nil {
			slog.Error("content generation failed", "command", cmd.Name(), "error", err)
		}
		return nil
	}
}

// imageFinder builds the Pexels finder, cached in Valkey when configured.
// The returned cleanup closes the Valkey client.
func imageFinder(ctx context.Context, apiKey string) (*images.Finder, func()) {
	cleanup := func() {}
	var opts []images.Option
	if cfg.ValkeyEnabled() {
		cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		client, err := cache.ConnectValkey(cctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		cancel()
		if err != nil {
			slog.Warn("valkey unavailable, image search uncached", "error", err)
		} else {
			opts = append(opts, images.WithCache(cache.NewPhotoCache(client, cache.DefaultPhotoTTL)))
			cleanup = func() { client.Close() }
		}
	}
	return images.NewFinder(apiKey, &http.Client{}, opts...), cleanup
}

// warnMissing logs the collaborators a run will do without.
func warnMissing(icfg ingest.Config) {
	if icfg.ProviderEndpoint == "" && icfg.ProviderAPIKey == "" {
		slog.Warn("no content provider configured (GM_APY or a provider API key)")
	}
	if icfg.Kind == models.KindArticles && icfg.ImageAPIKey == "" {
		slog.Warn("no Pexels API key, articles will use the placeholder image")
	}
}
