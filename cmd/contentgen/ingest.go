// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"edukoder/internal/blog"
	"edukoder/internal/ingest"
	"edukoder/internal/models"
	"edukoder/internal/store"
)

var tutorialsCmd = &cobra.Command{
	Use:   "tutorials",
	Short: "Fetch tutorials and upsert them into the tutorial store",
	Args:  cobra.NoArgs,
	RunE:  neverFail(runTutorials),
}

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Fetch articles, enrich them with an image and upsert them",
	Long: `Fetch articles from the configured provider, attach a stock photo to each,
upsert them into the article store and export them as Markdown for the blog.

Examples:
  contentgen articles                 # Provider only, skip when unavailable
  contentgen articles --local         # Fall back to the built-in template`,
	Args: cobra.NoArgs,
	RunE: neverFail(runArticles),
}

var reseedCmd = &cobra.Command{
	Use:   "reseed",
	Short: "Regenerate blog articles, rebuild the index and retrofit HTML heads",
	Long: `Run the article pipeline several times with the local template fallback
enabled, export every article as Markdown, rebuild blog/index.json and
optionally inject the favicon and AdSense tags into existing HTML pages.

With --count=0 no articles are generated and the HTML retrofit always runs.

Examples:
  contentgen reseed                        # Three new articles
  contentgen reseed --clean --count=5      # Wipe the blog, then five articles
  contentgen reseed --count=0              # Only rebuild the index and retrofit`,
	Args: cobra.NoArgs,
	RunE: neverFail(runReseed),
}

func init() {
	rootCmd.AddCommand(tutorialsCmd, articlesCmd, reseedCmd)

	articlesCmd.Flags().Bool("local", false, "use the built-in article template when the provider yields nothing")
	articlesCmd.Flags().Bool("export", true, "write each article as Markdown into the blog directory")

	reseedCmd.Flags().Bool("clean", false, "remove existing Markdown, HTML and index files first")
	reseedCmd.Flags().Int("count", 3, "number of article runs")
	reseedCmd.Flags().Bool("retrofit", false, "inject favicon and AdSense tags into blog HTML files")
}

func runTutorials(cmd *cobra.Command, args []string) error {
	_, err := runPipeline(cmd.Context(), cfg.Ingest(models.KindTutorials), nil)
	return err
}

func runArticles(cmd *cobra.Command, args []string) error {
	local, _ := cmd.Flags().GetBool("local")
	export, _ := cmd.Flags().GetBool("export")

	icfg := cfg.Ingest(models.KindArticles)
	icfg.LocalFallback = local

	var exporter ingest.Exporter
	if export {
		exporter = blog.Exporter{Dir: cfg.BlogDir()}
	}
	_, err := runPipeline(cmd.Context(), icfg, exporter)
	return err
}

func runReseed(cmd *cobra.Command, args []string) error {
	clean, _ := cmd.Flags().GetBool("clean")
	count, _ := cmd.Flags().GetInt("count")
	retrofit, _ := cmd.Flags().GetBool("retrofit")

	dir := cfg.BlogDir()
	if clean {
		n, err := blog.Clean(dir)
		if err != nil {
			return fmt.Errorf("clean blog: %w", err)
		}
		slog.Info("blog cleaned", "dir", dir, "removed", n)
	}

	icfg := cfg.Ingest(models.KindArticles)
	icfg.LocalFallback = true
	for i := 0; i < count; i++ {
		report, err := runPipeline(cmd.Context(), icfg, blog.Exporter{Dir: dir})
		if err != nil {
			return err
		}
		slog.Info("reseed run finished", "run", i+1, "of", count, "mode", report.Mode, "upserted", report.Upserted)
	}

	n, err := blog.BuildIndex(dir, time.Now())
	if err != nil {
		return fmt.Errorf("build blog index: %w", err)
	}
	slog.Info("blog index rebuilt", "articles", n)

	if retrofit || count == 0 {
		changed, err := blog.Retrofit(dir, blog.HeadTags{AdsenseClient: cfg.AdsenseClient})
		if err != nil {
			return fmt.Errorf("retrofit blog html: %w", err)
		}
		slog.Info("blog html retrofitted", "changed", changed)
	}
	return nil
}

// runPipeline runs one ingestion batch against the JSON store for icfg.Kind.
func runPipeline(ctx context.Context, icfg ingest.Config, exporter ingest.Exporter) (ingest.Report, error) {
	warnMissing(icfg)

	repo := store.NewFileStore(cfg.DataFile(icfg.Kind), icfg.Kind)
	opts := []ingest.Option{ingest.WithHTTPClient(&http.Client{})}
	if icfg.Kind == models.KindArticles {
		finder, cleanup := imageFinder(ctx, icfg.ImageAPIKey)
		defer cleanup()
		opts = append(opts, ingest.WithImageFinder(finder))
	}
	if exporter != nil {
		opts = append(opts, ingest.WithExporter(exporter))
	}

	report, err := ingest.New(icfg, repo, opts...).Run(ctx)
	if err != nil {
		return report, err
	}
	if report.Skipped {
		slog.Info("nothing to upsert", "kind", icfg.Kind, "reason", report.Reason)
	}
	return report, nil
}
