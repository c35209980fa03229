package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"edukoder/internal/blog"
	"edukoder/internal/sitemap"
	"edukoder/internal/storage"
)

var blogIndexCmd = &cobra.Command{
	Use:   "blog-index",
	Short: "Rebuild blog/index.json from the Markdown articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := blog.BuildIndex(cfg.BlogDir(), time.Now())
		if err != nil {
			return fmt.Errorf("build blog index: %w", err)
		}
		slog.Info("blog index rebuilt", "dir", cfg.BlogDir(), "articles", n)
		return nil
	},
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml for every HTML page under the public directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := sitemap.Generate(cfg.PublicDir, cfg.SiteURL)
		if err != nil {
			return fmt.Errorf("generate sitemap: %w", err)
		}
		slog.Info("sitemap written", "urls", n, "site", cfg.SiteURL)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the content stores, blog index and sitemap to object storage",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(blogIndexCmd, sitemapCmd, publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if client == nil {
		slog.Warn("object storage not configured, nothing published")
		return nil
	}

	urls, err := client.Publish(cmd.Context(), cfg.PublicDir, storage.PublishTargets)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", client.Bucket(), err)
	}
	slog.Info("publish complete", "bucket", client.Bucket(), "files", len(urls))
	return nil
}
