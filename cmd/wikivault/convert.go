package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikivault/internal/config"
	"github.com/nao1215/wikivault/internal/database"
	"github.com/nao1215/wikivault/internal/dump"
	"github.com/nao1215/wikivault/internal/fetch"
	"github.com/nao1215/wikivault/internal/log"
	"github.com/nao1215/wikivault/internal/model"
	"github.com/nao1215/wikivault/internal/pipeline"
	"github.com/nao1215/wikivault/internal/vault"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <dump.xml>",
		Short: "Convert a MediaWiki XML export into a Markdown vault",
		Long: `Convert reads a MediaWiki XML export and writes one Markdown document
per page into the vault directory.

Each document carries YAML frontmatter with the page title, its tags
(categories plus the tag inferred from the page's infobox), and the
infobox fields in source order. Internal links are preserved as
[[wikilinks]], images become local embeds, and one index document per
tag is written under _indexes/.

Redirect pages become one-line pointer documents by default; use
--skip-redirects to exclude them entirely.

Examples:
  # Convert a dump into ./vault
  wikivault convert wiki.xml

  # Convert into a custom directory, dropping redirects
  wikivault convert --output notes --skip-redirects wiki.xml

  # Download referenced images from the source wiki
  wikivault convert --download-images \
    --image-base-url https://wiki.example.org/wiki/Special:FilePath wiki.xml

Configuration file (.wikivault) example:
  output_dir: notes
  skip_redirects: true
  image_base_url: https://wiki.example.org/wiki/Special:FilePath
  known_infoboxes:
    - character
    - spaceship`,
		Args: cobra.ExactArgs(1),
		RunE: runConvertCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Vault output directory (created if missing)")
	cmd.Flags().Bool("skip-redirects", false,
		"Exclude redirect pages instead of writing pointer documents")

	// Image flags
	cmd.Flags().Bool("download-images", false,
		"Download referenced images from the source wiki")
	cmd.Flags().String("image-dir", config.DefaultImageDir,
		"Vault-relative directory image embeds point at")
	cmd.Flags().String("image-base-url", "",
		"Wiki file endpoint for downloads (e.g. https://wiki.example.org/wiki/Special:FilePath)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent image downloads")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikivault in current or home directory)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the history database")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with warning tallies
	logger, tally := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := runConvert(ctx, cfg, logger, tally)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)

	if cfg.SaveToDB {
		saveRun(ctx, cfg, summary, logger)
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra flags.
// Precedence: flags > config file > defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.DumpPath = args[0]

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFlag

	// If the user explicitly specified a config file, error if not found.
	// Otherwise silently run on defaults when no file exists.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if configFlag != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configFlag)
	}

	// Flags set explicitly on the command line win over file values.
	if cmd.Flags().Changed("output") || cfg.OutputDir == "" {
		if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("image-dir") {
		if cfg.ImageDir, err = cmd.Flags().GetString("image-dir"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("image-base-url") {
		if cfg.ImageBaseURL, err = cmd.Flags().GetString("image-base-url"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("skip-redirects") {
		if cfg.SkipRedirects, err = cmd.Flags().GetBool("skip-redirects"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("download-images") {
		if cfg.DownloadImages, err = cmd.Flags().GetBool("download-images"); err != nil {
			return nil, err
		}
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	return cfg, nil
}

// runConvert streams the dump through the conversion pipeline and
// writes the vault. Pages convert sequentially in dump order; only
// image downloads run concurrently afterwards.
func runConvert(ctx context.Context, cfg *config.Config, logger *slog.Logger, tally *log.TallyHandler) (*model.RunSummary, error) {
	f, err := os.Open(cfg.DumpPath) //nolint:gosec // User-provided dump path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close() //nolint:errcheck

	reader, err := dump.NewReader(f)
	if err != nil {
		return nil, err
	}

	writer, err := vault.NewWriter(cfg.OutputDir, vault.WithWriterLogger(logger))
	if err != nil {
		return nil, err
	}

	pipe := pipeline.DefaultPipeline(
		pipeline.Settings{
			ImageDir:       cfg.ImageDir,
			KnownInfoboxes: cfg.KnownInfoboxes,
		},
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)

	summary := &model.RunSummary{
		DumpName:  filepath.Base(cfg.DumpPath),
		OutputDir: cfg.OutputDir,
		StartedAt: time.Now(),
	}

	logger.Info("starting conversion",
		"dump", cfg.DumpPath,
		"vault", cfg.OutputDir,
		"skipRedirects", cfg.SkipRedirects,
		"downloadImages", cfg.DownloadImages,
	)

	ix := vault.NewIndex()
	var imageRefs []model.ImageReference
	seenImages := make(map[string]bool)
	linked := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed dump is the one fatal input error; everything
			// page-level is recovered best-effort.
			return nil, err
		}

		if page.Redirect {
			if cfg.SkipRedirects {
				summary.RedirectsSkipped++
				logger.Debug("skipping redirect", "page", page.Title, "target", page.RedirectTarget)
				continue
			}
			if _, err := writer.WriteDocument(pipeline.PointerDocument(page)); err != nil {
				logger.Error("failed to write pointer document", "page", page.Title, "error", err)
				continue
			}
			summary.PagesWritten++
			continue
		}

		if !page.HasContent() {
			logger.Warn("skipping page with no usable revision text",
				"category", model.WarnEmptyPage,
				"page", page.Title,
			)
			continue
		}

		result := model.NewPageResult(page)
		if err := pipe.Execute(ctx, result); err != nil {
			// With continue-on-error enabled, Execute only fails on
			// cancellation.
			return nil, err
		}

		// Pipeline warnings reach the tally, and so the run summary,
		// through these log records.
		for _, warning := range result.Warnings {
			logger.Warn("page converted with warning",
				"category", warning.Category,
				"detail", warning.Detail,
				"page", page.Title,
			)
		}

		if _, err := writer.WriteDocument(result.Document); err != nil {
			logger.Error("failed to write document", "page", page.Title, "error", err)
			continue
		}
		summary.PagesWritten++

		ix.AddAll(result.Tags.Sorted(), page.Title)
		for _, ref := range result.Images {
			if !seenImages[ref.Path] {
				seenImages[ref.Path] = true
				imageRefs = append(imageRefs, ref)
			}
		}
		for _, target := range result.LinkedTitles {
			linked[target] = true
		}
	}

	indexes, err := writer.WriteIndexes(ix)
	if err != nil {
		return nil, err
	}
	summary.IndexesWritten = indexes

	reportDanglingLinks(writer, linked, logger)

	if cfg.DownloadImages && len(imageRefs) > 0 {
		fetcher, err := fetch.NewFetcher(cfg.ImageBaseURL,
			fetch.WithLogger(logger),
			fetch.WithConcurrency(cfg.Concurrency),
		)
		if err != nil {
			return nil, err
		}
		stats := fetcher.FetchAll(ctx, cfg.OutputDir, imageRefs)
		summary.ImagesFetched = stats.Fetched
		summary.ImageFailures = stats.Failed
	}

	summary.FinishedAt = time.Now()
	summary.Warnings = tally.Counts()
	summary.TagCounts = ix.TagCounts()
	return summary, nil
}

// reportDanglingLinks warns about link targets that never appeared as a
// page in the dump, for example because the target was a skipped
// redirect. Targets are reported in sorted order so repeated runs
// produce identical logs.
func reportDanglingLinks(writer *vault.Writer, linked map[string]bool, logger *slog.Logger) {
	dangling := make([]string, 0)
	for target := range linked {
		if !writer.HasTitle(target) {
			dangling = append(dangling, target)
		}
	}
	sort.Strings(dangling)

	for _, target := range dangling {
		logger.Warn("link target not found in dump",
			"category", model.WarnDanglingLink,
			"target", target,
		)
	}
}

// printSummary writes the human-readable end-of-run summary.
func printSummary(w io.Writer, s *model.RunSummary) {
	fmt.Fprintf(w, "Conversion of %s complete.\n", s.DumpName)
	fmt.Fprintf(w, "  Vault:             %s\n", s.OutputDir)
	fmt.Fprintf(w, "  Pages written:     %d\n", s.PagesWritten)
	fmt.Fprintf(w, "  Redirects skipped: %d\n", s.RedirectsSkipped)
	fmt.Fprintf(w, "  Indexes written:   %d\n", s.IndexesWritten)
	if s.ImagesFetched > 0 || s.ImageFailures > 0 {
		fmt.Fprintf(w, "  Images fetched:    %d (%d failed)\n", s.ImagesFetched, s.ImageFailures)
	}
	fmt.Fprintf(w, "  Duration:          %s\n", s.Duration().Round(time.Millisecond))

	if total := s.TotalWarnings(); total > 0 {
		categories := make([]string, 0, len(s.Warnings))
		for category := range s.Warnings {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		parts := make([]string, 0, len(categories))
		for _, category := range categories {
			parts = append(parts, fmt.Sprintf("%s: %d", category, s.Warnings[category]))
		}
		fmt.Fprintf(w, "  Warnings:          %d (%s)\n", total, strings.Join(parts, ", "))
	}
}

// saveRun records the run in the history database. The vault is already
// on disk at this point, so a history failure is logged, not fatal.
func saveRun(ctx context.Context, cfg *config.Config, summary *model.RunSummary, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open run database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close() //nolint:errcheck

	runID, err := db.SaveRun(ctx, summary)
	if err != nil {
		logger.Error("failed to record run", "error", err)
		return
	}
	logger.Debug("recorded run", "id", runID, "dir", cfg.DBDir)
}
