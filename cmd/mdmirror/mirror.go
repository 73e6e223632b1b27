package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/crawl"
	mdetree "github.com/fwojciec/mdmirror/etree"
	"github.com/fwojciec/mdmirror/fs"
	"github.com/fwojciec/mdmirror/goquery"
	"github.com/fwojciec/mdmirror/htmltomarkdown"
	mdhttp "github.com/fwojciec/mdmirror/http"
	"github.com/fwojciec/mdmirror/mirror"
	"github.com/fwojciec/mdmirror/readability"
	"github.com/fwojciec/mdmirror/robotstxt"
	mdslog "github.com/fwojciec/mdmirror/slog"
	"github.com/fwojciec/mdmirror/sqlite"
	"github.com/fwojciec/mdmirror/trafilatura"
)

// Run mirrors deps.Config.TargetURL into deps.Config.OutputDir.
func (c *MirrorCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	logger, err := mdslog.NewLogger(deps.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	if err := fs.EnsureDir(cfg.OutputDir); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mdmirror.ErrorMessage(err))
		return err
	}

	ctx := deps.Ctx
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	httpFetcher := mdhttp.NewFetcher(
		mdhttp.WithTimeout(cfg.RequestTimeout),
		mdhttp.WithUserAgent(cfg.UserAgent),
	)
	pageFetcher := mdslog.NewLoggingFetcher(httpFetcher, logger)
	defer pageFetcher.Close()

	robots := mdslog.NewLoggingRobotsPolicy(robotstxt.NewPolicy(robotstxt.WithLogger(logger)), logger)

	crawler := &crawl.Crawler{
		Fetcher:           pageFetcher,
		Links:             goquery.NewLinkExtractor(),
		Robots:            robots,
		Limiter:           crawl.NewDomainLimiter(cfg.Delay),
		Logger:            logger,
		UserAgent:         cfg.UserAgent,
		MaxDepth:          cfg.MaxDepth,
		MaxPages:          cfg.MaxPages,
		IncludeSubdomains: cfg.IncludeSubdomains,
		FetchTimeout:      cfg.RequestTimeout,
	}

	var engine mdmirror.Extractor = readability.NewExtractor()
	if cfg.Extractor == mdmirror.ExtractorTrafilatura {
		engine = trafilatura.NewExtractor()
	}

	store := fs.NewAssetStore(filepath.Join(cfg.OutputDir, mdmirror.AssetDir))
	resolver := mirror.NewResolver(
		mdslog.NewLoggingAssetFetcher(httpFetcher, logger),
		store,
		mirror.WithAssetTimeout(cfg.RequestTimeout),
		mirror.WithResolverLogger(logger),
	)

	m := &mirror.Mirror{
		Source:  crawler,
		Content: goquery.NewContentExtractor(engine),
		Converter: htmltomarkdown.NewConverter(
			htmltomarkdown.WithPreserveLinks(!cfg.IgnoreLinks),
			htmltomarkdown.WithRenderTables(!cfg.BypassTables),
		),
		Images:    mirror.NewRewriter(resolver, cfg.AssetConcurrency),
		Writer:    mdslog.NewLoggingPageWriter(fs.NewWriter(cfg.OutputDir), logger),
		Logger:    logger,
		OutputDir: cfg.OutputDir,
	}

	if cfg.IndexDB != "" {
		db := sqlite.NewDB(cfg.IndexDB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open index at %q: %w", cfg.IndexDB, err)
		}
		defer db.Close()
		m.Index = sqlite.NewPageIndex(db)
	}
	if cfg.WriteSitemap {
		m.Sitemap = mdetree.NewSitemapWriter(cfg.OutputDir)
	}

	fmt.Fprintf(deps.Stdout, "Mirroring %s into %s\n", cfg.TargetURL, cfg.OutputDir)
	progress := func(event mirror.ProgressEvent) {
		switch event.Type {
		case mirror.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d] %s -> %s\n", event.Completed, crawl.TruncateURL(event.URL, 60), event.Path)
		case mirror.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, mdmirror.ErrorMessage(event.Error))
		}
	}

	result, err := m.Run(ctx, cfg.TargetURL, progress)
	if result == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mdmirror.ErrorMessage(err))
		return err
	}

	stats := crawler.Stats()
	fmt.Fprintf(deps.Stdout, "Saved %d pages (%s, %d images), %d failed, %d skipped\n",
		result.Saved, crawl.FormatBytes(result.Bytes), result.Assets, result.Failed+stats.Failed, stats.Skipped)
	if m.Index != nil {
		fmt.Fprintf(deps.Stdout, "Run %s recorded in %s\n", result.RunID, cfg.IndexDB)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("run timeout of %s reached", cfg.RunTimeout)
		}
		return err
	}
	return nil
}
