package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/mdmirror"
)

// Dependencies holds the services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config mdmirror.Config
	Index  mdmirror.PageIndex
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Configuration file (default: $XDG_CONFIG_HOME/mdmirror/config.yaml)"`

	Mirror MirrorCmd `cmd:"" default:"withargs" help:"Mirror a site into Markdown files (default command)"`
	Runs   RunsCmd   `cmd:"" help:"List runs recorded in the index"`
	Pages  PagesCmd  `cmd:"" help:"List pages recorded for a run"`
}

// MirrorCmd is the "mirror" subcommand.
// Flags left unset keep the value from the configuration file.
type MirrorCmd struct {
	URL string `arg:"" optional:"" help:"Site to mirror (overrides target_url)"`

	Output            *string        `short:"o" help:"Output directory"`
	Depth             *int           `short:"d" help:"Maximum link depth from the start page"`
	Delay             *time.Duration `help:"Pause before every request"`
	UserAgent         *string        `name:"user-agent" help:"User-Agent sent with every request"`
	IgnoreLinks       *bool          `name:"ignore-links" help:"Keep link text but drop link targets"`
	BypassTables      *bool          `name:"bypass-tables" help:"Keep tables as raw HTML"`
	Extractor         *string        `short:"e" help:"Main content engine (readability or trafilatura)"`
	IncludeSubdomains *bool          `name:"include-subdomains" help:"Follow links to subdomains of the start host"`
	MaxPages          *int           `name:"max-pages" help:"Stop after this many pages (0 = unlimited)"`
	Timeout           *time.Duration `short:"t" help:"Timeout per page or image request"`
	RunTimeout        *time.Duration `name:"run-timeout" help:"Stop the whole run after this long (0 = none)"`
	Concurrency       *int           `name:"asset-concurrency" help:"Images downloaded in parallel per page"`
	IndexDB           *string        `name:"index-db" help:"SQLite file recording runs and pages"`
	Sitemap           *bool          `help:"Write sitemap.xml into the output directory"`
	LogLevel          *string        `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat         *string        `name:"log-format" help:"Log format (text or json)"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	IndexDB *string `name:"index-db" help:"SQLite index file (overrides index_db)"`
	Limit   int     `short:"n" default:"20" help:"Maximum number of runs to show (0 = all)"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	RunID   string  `arg:"" name:"run-id" help:"Run ID as shown by 'mdmirror runs'"`
	IndexDB *string `name:"index-db" help:"SQLite index file (overrides index_db)"`
	Failed  bool    `help:"Only show pages that failed"`
}

// apply overrides cfg with every flag that was given.
func (c *MirrorCmd) apply(cfg *mdmirror.Config) {
	if c.URL != "" {
		cfg.TargetURL = c.URL
	}
	override(&cfg.OutputDir, c.Output)
	override(&cfg.MaxDepth, c.Depth)
	override(&cfg.Delay, c.Delay)
	override(&cfg.UserAgent, c.UserAgent)
	override(&cfg.IgnoreLinks, c.IgnoreLinks)
	override(&cfg.BypassTables, c.BypassTables)
	override(&cfg.Extractor, c.Extractor)
	override(&cfg.IncludeSubdomains, c.IncludeSubdomains)
	override(&cfg.MaxPages, c.MaxPages)
	override(&cfg.RequestTimeout, c.Timeout)
	override(&cfg.RunTimeout, c.RunTimeout)
	override(&cfg.AssetConcurrency, c.Concurrency)
	override(&cfg.IndexDB, c.IndexDB)
	override(&cfg.WriteSitemap, c.Sitemap)
	override(&cfg.LogLevel, c.LogLevel)
	override(&cfg.LogFormat, c.LogFormat)
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
