package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/sqlite"
	mdyaml "github.com/fwojciec/mdmirror/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configFile is the location searched under the XDG config directories.
const configFile = "mdmirror/config.yaml"

// Main represents the program.
type Main struct {
	// FindConfig locates the default configuration file when --config is
	// not given. A lookup error means no file is used.
	FindConfig func() (string, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		FindConfig: func() (string, error) {
			return xdg.SearchConfigFile(configFile)
		},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mdmirror"),
		kong.Description("Mirror a website into local Markdown files with downloaded images"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := m.loadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("config: %s", mdmirror.ErrorMessage(err))
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	switch cmd := kongCtx.Command(); {
	case strings.HasPrefix(cmd, "runs"):
		override(&cfg.IndexDB, cli.Runs.IndexDB)
		return runWithIndex(kongCtx, deps, cfg.IndexDB)
	case strings.HasPrefix(cmd, "pages"):
		override(&cfg.IndexDB, cli.Pages.IndexDB)
		return runWithIndex(kongCtx, deps, cfg.IndexDB)
	}

	cli.Mirror.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %s", mdmirror.ErrorMessage(err))
	}
	deps.Config = cfg
	return kongCtx.Run(deps)
}

// runWithIndex opens the index database at path and runs the selected
// command against it.
func runWithIndex(kongCtx *kong.Context, deps *Dependencies, path string) error {
	if path == "" {
		return fmt.Errorf("config: no index database (set index_db or pass --index-db)")
	}

	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open index at %q: %w", path, err)
	}
	defer db.Close()

	deps.Index = sqlite.NewPageIndex(db)
	return kongCtx.Run(deps)
}

// loadConfig reads the explicit config file, or the default one if present,
// or falls back to the built-in defaults.
func (m *Main) loadConfig(path string) (mdmirror.Config, error) {
	if path != "" {
		return mdyaml.LoadConfig(path)
	}
	if m.FindConfig != nil {
		if found, err := m.FindConfig(); err == nil {
			return mdyaml.LoadConfig(found)
		}
	}
	return mdmirror.DefaultConfig(), nil
}
