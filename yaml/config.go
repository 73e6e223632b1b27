// Package yaml loads mdmirror configuration files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fwojciec/mdmirror"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML document. Pointer fields distinguish keys
// that are absent from keys set to their zero value.
type fileConfig struct {
	TargetURL         *string   `yaml:"target_url"`
	MaxDepth          *int      `yaml:"max_depth"`
	Delay             *Duration `yaml:"delay"`
	UserAgent         *string   `yaml:"user_agent"`
	OutputDir         *string   `yaml:"output_dir"`
	IgnoreLinks       *bool     `yaml:"ignore_links"`
	BypassTables      *bool     `yaml:"bypass_tables"`
	Extractor         *string   `yaml:"extractor"`
	IncludeSubdomains *bool     `yaml:"include_subdomains"`
	MaxPages          *int      `yaml:"max_pages"`
	RequestTimeout    *Duration `yaml:"request_timeout"`
	RunTimeout        *Duration `yaml:"run_timeout"`
	AssetConcurrency  *int      `yaml:"asset_concurrency"`
	IndexDB           *string   `yaml:"index_db"`
	WriteSitemap      *bool     `yaml:"write_sitemap"`
	LogLevel          *string   `yaml:"log_level"`
	LogFormat         *string   `yaml:"log_format"`
}

// LoadConfig reads the file at path on top of mdmirror.DefaultConfig.
// The result is not validated so command-line overrides can still apply.
func LoadConfig(path string) (mdmirror.Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return mdmirror.Config{}, mdmirror.Errorf(mdmirror.EINVALID, "open config: %v", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Decode reads a YAML configuration from r on top of mdmirror.DefaultConfig.
// Unknown keys are ignored and an empty document yields the defaults.
func Decode(r io.Reader) (mdmirror.Config, error) {
	cfg := mdmirror.DefaultConfig()

	var fc fileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return cfg, mdmirror.Errorf(mdmirror.EINVALID, "decode config: %v", err)
	}
	fc.apply(&cfg)
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *mdmirror.Config) {
	set(&cfg.TargetURL, fc.TargetURL)
	set(&cfg.MaxDepth, fc.MaxDepth)
	setDuration(&cfg.Delay, fc.Delay)
	set(&cfg.UserAgent, fc.UserAgent)
	set(&cfg.OutputDir, fc.OutputDir)
	set(&cfg.IgnoreLinks, fc.IgnoreLinks)
	set(&cfg.BypassTables, fc.BypassTables)
	set(&cfg.Extractor, fc.Extractor)
	set(&cfg.IncludeSubdomains, fc.IncludeSubdomains)
	set(&cfg.MaxPages, fc.MaxPages)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.RunTimeout, fc.RunTimeout)
	set(&cfg.AssetConcurrency, fc.AssetConcurrency)
	set(&cfg.IndexDB, fc.IndexDB)
	set(&cfg.WriteSitemap, fc.WriteSitemap)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}

// Duration is a time.Duration read from YAML either as a number of
// seconds (1, 0.5) or as a Go duration string ("1s", "250ms").
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	switch value.Tag {
	case "!!int", "!!float":
		secs, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
		}
		d.Duration = time.Duration(secs * float64(time.Second))
		return nil
	case "!!null":
		d.Duration = 0
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
	}
	d.Duration = parsed
	return nil
}
