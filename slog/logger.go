package slog

import (
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/mdmirror"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger returns a logger writing to w at the named level
// (debug, info, warn, error) in the named format (text or json).
// Empty values select info and text.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, mdmirror.Errorf(mdmirror.EINVALID, "invalid log level %q", level)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, mdmirror.Errorf(mdmirror.EINVALID, "invalid log format %q", format)
	}
}
