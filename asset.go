package mdmirror

import (
	"context"
	"io"
)

// AssetDir is the directory under the output root that holds downloaded assets.
const AssetDir = "assets"

// AssetResolver maps image references to local copies.
type AssetResolver interface {
	// ResolveImage returns the path of the local copy of identity relative
	// to the output root (e.g. "assets/logo.png"). identity is an absolute
	// image URL or a data: URI. On any failure the identity is returned
	// unchanged so the caller keeps the remote reference.
	ResolveImage(ctx context.Context, identity string) string
}

// AssetStore persists asset files in the assets directory.
type AssetStore interface {
	// Exists reports whether a file with the given name is already stored.
	Exists(name string) bool

	// Create writes r to name atomically and returns the number of bytes written.
	// A partially written file is never visible under name.
	Create(ctx context.Context, name string, r io.Reader) (int64, error)
}
