package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/mdmirror"
)

// Ensure AssetStore implements mdmirror.AssetStore at compile time.
var _ mdmirror.AssetStore = (*AssetStore)(nil)

// AssetStore stores asset files flat in a single directory.
// Files are written to a temporary name and renamed into place.
type AssetStore struct {
	dir string
}

// NewAssetStore creates an AssetStore rooted at dir.
func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{dir: dir}
}

// Exists reports whether name is already present in the directory.
func (s *AssetStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// Create streams r into name and returns the number of bytes written.
func (s *AssetStore) Create(ctx context.Context, name string, r io.Reader) (n int64, err error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return 0, mdmirror.Errorf(mdmirror.EINVALID, "invalid asset name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	n, err = io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		return n, err
	}
	if err = tmp.Close(); err != nil {
		return n, err
	}
	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return n, err
	}
	if err = os.Chmod(filepath.Join(s.dir, name), 0644); err != nil {
		return n, err
	}
	return n, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
