package mock

import (
	"context"
	"io"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.AssetResolver = (*AssetResolver)(nil)

// AssetResolver is a mock implementation of mdmirror.AssetResolver.
type AssetResolver struct {
	ResolveImageFn func(ctx context.Context, identity string) string
}

func (r *AssetResolver) ResolveImage(ctx context.Context, identity string) string {
	return r.ResolveImageFn(ctx, identity)
}

var _ mdmirror.AssetStore = (*AssetStore)(nil)

// AssetStore is a mock implementation of mdmirror.AssetStore.
type AssetStore struct {
	ExistsFn func(name string) bool
	CreateFn func(ctx context.Context, name string, r io.Reader) (int64, error)
}

func (s *AssetStore) Exists(name string) bool {
	return s.ExistsFn(name)
}

func (s *AssetStore) Create(ctx context.Context, name string, r io.Reader) (int64, error) {
	return s.CreateFn(ctx, name, r)
}
