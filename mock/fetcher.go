package mock

import (
	"context"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of mdmirror.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ mdmirror.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of mdmirror.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) (*mdmirror.Asset, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) (*mdmirror.Asset, error) {
	return f.FetchAssetFn(ctx, url)
}
