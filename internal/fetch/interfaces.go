package fetch

import (
	"context"

	"github.com/ytget/app-organizer/internal/imagecache"
)

// IconFetcher produces decoded icon pixels for an app identifier. It is best
// effort: any failure is an error and no partial result is returned.
type IconFetcher interface {
	FetchIcon(ctx context.Context, id string) (imagecache.Pixels, error)
}

// FetcherFunc adapts a function to IconFetcher
type FetcherFunc func(ctx context.Context, id string) (imagecache.Pixels, error)

// FetchIcon calls f
func (f FetcherFunc) FetchIcon(ctx context.Context, id string) (imagecache.Pixels, error) {
	return f(ctx, id)
}

// Cache is the part of the image cache the worker writes to.
// *imagecache.Cache satisfies it for any handle type.
type Cache interface {
	Reserve(id string) bool
	Release(id string)
	InsertIfAbsent(id string, pixels imagecache.Pixels) bool
}

// Ensurer defines the interface the UI uses to keep icons cached.
type Ensurer interface {
	SetStoredCallback(func(id string))
	EnsureCached(ids []string)
	Shutdown()
}
