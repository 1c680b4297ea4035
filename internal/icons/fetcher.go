package icons

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/ytget/app-organizer/internal/imagecache"
	"github.com/ytget/app-organizer/internal/logging"
)

// ByteStore keeps encoded icon bytes across runs
type ByteStore interface {
	Get(id string) ([]byte, bool, error)
	Put(id string, data []byte) error
	Delete(id string) error
}

// Fetcher turns app identifiers into decoded icons, consulting the byte
// store before the network when one is configured
type Fetcher struct {
	source Source
	store  ByteStore // nil disables persistence
	logger zerolog.Logger
}

// NewFetcher creates a fetcher. store may be nil.
func NewFetcher(source Source, store ByteStore, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		store:  store,
		logger: logging.Component(logger, "icons"),
	}
}

// FetchIcon returns the decoded icon for id
func (f *Fetcher) FetchIcon(ctx context.Context, id string) (imagecache.Pixels, error) {
	if pixels, ok := f.fromStore(id); ok {
		return pixels, nil
	}

	data, err := f.source.Download(ctx, id)
	if err != nil {
		return imagecache.Pixels{}, err
	}

	pixels, err := Decode(data)
	if err != nil {
		return imagecache.Pixels{}, fmt.Errorf("decode icon for %s: %w", id, err)
	}

	if f.store != nil {
		if err := f.store.Put(id, data); err != nil {
			f.logger.Warn().Str("id", id).Err(err).Msg("failed to persist icon")
		}
	}
	return pixels, nil
}

// fromStore decodes stored bytes. Undecodable entries are dropped so the
// next attempt downloads a fresh copy.
func (f *Fetcher) fromStore(id string) (imagecache.Pixels, bool) {
	if f.store == nil {
		return imagecache.Pixels{}, false
	}

	data, ok, err := f.store.Get(id)
	if err != nil {
		f.logger.Warn().Str("id", id).Err(err).Msg("failed to read stored icon")
		return imagecache.Pixels{}, false
	}
	if !ok {
		return imagecache.Pixels{}, false
	}

	pixels, err := Decode(data)
	if err != nil {
		f.logger.Warn().Str("id", id).Err(err).Msg("dropping undecodable stored icon")
		if err := f.store.Delete(id); err != nil {
			f.logger.Warn().Str("id", id).Err(err).Msg("failed to delete stored icon")
		}
		return imagecache.Pixels{}, false
	}
	return pixels, true
}

// Decode decodes PNG, JPEG, GIF or WebP bytes to non-premultiplied RGBA
func Decode(data []byte) (imagecache.Pixels, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return imagecache.Pixels{}, err
	}
	pixels := imagecache.FromImage(img)
	if pixels.IsZero() {
		return imagecache.Pixels{}, fmt.Errorf("image has no pixels")
	}
	return pixels, nil
}
