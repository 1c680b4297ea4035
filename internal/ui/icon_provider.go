package ui

import (
	"image"

	"fyne.io/fyne/v2/canvas"

	"github.com/ytget/app-organizer/internal/imagecache"
	"github.com/ytget/app-organizer/internal/model"
)

// IconCache is the image cache specialised to Fyne render handles
type IconCache = imagecache.Cache[*canvas.Image]

// IconProvider turns cached icon pixels into render handles on first use
type IconProvider struct {
	cache *IconCache
}

// NewIconProvider creates a provider over cache
func NewIconProvider(cache *IconCache) *IconProvider {
	return &IconProvider{cache: cache}
}

// Handle returns the render handle for id, promoting decoded pixels the
// first time they are asked for. It returns nil while the icon is missing.
// Must be called on the UI goroutine.
func (p *IconProvider) Handle(id string) *canvas.Image {
	entry, ok := p.cache.Get(id)
	if !ok {
		return nil
	}
	if entry.State == model.IconStateReady {
		return entry.Handle
	}

	handle := canvas.NewImageFromImage(entry.Pixels.Image())
	handle.FillMode = canvas.ImageFillContain
	if p.cache.Promote(id, handle) {
		return handle
	}

	// Someone else promoted in between
	if entry, ok := p.cache.Get(id); ok && entry.State == model.IconStateReady {
		return entry.Handle
	}
	return handle
}

// Image returns the icon bitmap for id, or nil while it is missing
func (p *IconProvider) Image(id string) image.Image {
	if handle := p.Handle(id); handle != nil {
		return handle.Image
	}
	return nil
}

// Count returns how many icons are available
func (p *IconProvider) Count() int {
	return p.cache.Len()
}
