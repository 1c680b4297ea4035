package ui

import (
	"testing"

	"fyne.io/fyne/v2/canvas"

	"github.com/ytget/app-organizer/internal/imagecache"
	"github.com/ytget/app-organizer/internal/model"
)

func TestIconProvider_Missing(t *testing.T) {
	cache := imagecache.New[*canvas.Image]()
	p := NewIconProvider(cache)

	if p.Handle("com.a") != nil || p.Image("com.a") != nil {
		t.Error("Expected nil for a missing icon")
	}

	cache.Reserve("com.a")
	if p.Handle("com.a") != nil {
		t.Error("Expected nil while the icon is being fetched")
	}
}

func TestIconProvider_PromotesOnce(t *testing.T) {
	cache := imagecache.New[*canvas.Image]()
	p := NewIconProvider(cache)
	cache.InsertIfAbsent("com.a", testIconPixels(t))

	first := p.Handle("com.a")
	if first == nil {
		t.Fatal("Expected a handle for decoded pixels")
	}
	if cache.State("com.a") != model.IconStateReady {
		t.Errorf("Expected ready state, got %s", cache.State("com.a"))
	}
	if second := p.Handle("com.a"); second != first {
		t.Error("Expected the same handle on the second call")
	}
	if p.Image("com.a").Bounds().Dx() != 1 {
		t.Error("Expected a 1x1 image")
	}
	if p.Count() != 1 {
		t.Errorf("Expected count 1, got %d", p.Count())
	}
}
