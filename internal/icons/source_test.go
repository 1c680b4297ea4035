package icons

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/ytget/app-organizer/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func testFetchConfig(serverURL string) config.FetchConfig {
	cfg := config.DefaultConfig().Fetch
	cfg.PageURLTemplate = serverURL + "/store/apps/details?id=%s"
	cfg.Timeout = 5 * time.Second
	return cfg
}

// newStoreServer serves a details page whose icon points at /icon.png
func newStoreServer(t *testing.T, page string, icon []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/store/apps/details", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "com.missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	})
	mux.HandleFunc("/icon.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(icon)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFindIconURL(t *testing.T) {
	classes := []string{"T75of", "sHb2Xb"}
	tests := []struct {
		name     string
		page     string
		expected string
	}{
		{
			name:     "class match",
			page:     `<html><body><img class="x" src="/other.png"><img class="T75of sHb2Xb" src="/icon.png"></body></html>`,
			expected: "/icon.png",
		},
		{
			name:     "class order and extras",
			page:     `<img class="big sHb2Xb T75of" src="https://cdn.example/i.webp">`,
			expected: "https://cdn.example/i.webp",
		},
		{
			name:     "partial class does not match",
			page:     `<img class="T75of" src="/nope.png">`,
			expected: "",
		},
		{
			name:     "og image fallback",
			page:     `<html><head><meta property="og:image" content="https://cdn.example/og.png"></head><body><img src="/x.png"></body></html>`,
			expected: "https://cdn.example/og.png",
		},
		{
			name:     "img preferred over og image",
			page:     `<meta property="og:image" content="/og.png"><img class="T75of sHb2Xb" src="/icon.png">`,
			expected: "/icon.png",
		},
	}

	for _, test := range tests {
		doc, err := html.Parse(strings.NewReader(test.page))
		if err != nil {
			t.Fatalf("%s: parse: %v", test.name, err)
		}
		if got := FindIconURL(doc, classes); got != test.expected {
			t.Errorf("%s: FindIconURL() = %q, expected %q", test.name, got, test.expected)
		}
	}
}

func TestPageURL_EscapesID(t *testing.T) {
	src := NewPlayStoreSource(config.DefaultConfig().Fetch)
	got := src.PageURL("com.example app")
	expected := "https://play.google.com/store/apps/details?id=com.example+app"
	if got != expected {
		t.Errorf("PageURL() = %s, expected %s", got, expected)
	}
}

func TestDownload_ResolvesRelativeIcon(t *testing.T) {
	icon := pngBytes(t, 4, 4)
	srv := newStoreServer(t, `<img class="T75of sHb2Xb" src="/icon.png">`, icon)
	src := NewPlayStoreSource(testFetchConfig(srv.URL))

	iconURL, err := src.IconURL(context.Background(), "com.example")
	if err != nil {
		t.Fatalf("IconURL failed: %v", err)
	}
	if iconURL != srv.URL+"/icon.png" {
		t.Errorf("Expected resolved icon URL, got %s", iconURL)
	}

	data, err := src.Download(context.Background(), "com.example")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !bytes.Equal(data, icon) {
		t.Error("Downloaded bytes differ from served icon")
	}
}

func TestDownload_Errors(t *testing.T) {
	srv := newStoreServer(t, `<html><body>no icon here</body></html>`, nil)
	src := NewPlayStoreSource(testFetchConfig(srv.URL))

	_, err := src.Download(context.Background(), "com.example")
	if !errors.Is(err, ErrIconNotFound) {
		t.Errorf("Expected ErrIconNotFound, got %v", err)
	}

	_, err = src.Download(context.Background(), "com.missing")
	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("Expected ErrBadStatus, got %v", err)
	}
}

func TestDownload_BodyLimit(t *testing.T) {
	page := `<img class="T75of sHb2Xb" src="/icon.png">` + strings.Repeat(" ", 2048)
	srv := newStoreServer(t, page, pngBytes(t, 2, 2))
	cfg := testFetchConfig(srv.URL)
	cfg.MaxBodyBytes = 1024
	src := NewPlayStoreSource(cfg)

	_, err := src.Download(context.Background(), "com.example")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestDownload_UserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := testFetchConfig(srv.URL)
	cfg.UserAgent = "organizer-test"
	src := NewPlayStoreSource(cfg)
	src.Download(context.Background(), "com.example")

	if gotUA != "organizer-test" {
		t.Errorf("Expected user agent organizer-test, got %q", gotUA)
	}
}

func TestDownload_ContextCancelled(t *testing.T) {
	srv := newStoreServer(t, `<img class="T75of sHb2Xb" src="/icon.png">`, pngBytes(t, 1, 1))
	src := NewPlayStoreSource(testFetchConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Download(ctx, "com.example"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
