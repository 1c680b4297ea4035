package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/ytget/app-organizer/internal/config"
)

var (
	// ErrIconNotFound means the store page carries no recognizable icon
	ErrIconNotFound = errors.New("icon not found on store page")

	// ErrBadStatus means the server answered with a non-2xx status
	ErrBadStatus = errors.New("unexpected HTTP status")

	// ErrTooLarge means a response body exceeded the configured limit
	ErrTooLarge = errors.New("response body too large")
)

// Source downloads the encoded icon image for an app identifier
type Source interface {
	Download(ctx context.Context, id string) ([]byte, error)
}

// PlayStoreSource scrapes the store details page for the icon URL
type PlayStoreSource struct {
	client          *http.Client
	pageURLTemplate string
	iconClasses     []string
	userAgent       string
	maxBodyBytes    int64
}

// NewPlayStoreSource creates a source from the fetch configuration
func NewPlayStoreSource(cfg config.FetchConfig) *PlayStoreSource {
	return &PlayStoreSource{
		client:          &http.Client{Timeout: cfg.Timeout},
		pageURLTemplate: cfg.PageURLTemplate,
		iconClasses:     cfg.IconClasses,
		userAgent:       cfg.UserAgent,
		maxBodyBytes:    cfg.MaxBodyBytes,
	}
}

// SetHTTPClient replaces the HTTP client
func (s *PlayStoreSource) SetHTTPClient(client *http.Client) {
	s.client = client
}

// PageURL returns the store page URL for id
func (s *PlayStoreSource) PageURL(id string) string {
	return fmt.Sprintf(s.pageURLTemplate, url.QueryEscape(id))
}

// Download fetches the store page, locates the icon and downloads it
func (s *PlayStoreSource) Download(ctx context.Context, id string) ([]byte, error) {
	iconURL, err := s.IconURL(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.get(ctx, iconURL)
	if err != nil {
		return nil, fmt.Errorf("download icon for %s: %w", id, err)
	}
	return data, nil
}

// IconURL returns the absolute icon URL found on the store page for id
func (s *PlayStoreSource) IconURL(ctx context.Context, id string) (string, error) {
	pageURL := s.PageURL(id)

	page, err := s.get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch store page for %s: %w", id, err)
	}

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse store page for %s: %w", id, err)
	}

	src := FindIconURL(doc, s.iconClasses)
	if src == "" {
		return "", fmt.Errorf("%s: %w", id, ErrIconNotFound)
	}
	return resolveURL(pageURL, src)
}

func (s *PlayStoreSource) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxBodyBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, s.maxBodyBytes)
	}
	return body, nil
}

// FindIconURL returns the src of the first <img> carrying every class in
// classes, falling back to the og:image meta tag. Empty when neither exists.
func FindIconURL(doc *html.Node, classes []string) string {
	var imgSrc, ogImage string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if imgSrc != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "img":
				if hasClasses(attr(n, "class"), classes) {
					imgSrc = strings.TrimSpace(attr(n, "src"))
				}
			case "meta":
				if ogImage == "" && attr(n, "property") == "og:image" {
					ogImage = strings.TrimSpace(attr(n, "content"))
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if imgSrc != "" {
		return imgSrc
	}
	return ogImage
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClasses(classAttr string, want []string) bool {
	if len(want) == 0 {
		return false
	}
	have := make(map[string]struct{})
	for _, c := range strings.Fields(classAttr) {
		have[c] = struct{}{}
	}
	for _, c := range want {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid page URL %q: %w", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid icon URL %q: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
