// Package assets resolves static asset paths against a configured CDN base.
package assets

import (
	"errors"
	"net/url"
	"strings"
)

// ErrAssetPathRequired is returned when an empty asset path is resolved.
var ErrAssetPathRequired = errors.New("asset path is required")

// CDN builds asset URLs from a base URL. The zero value serves assets from
// the site root under /cdn/.
type CDN struct {
	baseURL string
}

// New returns a CDN rooted at baseURL. An empty baseURL falls back to /cdn.
func New(baseURL string) CDN {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return CDN{baseURL: baseURL}
}

// URL resolves assetPath (for example "css/template.css") to a full URL.
func (c CDN) URL(assetPath string) (string, error) {
	assetPath = strings.TrimLeft(strings.TrimSpace(assetPath), "/")
	if assetPath == "" {
		return "", ErrAssetPathRequired
	}
	base := c.baseURL
	if base == "" {
		base = "/cdn"
	}
	return base + "/" + escapePath(assetPath), nil
}

// URLs resolves every path, skipping ones that fail to resolve.
func (c CDN) URLs(assetPaths ...string) []string {
	urls := make([]string, 0, len(assetPaths))
	for _, assetPath := range assetPaths {
		resolved, err := c.URL(assetPath)
		if err != nil {
			continue
		}
		urls = append(urls, resolved)
	}
	return urls
}

func escapePath(assetPath string) string {
	segments := strings.Split(assetPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
