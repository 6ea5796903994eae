// Package scraper implements the high-quality image lookup used to gate
// winner selection. It is best-effort: any failure yields "", never an error
// the caller has to handle.
package scraper

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vitalviral/newsbot/internal/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout keeps image probes cheap; a slow page is treated as having
// no image.
const DefaultTimeout = 5 * time.Second

// ImageClient fetches article pages and extracts their lead image.
type ImageClient struct {
	httpc *http.Client
}

func NewImageClient(timeout time.Duration) *ImageClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ImageClient{httpc: &http.Client{Timeout: timeout}}
}

// FetchImage returns the best image URL advertised by the page, or "" when
// the page is unreachable, unparsable or has none.
func (c *ImageClient) FetchImage(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Debug("image probe failed", "url", pageURL, "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("image probe bad status", "url", pageURL, "status", resp.StatusCode)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	img := extractLeadImage(doc)
	if img == "" {
		return ""
	}
	return resolveURL(pageURL, img)
}

// extractLeadImage tries selectors from most to least reliable.
func extractLeadImage(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find(`link[rel="image_src"]`).Attr("href"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find("article img").First().Attr("src"); ok && v != "" {
		return v
	}
	return ""
}

// resolveURL turns host-relative image paths into absolute URLs on the
// article's host.
func resolveURL(pageURL, img string) string {
	if !strings.HasPrefix(img, "/") {
		return img
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return img
	}
	ref, err := url.Parse(img)
	if err != nil {
		return img
	}
	return base.ResolveReference(ref).String()
}
