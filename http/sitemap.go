package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/bloom"
)

// Ensure SitemapSource implements docscrape.URLSource.
var _ docscrape.URLSource = (*SitemapSource)(nil)

// sitemapFilterSize bounds the approximate dedup filters used during
// sitemap traversal. Large documentation sites rarely exceed this.
const sitemapFilterSize = 100000

// SitemapSource discovers content page URLs from a site's sitemaps. It is
// the fallback discovery path used when a table of contents yields nothing.
type SitemapSource struct {
	client *http.Client
}

// NewSitemapSource creates a SitemapSource backed by the given HTTP client.
// A nil client means http.DefaultClient.
func NewSitemapSource(client *http.Client) *SitemapSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapSource{client: client}
}

// Discover finds page URLs from the site's sitemaps, locating them through
// robots.txt Sitemap directives with a /sitemap.xml fallback. Sitemap index
// files are followed recursively; a seen-filter guards against index cycles.
//
// When baseURL carries a non-root path, only URLs under that path are
// returned, so a TOC at /guide/toc.htm scopes discovery to /guide/.
// Returns an empty slice, not nil, when no sitemap exists.
func (s *SitemapSource) Discover(ctx context.Context, baseURL string, filter *docscrape.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, docscrape.Errorf(docscrape.EINVALID, "invalid base URL: %s", baseURL)
	}

	// Scope to the directory of the base URL. A TOC path like
	// /guide/toc.htm scopes to /guide/.
	pathPrefix := base.Path
	if i := strings.LastIndex(pathPrefix, "/"); i >= 0 {
		pathPrefix = pathPrefix[:i+1]
	}
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	root := *base
	root.Path = ""
	root.RawQuery = ""
	root.Fragment = ""

	sitemapURLs, err := s.locateSitemaps(ctx, &root)
	if err != nil {
		return nil, err
	}
	if len(sitemapURLs) == 0 {
		return []string{}, nil
	}

	seenSitemaps := bloom.NewSeenFilter(sitemapFilterSize, 0.001)
	seenURLs := bloom.NewSeenFilter(sitemapFilterSize, 0.001)

	var urls []string
	for _, sitemapURL := range sitemapURLs {
		found, err := s.walkSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if !s.inScope(u, pathPrefix) {
				continue
			}
			if filter != nil && !filter.Match(u) {
				continue
			}
			if seenURLs.Visit(u) {
				urls = append(urls, u)
			}
		}
	}

	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// inScope reports whether the URL's path falls under the prefix. The prefix
// is matched at a path boundary so /guide never matches /guidelines.
func (s *SitemapSource) inScope(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix)
}

// locateSitemaps finds the site's sitemap URLs, preferring robots.txt
// Sitemap directives over the conventional /sitemap.xml location.
func (s *SitemapSource) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.sitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.exists(ctx, fallback.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{fallback.String()}, nil
	}
	return nil, nil
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapSource) sitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			continue
		}
		if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
			sitemaps = append(sitemaps, u)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// walkSitemap fetches and parses one sitemap document, recursing into
// <sitemapindex> entries and collecting <urlset> locations.
func (s *SitemapSource) walkSitemap(ctx context.Context, sitemapURL string, seen *bloom.SeenFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !seen.Visit(sitemapURL) {
		return nil, nil
	}

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML from %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML at %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, el := range root.SelectElements("sitemap") {
			loc := el.SelectElement("loc")
			if loc == nil {
				continue
			}
			child := strings.TrimSpace(loc.Text())
			if child == "" {
				continue
			}
			found, err := s.walkSitemap(ctx, child, seen)
			if err != nil {
				return nil, err
			}
			urls = append(urls, found...)
		}
		return urls, nil
	}

	var urls []string
	for _, el := range root.SelectElements("url") {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func (s *SitemapSource) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}

func (s *SitemapSource) exists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
