package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/backmassage/assetpress/internal/naming"
	"github.com/backmassage/assetpress/internal/report"
)

const (
	remoteTimeout   = 30 * time.Second
	remoteCacheSize = 1024
)

// AuditURL fetches the page at pageURL and audits every image it references
// through <img src>, <img srcset> and <source srcset>. Each resource is
// reported once; repeated references are sized from the cache. An image
// counts as covered by a modern format when it is itself .webp/.avif or when
// a .webp URL with the same file stem appears anywhere on the page. A nil
// client uses a client with a 30s timeout.
func AuditURL(ctx context.Context, pageURL string, client *http.Client, log logger) (*AuditReport, error) {
	sizer := newRemoteSizer(client)
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	log.Info("Auditing images on: %s", pageURL)

	doc, err := sizer.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	refs := PageImages(doc, base)
	log.Debug("Found %d image references", len(refs))

	webpStems := make(map[string]bool)
	for _, u := range refs {
		if ext := urlExt(u); ext == ".webp" {
			webpStems[naming.Stem(path.Base(u.Path))] = true
		}
	}

	rep := &AuditReport{Source: pageURL}
	reported := make(map[string]bool, len(refs))
	for _, u := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := u.String()
		// Repeats are answered by the cache and reported only once.
		size, err := sizer.Size(ctx, raw)
		if reported[raw] {
			continue
		}
		reported[raw] = true
		if err != nil {
			log.Debug("Cannot size %s: %v", raw, err)
			rep.Skipped = append(rep.Skipped, raw)
			continue
		}
		rep.Totals.Add(size, 0)
		if size > report.OversizedBytes {
			rep.Oversized = append(rep.Oversized, report.Finding{Kind: report.Oversized, Path: raw, Name: raw, Size: size})
		}
		ext := urlExt(u)
		if ext == ".webp" || ext == ".avif" {
			continue
		}
		if !webpStems[naming.Stem(path.Base(u.Path))] {
			rep.MissingModern = append(rep.MissingModern, report.Finding{Kind: report.MissingModernFormat, Path: raw, Name: raw, Size: size})
		}
	}
	return rep, nil
}

// logger is the subset of *logging.Logger used by AuditURL.
type logger interface {
	Info(string, ...interface{})
	Debug(string, ...interface{})
}

// PageImages returns every image reference in doc in document order,
// resolved against base (or the document's <base href>). A resource
// referenced twice appears twice. data: URLs are ignored.
func PageImages(doc *html.Node, base *url.URL) []*url.URL {
	var out []*url.URL
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.HasPrefix(strings.ToLower(ref), "data:") {
			return
		}
		u, err := base.Parse(ref)
		if err != nil {
			return
		}
		u.Fragment = ""
		out = append(out, u)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Base:
				if href, ok := attr(n, "href"); ok {
					if b, err := base.Parse(href); err == nil {
						base = b
					}
				}
			case atom.Img:
				if src, ok := attr(n, "src"); ok {
					add(src)
				}
				if set, ok := attr(n, "srcset"); ok {
					for _, c := range parseSrcset(set) {
						add(c)
					}
				}
			case atom.Source:
				if set, ok := attr(n, "srcset"); ok {
					for _, c := range parseSrcset(set) {
						add(c)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// parseSrcset returns the URL of each srcset candidate ("url 2x, url 640w").
func parseSrcset(s string) []string {
	var urls []string
	for _, cand := range strings.Split(s, ",") {
		fields := strings.Fields(cand)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

func urlExt(u *url.URL) string {
	return strings.ToLower(path.Ext(u.Path))
}

// remoteSizer measures remote resources, caching sizes per URL.
type remoteSizer struct {
	client *http.Client
	cache  *lru.Cache[string, int64]
}

func newRemoteSizer(client *http.Client) *remoteSizer {
	if client == nil {
		client = &http.Client{Timeout: remoteTimeout}
	}
	cache, _ := lru.New[string, int64](remoteCacheSize)
	return &remoteSizer{client: client, cache: cache}
}

var (
	errHTTPStatus  = errors.New("unexpected HTTP status")
	errUnreachable = errors.New("resource unreachable")
)

// unreachable marks a cached failed lookup.
const unreachable int64 = -1

func (s *remoteSizer) fetchPage(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: %w: %s", errHTTPStatus, resp.Status)
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// Size returns the byte size of the resource at u: the HEAD Content-Length
// when the server reports one, otherwise the length of a GET body. Results,
// failures included, are cached per URL.
func (s *remoteSizer) Size(ctx context.Context, u string) (int64, error) {
	if n, ok := s.cache.Get(u); ok {
		if n == unreachable {
			return 0, errUnreachable
		}
		return n, nil
	}
	n, err := s.head(ctx, u)
	if err != nil || n < 0 {
		n, err = s.get(ctx, u)
	}
	if err != nil {
		if ctx.Err() == nil {
			s.cache.Add(u, unreachable)
		}
		return 0, err
	}
	s.cache.Add(u, n)
	return n, nil
}

func (s *remoteSizer) head(ctx context.Context, u string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s", errHTTPStatus, resp.Status)
	}
	return resp.ContentLength, nil
}

func (s *remoteSizer) get(ctx context.Context, u string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s", errHTTPStatus, resp.Status)
	}
	return io.Copy(io.Discard, resp.Body)
}
