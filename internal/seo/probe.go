package seo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/temoto/robotstxt"
)

// RobotsProbe is the best-effort robots.txt check. Absence is a normal value:
// probe failures of any kind (404, timeout, connection error) are absorbed
// into Present=false and never abort the analysis.
type RobotsProbe struct {
	Present     bool
	URL         string
	Status      int
	Sitemaps    []string
	PageAllowed bool
}

// SitemapProbe is the best-effort sitemap check. URLCount is parsed from the
// winning sitemap when it is valid XML within the size cap, 0 otherwise.
type SitemapProbe struct {
	Present  bool
	URL      string
	Status   int
	URLCount int
}

// Prober runs the auxiliary probes against a site origin.
type Prober interface {
	ProbeRobots(ctx context.Context, origin *url.URL, pagePath string) RobotsProbe
	ProbeSitemap(ctx context.Context, origin *url.URL, robots RobotsProbe) SitemapProbe
}

const maxSitemapCandidates = 5

// HTTPProber probes well-known resources with a client on the shorter probe
// timeout budget, separate from the main-page fetch.
type HTTPProber struct {
	client *http.Client
	cfg    Config
}

// NewHTTPProber returns a prober configured per cfg (zero fields take the
// engine defaults).
func NewHTTPProber(cfg Config) *HTTPProber {
	cfg = cfg.withDefaults()
	return &HTTPProber{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.ProbeTimeout,
			Transport: &http.Transport{
				DialContext:         safeDialer(cfg.ProbeTimeout).DialContext,
				MaxConnsPerHost:     4,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// ProbeRobots fetches {origin}/robots.txt. On 200 it parses the file to
// collect declared sitemaps and to test whether pagePath is allowed for the
// wildcard agent. PageAllowed defaults to true whenever the file is absent
// or unparseable.
func (p *HTTPProber) ProbeRobots(ctx context.Context, origin *url.URL, pagePath string) RobotsProbe {
	probe := RobotsProbe{
		URL:         origin.JoinPath("/robots.txt").String(),
		PageAllowed: true,
	}

	status, body, err := p.get(ctx, probe.URL, 512<<10)
	probe.Status = status
	if err != nil || status != http.StatusOK {
		return probe
	}
	probe.Present = true

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return probe
	}
	probe.Sitemaps = data.Sitemaps
	if group := data.FindGroup("*"); group != nil {
		probe.PageAllowed = group.Test(pagePath)
	}
	return probe
}

// ProbeSitemap tries robots-declared sitemaps first, then the conventional
// {origin}/sitemap.xml. The first candidate answering 200 wins.
func (p *HTTPProber) ProbeSitemap(ctx context.Context, origin *url.URL, robots RobotsProbe) SitemapProbe {
	candidates := append([]string{}, robots.Sitemaps...)
	candidates = append(candidates, origin.JoinPath("/sitemap.xml").String())
	if len(candidates) > maxSitemapCandidates {
		candidates = candidates[:maxSitemapCandidates]
	}

	for _, candidate := range candidates {
		status, body, err := p.get(ctx, candidate, p.cfg.MaxSitemapBytes)
		if err != nil || status != http.StatusOK {
			continue
		}
		return SitemapProbe{
			Present:  true,
			URL:      candidate,
			Status:   status,
			URLCount: countSitemapURLs(body),
		}
	}
	return SitemapProbe{}
}

// get issues a single capped GET; the caller decides what any failure means.
func (p *HTTPProber) get(ctx context.Context, rawURL string, maxBytes int64) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// countSitemapURLs counts <loc> entries in a sitemap or sitemap index,
// ignoring the sitemap namespace. Returns 0 for anything unparseable.
func countSitemapURLs(body []byte) int {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return 0
	}
	return len(xmlquery.Find(doc, "//*[local-name()='loc']"))
}
