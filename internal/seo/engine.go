package seo

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/seolens/seo-analyzer/internal/model"
	"github.com/seolens/seo-analyzer/internal/platform/errs"
)

// Engine orchestrates the fetch, the auxiliary probes, signal extraction,
// link classification, and the rule engine for a single page. It holds no
// state across analyses and is safe for concurrent use.
type Engine struct {
	fetcher Fetcher
	prober  Prober
}

// NewEngine returns an Engine backed by the given fetcher and prober.
func NewEngine(fetcher Fetcher, prober Prober) *Engine {
	return &Engine{fetcher: fetcher, prober: prober}
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL trims the input, strips accidental leading '@' characters from
// pasted URLs, and prepends https:// when no scheme is given.
func NormalizeURL(raw string) string {
	raw = strings.TrimLeft(strings.TrimSpace(raw), "@")
	if raw == "" {
		return raw
	}
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}
	return raw
}

// Analyze runs the full pipeline for one URL. The main-page fetch and the
// two auxiliary probes run concurrently and join before extraction; a
// main-fetch failure cancels the probes and aborts, while probe failures are
// absorbed as absent.
func (e *Engine) Analyze(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	target := NormalizeURL(rawURL)

	parsed, err := validateTarget(target)
	if err != nil {
		return nil, err
	}
	origin := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}

	var (
		outcome *FetchOutcome
		robots  RobotsProbe
		sitemap SitemapProbe
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		outcome, fetchErr = e.fetcher.Fetch(gctx, target)
		return fetchErr
	})
	g.Go(func() error {
		// The sitemap probe consumes robots-declared sitemap URLs, so the
		// two probes run sequentially within this task. Neither returns an
		// error; absence is recorded instead.
		robots = e.prober.ProbeRobots(gctx, origin, pagePath(parsed))
		sitemap = e.prober.ProbeSitemap(gctx, origin, robots)
		return nil
	})
	if err := g.Wait(); err != nil {
		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, &errs.AppError{
			Kind:    errs.Unknown,
			Message: "Analysis failed unexpectedly.",
			Cause:   err,
		}
	}

	finalURL, err := url.Parse(outcome.FinalURL)
	if err != nil {
		finalURL = parsed
	}

	snap := Extract(outcome.Body, finalURL)
	links := ClassifyLinks(snap.RawAnchors, finalURL)

	byCategory := Evaluate(Signals{
		Snapshot: snap,
		Links:    links,
		Fetch:    outcome,
		Robots:   robots,
		Sitemap:  sitemap,
	})

	return assemble(rawURL, outcome, snap, links, robots, sitemap, byCategory), nil
}

// validateTarget ensures the normalized URL parses to an http(s) URL with a
// dotted hostname.
func validateTarget(target string) (*url.URL, error) {
	invalid := func(cause error) error {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com).",
			Cause:   cause,
		}
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return nil, invalid(err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Only http and https URLs are supported.",
		}
	}
	if parsed.Host == "" || !strings.Contains(parsed.Hostname(), ".") {
		return nil, invalid(nil)
	}
	return parsed, nil
}

func pagePath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// assemble maps the engine's intermediate values onto the result payload.
// No scoring or severity aggregation happens here; that belongs to the
// presentation layer.
func assemble(
	requestedURL string,
	outcome *FetchOutcome,
	snap *Snapshot,
	links LinkClassification,
	robots RobotsProbe,
	sitemap SitemapProbe,
	byCategory map[Category][]model.Recommendation,
) *model.AnalysisResult {
	sampleInternal, sampleExternal := links.Samples()

	categories := make(map[string][]model.Recommendation, len(byCategory))
	for cat, items := range byCategory {
		categories[string(cat)] = items
	}

	return &model.AnalysisResult{
		RequestedURL: requestedURL,
		FinalURL:     outcome.FinalURL,
		HTTP: model.HTTPInfo{
			StatusCode:          outcome.StatusCode,
			ResponseTimeSeconds: outcome.ElapsedSeconds,
			ContentLengthBytes:  outcome.ContentLengthBytes,
			Server:              outcome.Server,
			ContentType:         outcome.ContentType,
		},
		HTML: model.HTMLInfo{
			Title: model.TitleInfo{
				Text:   snap.Title,
				Length: snap.TitleLength,
			},
			MetaDescription: model.MetaDescription{
				Text:    snap.MetaDescription,
				Length:  len([]rune(snap.MetaDescription)),
				Present: snap.MetaDescriptionPresent,
			},
			H1: model.HeadingInfo{
				Count: snap.H1Count,
				Texts: snap.H1Texts,
			},
			Canonical:          snap.Canonical,
			Lang:               snap.Lang,
			OpenGraphPresent:   snap.OpenGraphPresent,
			TwitterCardPresent: snap.TwitterCardPresent,
			OGImage:            snap.OGImage,
			HasViewport:        snap.HasViewport,
			HasJSONLD:          snap.HasJSONLD,
			WordCount:          snap.WordCount,
			Images: model.ImageInfo{
				Total:            snap.ImagesTotal,
				WithoutAltCount:  snap.ImagesWithoutAlt,
				SampleWithoutAlt: snap.ImagesWithoutAltSample,
			},
		},
		Links: model.LinkInfo{
			InternalCount:  links.InternalCount,
			ExternalCount:  links.ExternalCount,
			SampleInternal: sampleInternal,
			SampleExternal: sampleExternal,
		},
		Robots: model.RobotsInfo{
			Present:     robots.Present,
			URL:         robots.URL,
			Status:      robots.Status,
			Sitemaps:    robots.Sitemaps,
			PageAllowed: robots.PageAllowed,
		},
		Sitemap: model.SitemapInfo{
			Present:  sitemap.Present,
			URL:      sitemap.URL,
			Status:   sitemap.Status,
			URLCount: sitemap.URLCount,
		},
		Recommendations:           Flatten(byCategory),
		RecommendationsByCategory: categories,
	}
}
