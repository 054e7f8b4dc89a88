package seo

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxH1Samples       = 20
	maxImageAltSamples = 10
)

// Snapshot is the normalized set of on-page signals extracted from the fetched
// markup. Every field an extraction rule cannot locate stays at its zero
// value; extraction itself never fails on malformed markup.
type Snapshot struct {
	Title                  string
	TitleLength            int
	MetaDescriptionPresent bool
	MetaDescription        string
	H1Count                int
	H1Texts                []string
	Canonical              string
	Lang                   string
	WordCount              int
	ImagesTotal            int
	ImagesWithoutAlt       int
	ImagesWithoutAltSample []string
	OpenGraphPresent       bool
	TwitterCardPresent     bool
	OGImage                string
	HasViewport            bool
	HasJSONLD              bool
	RawAnchors             []string
}

// Extract parses the fetched markup into a Snapshot. The underlying parser
// repairs malformed and incomplete documents, so recoverable structural
// errors never surface; a completely unreadable input yields an empty
// Snapshot.
func Extract(body []byte, finalURL *url.URL) *Snapshot {
	snap := &Snapshot{}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return snap
	}

	snap.Title = strings.TrimSpace(doc.Find("title").First().Text())
	snap.TitleLength = len([]rune(snap.Title))

	extractMetaDescription(doc, snap)
	extractHeadings(doc, snap)
	extractCanonical(doc, snap, finalURL)
	extractSocialTags(doc, snap, finalURL)
	extractImages(doc, snap, finalURL)

	snap.Lang = strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	snap.HasViewport = doc.Find(`meta[name="viewport"]`).Length() > 0
	snap.HasJSONLD = doc.Find(`script[type="application/ld+json"]`).Length() > 0

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			snap.RawAnchors = append(snap.RawAnchors, href)
		}
	})

	// Word counting strips non-content nodes from the tree, so it must run
	// after every other extraction.
	doc.Find("script, style, noscript").Remove()
	snap.WordCount = len(strings.Fields(doc.Text()))

	return snap
}

// extractMetaDescription records the first meta tag whose name or property is
// "description". Present reflects tag existence even when content is empty.
func extractMetaDescription(doc *goquery.Document, snap *Snapshot) {
	doc.Find("meta").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		name := m.AttrOr("name", m.AttrOr("property", ""))
		if !strings.EqualFold(name, "description") {
			return true
		}
		snap.MetaDescriptionPresent = true
		snap.MetaDescription = strings.TrimSpace(m.AttrOr("content", ""))
		return false
	})
}

func extractHeadings(doc *goquery.Document, snap *Snapshot) {
	doc.Find("h1").Each(func(_ int, h *goquery.Selection) {
		snap.H1Count++
		if len(snap.H1Texts) < maxH1Samples {
			snap.H1Texts = append(snap.H1Texts, strings.TrimSpace(h.Text()))
		}
	})
}

// extractCanonical resolves the first canonical link href against the final
// URL. Rel is matched as a space-separated token list.
func extractCanonical(doc *goquery.Document, snap *Snapshot, finalURL *url.URL) {
	doc.Find("link[rel]").EachWithBreak(func(_ int, l *goquery.Selection) bool {
		if !hasRelToken(l.AttrOr("rel", ""), "canonical") {
			return true
		}
		href := strings.TrimSpace(l.AttrOr("href", ""))
		if href == "" {
			return true
		}
		snap.Canonical = resolveHref(href, finalURL)
		return false
	})
}

func hasRelToken(rel, want string) bool {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, want) {
			return true
		}
	}
	return false
}

// extractSocialTags detects any og:* property and any twitter:* name, and
// captures the Open Graph image for downstream preview use.
func extractSocialTags(doc *goquery.Document, snap *Snapshot, finalURL *url.URL) {
	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		property := strings.ToLower(m.AttrOr("property", ""))
		name := strings.ToLower(m.AttrOr("name", ""))

		if strings.HasPrefix(property, "og:") {
			snap.OpenGraphPresent = true
			if property == "og:image" && snap.OGImage == "" {
				if img := strings.TrimSpace(m.AttrOr("content", "")); img != "" {
					snap.OGImage = resolveHref(img, finalURL)
				}
			}
		}
		if strings.HasPrefix(name, "twitter:") {
			snap.TwitterCardPresent = true
		}
	})
}

func extractImages(doc *goquery.Document, snap *Snapshot, finalURL *url.URL) {
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		snap.ImagesTotal++
		if strings.TrimSpace(img.AttrOr("alt", "")) != "" {
			return
		}
		snap.ImagesWithoutAlt++
		if len(snap.ImagesWithoutAltSample) >= maxImageAltSamples {
			return
		}
		if src := strings.TrimSpace(img.AttrOr("src", "")); src != "" {
			snap.ImagesWithoutAltSample = append(snap.ImagesWithoutAltSample, resolveHref(src, finalURL))
		}
	})
}

// resolveHref resolves ref against base, returning ref unchanged when it does
// not parse as a URL reference.
func resolveHref(ref string, base *url.URL) string {
	parsed, err := url.Parse(ref)
	if err != nil || base == nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
