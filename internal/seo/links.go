package seo

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const (
	maxLinksPerClass = 200
	maxLinkSamples   = 20
)

// LinkClassification partitions the page's resolved anchors into internal and
// external sets relative to the final page origin. InternalCount plus
// ExternalCount equals the number of distinct, scheme-valid, normalized
// anchor targets.
type LinkClassification struct {
	InternalCount int
	ExternalCount int
	Internal      []string
	External      []string
}

// ClassifyLinks resolves raw hrefs against the final URL, drops non-http(s)
// schemes and unresolvable hrefs, deduplicates by normalized URL (fragment
// stripped), and classifies each target by registrable domain. Counts cover
// every distinct target; the retained link lists are capped at 200 per class.
func ClassifyLinks(rawAnchors []string, finalURL *url.URL) LinkClassification {
	var lc LinkClassification
	if finalURL == nil {
		return lc
	}

	seen := make(map[string]struct{}, len(rawAnchors))
	for _, href := range rawAnchors {
		parsed, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}

		resolved := finalURL.ResolveReference(parsed)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}

		resolved.Fragment = ""
		normalized := resolved.String()
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		if sameRegistrableDomain(resolved.Hostname(), finalURL.Hostname()) {
			lc.InternalCount++
			if len(lc.Internal) < maxLinksPerClass {
				lc.Internal = append(lc.Internal, normalized)
			}
		} else {
			lc.ExternalCount++
			if len(lc.External) < maxLinksPerClass {
				lc.External = append(lc.External, normalized)
			}
		}
	}
	return lc
}

// Samples returns the leading links of each class for the result payload.
func (lc LinkClassification) Samples() (internal, external []string) {
	return lc.Internal[:min(len(lc.Internal), maxLinkSamples)],
		lc.External[:min(len(lc.External), maxLinkSamples)]
}

// sameRegistrableDomain reports whether two hosts share an eTLD+1 (so
// blog.example.co.uk and example.co.uk are the same site). Hosts without a
// registrable domain, such as IP literals or single-label names, fall back to
// exact comparison.
func sameRegistrableDomain(hostA, hostB string) bool {
	a, errA := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(hostA))
	b, errB := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(hostB))
	if errA != nil || errB != nil {
		return strings.EqualFold(hostA, hostB)
	}
	return a == b
}
