package seo

import (
	"net/url"
	"strings"

	"github.com/seolens/seo-analyzer/internal/model"
)

// Category identifies one of the fixed recommendation categories.
type Category string

const (
	CategoryTitle                Category = "title"
	CategoryMetaDescription      Category = "meta_description"
	CategoryHeadings             Category = "headings"
	CategoryContent              Category = "content"
	CategoryImages               Category = "images"
	CategoryLinks                Category = "links"
	CategoryTechnical            Category = "technical"
	CategoryCanonical            Category = "canonical"
	CategoryInternationalization Category = "internationalization"
	CategorySocial               Category = "social"
	CategoryPerformance          Category = "performance"
	CategoryMobile               Category = "mobile"
	CategoryStructuredData       Category = "structured_data"
	CategoryOffPage              Category = "off_page"
)

// Categories lists every category in declaration order. Flattening the
// per-category findings in this order yields the flat recommendation list.
var Categories = []Category{
	CategoryTitle,
	CategoryMetaDescription,
	CategoryHeadings,
	CategoryContent,
	CategoryImages,
	CategoryLinks,
	CategoryTechnical,
	CategoryCanonical,
	CategoryInternationalization,
	CategorySocial,
	CategoryPerformance,
	CategoryMobile,
	CategoryStructuredData,
	CategoryOffPage,
}

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Thresholds used by the predicates below.
const (
	titleMinLength    = 30
	titleMaxLength    = 65
	metaDescMinLength = 80
	metaDescMaxLength = 170
	minWordCount      = 300
	minInternalLinks  = 5
	maxExternalLinks  = 50
	slowSeconds       = 1.5
	heavyPageBytes    = 2 << 20
)

// Signals is everything the rule engine sees: the snapshot plus the fetch and
// probe results. Predicates read it and nothing else.
type Signals struct {
	Snapshot *Snapshot
	Links    LinkClassification
	Fetch    *FetchOutcome
	Robots   RobotsProbe
	Sitemap  SitemapProbe
}

// rule is one pure predicate with its static finding. Predicates never raise
// on absent snapshot fields; absence is itself the signal for many of them.
type rule struct {
	when     func(s Signals) bool
	message  string
	purpose  string
	severity string
}

// rulesFor returns the ordered predicate list of one category. Within a
// category, findings appear in this declaration order.
func rulesFor(cat Category) []rule {
	switch cat {
	case CategoryTitle:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.TitleLength == 0 },
				message:  "Add a concise, descriptive <title> tag (ideally 50-60 characters, including the main keyword).",
				purpose:  "Improve relevance and click-through rate in search results.",
				severity: SeverityHigh,
			},
			{
				when:     func(s Signals) bool { return s.Snapshot.TitleLength > 0 && s.Snapshot.TitleLength < titleMinLength },
				message:  "The <title> tag is very short; consider adding more context and relevant keywords.",
				purpose:  "Help search engines understand the topic better and attract more qualified clicks.",
				severity: SeverityMedium,
			},
			{
				when:     func(s Signals) bool { return s.Snapshot.TitleLength > titleMaxLength },
				message:  "The <title> tag may be too long; consider shortening it below ~60 characters to avoid truncation.",
				purpose:  "Ensure the full, most important part of the title is visible in search results.",
				severity: SeverityMedium,
			},
		}
	case CategoryMetaDescription:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.MetaDescription == "" },
				message:  "Add a meta description (around 120-155 characters) that summarizes the page and encourages clicks.",
				purpose:  "Improve click-through rate by providing a compelling summary in search snippets.",
				severity: SeverityHigh,
			},
			{
				when: func(s Signals) bool {
					l := len([]rune(s.Snapshot.MetaDescription))
					return l > 0 && l < metaDescMinLength
				},
				message:  "Meta description is quite short; expand it to better describe the content and value of the page.",
				purpose:  "Give users more reasons to click by explaining benefits and key topics.",
				severity: SeverityMedium,
			},
			{
				when:     func(s Signals) bool { return len([]rune(s.Snapshot.MetaDescription)) > metaDescMaxLength },
				message:  "Meta description is long; it may be truncated in search results. Keep it focused and within ~155 characters.",
				purpose:  "Ensure the most important part of the description is visible in the search snippet.",
				severity: SeverityMedium,
			},
		}
	case CategoryHeadings:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.H1Count == 0 },
				message:  "Add at least one H1 heading describing the page's main topic.",
				purpose:  "Clarify the primary topic of the page for both users and search engines.",
				severity: SeverityHigh,
			},
			{
				when:     func(s Signals) bool { return s.Snapshot.H1Count > 1 },
				message:  "Multiple H1 headings found; consider using a single primary H1.",
				purpose:  "Provide a clear, single main topic and avoid confusing page hierarchy.",
				severity: SeverityMedium,
			},
		}
	case CategoryContent:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.WordCount < minWordCount },
				message:  "The page has thin content; aim for at least 300 words of unique, useful copy.",
				purpose:  "Give search engines enough context to understand and rank the page.",
				severity: SeverityMedium,
			},
		}
	case CategoryImages:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.ImagesWithoutAlt > 0 },
				message:  "Add descriptive alt text to all images for accessibility and SEO.",
				purpose:  "Improve accessibility for assistive technologies and give search engines more context.",
				severity: SeverityMedium,
			},
		}
	case CategoryLinks:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Links.InternalCount < minInternalLinks },
				message:  "Add more internal links to related pages to strengthen the site structure.",
				purpose:  "Distribute ranking signals across the site and help crawlers discover content.",
				severity: SeverityMedium,
			},
			{
				when:     func(s Signals) bool { return s.Links.ExternalCount == 0 },
				message:  "Consider adding relevant external references to authoritative sources.",
				purpose:  "Increase topical authority and provide users with high-quality supporting resources.",
				severity: SeverityLow,
			},
			{
				when:     func(s Signals) bool { return s.Links.ExternalCount > maxExternalLinks },
				message:  "The page links out to a large number of external sites; review whether all are necessary.",
				purpose:  "Keep the page focused and avoid diluting its relevance with excessive outbound links.",
				severity: SeverityLow,
			},
		}
	case CategoryTechnical:
		return []rule{
			{
				when: func(s Signals) bool {
					return s.Fetch.StatusCode < 200 || s.Fetch.StatusCode > 299
				},
				message:  "The page returned a non-success HTTP status; make sure the indexable version responds with 200.",
				purpose:  "Pages that do not answer with a success status are dropped from or never enter the index.",
				severity: SeverityHigh,
			},
			{
				when:     func(s Signals) bool { return !s.Robots.Present },
				message:  "Consider adding a robots.txt to control crawler access.",
				purpose:  "Help search engines understand which areas of the site should or should not be crawled.",
				severity: SeverityMedium,
			},
			{
				when:     func(s Signals) bool { return !s.Sitemap.Present },
				message:  "Provide a sitemap.xml and reference it in robots.txt.",
				purpose:  "Help search engines discover and index important pages more efficiently.",
				severity: SeverityMedium,
			},
			{
				when:     func(s Signals) bool { return s.Robots.Present && !s.Robots.PageAllowed },
				message:  "The analyzed path is disallowed for all crawlers in robots.txt; confirm this is intentional.",
				purpose:  "A disallowed page cannot be crawled and will not rank, whatever its content.",
				severity: SeverityHigh,
			},
		}
	case CategoryCanonical:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.Canonical == "" },
				message:  "Add a canonical link tag to signal the preferred URL and avoid duplicate content issues.",
				purpose:  "Consolidate ranking signals and prevent duplicate content from competing in search results.",
				severity: SeverityMedium,
			},
		}
	case CategoryInternationalization:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Snapshot.Lang == "" },
				message:  `Specify the language in the <html lang="..."> attribute so search engines understand the page language.`,
				purpose:  "Ensure the page is targeted to the correct language audience and improves international SEO.",
				severity: SeverityMedium,
			},
		}
	case CategorySocial:
		return []rule{
			{
				when:     func(s Signals) bool { return !s.Snapshot.OpenGraphPresent },
				message:  "Add Open Graph meta tags (og:title, og:description, og:image) to improve how the page looks when shared.",
				purpose:  "Increase engagement on social platforms by showing rich, attractive link previews.",
				severity: SeverityLow,
			},
			{
				when:     func(s Signals) bool { return !s.Snapshot.TwitterCardPresent },
				message:  "Add Twitter Card meta tags (twitter:title, twitter:description, twitter:image) for better display on Twitter / X.",
				purpose:  "Ensure links shared on Twitter / X display with rich cards and clear context.",
				severity: SeverityLow,
			},
		}
	case CategoryPerformance:
		return []rule{
			{
				when:     func(s Signals) bool { return s.Fetch.ElapsedSeconds > slowSeconds },
				message:  "The page responded slowly; aim for a server response under ~1.5 seconds.",
				purpose:  "Faster responses improve crawl efficiency and user experience signals.",
				severity: SeverityMedium,
			},
			{
				when:     func(s Signals) bool { return s.Fetch.ContentLengthBytes > heavyPageBytes },
				message:  "The HTML document is very large; consider trimming markup or deferring non-critical content.",
				purpose:  "Smaller documents download and render faster, especially on mobile connections.",
				severity: SeverityLow,
			},
		}
	case CategoryMobile:
		return []rule{
			{
				when:     func(s Signals) bool { return !s.Snapshot.HasViewport },
				message:  `Add a responsive viewport meta tag (e.g. content="width=device-width, initial-scale=1").`,
				purpose:  "Mobile-first indexing requires pages to render properly on small screens.",
				severity: SeverityHigh,
			},
		}
	case CategoryStructuredData:
		return []rule{
			{
				when:     func(s Signals) bool { return !s.Snapshot.HasJSONLD },
				message:  "Add structured data (JSON-LD) describing the page content.",
				purpose:  "Help search engines show rich results such as breadcrumbs, ratings, and FAQs.",
				severity: SeverityLow,
			},
		}
	case CategoryOffPage:
		return []rule{
			{
				when: func(s Signals) bool {
					return s.Snapshot.Canonical != "" &&
						normalizePageURL(s.Snapshot.Canonical) != normalizePageURL(s.Fetch.FinalURL)
				},
				message:  "The canonical tag points to a different URL; ranking signals consolidate there instead of this page.",
				purpose:  "Verify the canonical target is the page you actually want indexed.",
				severity: SeverityMedium,
			},
		}
	}
	return nil
}

// Evaluate runs every predicate of every category against the signals and
// returns the findings keyed by category. It is a pure function: identical
// inputs always yield identical, identically-ordered output. Categories with
// no findings are omitted from the map.
func Evaluate(s Signals) map[Category][]model.Recommendation {
	byCategory := make(map[Category][]model.Recommendation)
	for _, cat := range Categories {
		for _, r := range rulesFor(cat) {
			if !r.when(s) {
				continue
			}
			byCategory[cat] = append(byCategory[cat], model.Recommendation{
				Category: string(cat),
				Message:  r.message,
				Purpose:  r.purpose,
				Severity: r.severity,
			})
		}
	}
	return byCategory
}

// Flatten concatenates per-category findings in category declaration order.
func Flatten(byCategory map[Category][]model.Recommendation) []model.Recommendation {
	var flat []model.Recommendation
	for _, cat := range Categories {
		flat = append(flat, byCategory[cat]...)
	}
	return flat
}

// normalizePageURL renders a URL in a comparison-stable form: lowercase
// scheme and host, fragment stripped, empty path treated as "/".
func normalizePageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
