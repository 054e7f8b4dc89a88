package model

// AnalysisResult holds the complete result of analyzing a web page.
type AnalysisResult struct {
	RequestedURL              string                      `json:"requested_url"`
	FinalURL                  string                      `json:"final_url"`
	HTTP                      HTTPInfo                    `json:"http"`
	HTML                      HTMLInfo                    `json:"html"`
	Links                     LinkInfo                    `json:"links"`
	Robots                    RobotsInfo                  `json:"robots"`
	Sitemap                   SitemapInfo                 `json:"sitemap"`
	Recommendations           []Recommendation            `json:"recommendations"`
	RecommendationsByCategory map[string][]Recommendation `json:"recommendations_by_category"`
}

// Recommendation is a single categorized SEO finding. The presentation layer
// turns these into a score; the engine only emits them.
type Recommendation struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Purpose  string `json:"purpose"`
	Severity string `json:"severity"`
}

// HTTPInfo describes the main-page fetch.
type HTTPInfo struct {
	StatusCode          int     `json:"status_code"`
	ResponseTimeSeconds float64 `json:"response_time_seconds"`
	ContentLengthBytes  int64   `json:"content_length_bytes"`
	Server              string  `json:"server,omitempty"`
	ContentType         string  `json:"content_type"`
}

// HTMLInfo is the extracted on-page signal snapshot.
type HTMLInfo struct {
	Title              TitleInfo       `json:"title"`
	MetaDescription    MetaDescription `json:"meta_description"`
	H1                 HeadingInfo     `json:"h1"`
	Canonical          string          `json:"canonical,omitempty"`
	Lang               string          `json:"lang,omitempty"`
	OpenGraphPresent   bool            `json:"open_graph_present"`
	TwitterCardPresent bool            `json:"twitter_card_present"`
	OGImage            string          `json:"og_image,omitempty"`
	HasViewport        bool            `json:"has_viewport"`
	HasJSONLD          bool            `json:"has_json_ld"`
	WordCount          int             `json:"word_count"`
	Images             ImageInfo       `json:"images"`
}

// TitleInfo captures the document title and its trimmed length.
type TitleInfo struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

// MetaDescription captures the description meta tag. Present is true whenever
// the tag exists, even with empty content.
type MetaDescription struct {
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Present bool   `json:"present"`
}

// HeadingInfo counts first-level headings and samples their texts.
type HeadingInfo struct {
	Count int      `json:"count"`
	Texts []string `json:"texts"`
}

// ImageInfo counts images and samples those missing alt text.
type ImageInfo struct {
	Total            int      `json:"total"`
	WithoutAltCount  int      `json:"without_alt_count"`
	SampleWithoutAlt []string `json:"sample_without_alt"`
}

// LinkInfo breaks down the deduplicated links found on the page.
type LinkInfo struct {
	InternalCount  int      `json:"internal_count"`
	ExternalCount  int      `json:"external_count"`
	SampleInternal []string `json:"sample_internal"`
	SampleExternal []string `json:"sample_external"`
}

// RobotsInfo is the best-effort robots.txt probe result. Absence is a normal
// value, never an error.
type RobotsInfo struct {
	Present     bool     `json:"present"`
	URL         string   `json:"url,omitempty"`
	Status      int      `json:"status,omitempty"`
	Sitemaps    []string `json:"sitemaps,omitempty"`
	PageAllowed bool     `json:"page_allowed"`
}

// SitemapInfo is the best-effort sitemap probe result.
type SitemapInfo struct {
	Present  bool   `json:"present"`
	URL      string `json:"url,omitempty"`
	Status   int    `json:"status,omitempty"`
	URLCount int    `json:"url_count,omitempty"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
