package seo

import "time"

// Config carries all engine tunables explicitly so repeated analyses are
// reproducible and independently testable. The zero value is usable via
// withDefaults.
type Config struct {
	// FetchTimeout bounds the main-page fetch.
	FetchTimeout time.Duration
	// ProbeTimeout bounds each auxiliary probe (robots.txt, sitemap.xml).
	// It should be shorter than FetchTimeout.
	ProbeTimeout time.Duration
	// MaxRedirects limits the redirect chain of the main-page fetch.
	MaxRedirects int
	// MaxBodyBytes caps the main-page response body.
	MaxBodyBytes int64
	// MaxSitemapBytes caps how much of a sitemap is read for URL counting.
	MaxSitemapBytes int64
	// UserAgent is sent on every outbound request.
	UserAgent string
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		FetchTimeout:    15 * time.Second,
		ProbeTimeout:    5 * time.Second,
		MaxRedirects:    10,
		MaxBodyBytes:    10 << 20,
		MaxSitemapBytes: 1 << 20,
		UserAgent:       "Mozilla/5.0 (compatible; SEOLensBot/1.0; +https://seolens.dev/bot)",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = def.ProbeTimeout
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = def.MaxRedirects
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}
	if c.MaxSitemapBytes <= 0 {
		c.MaxSitemapBytes = def.MaxSitemapBytes
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	return c
}
