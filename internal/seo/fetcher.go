package seo

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/seolens/seo-analyzer/internal/platform/errs"
)

// FetchOutcome records the observable result of the main-page fetch. It is
// produced once by the fetcher and never mutated afterwards.
type FetchOutcome struct {
	FinalURL           string
	StatusCode         int
	ElapsedSeconds     float64
	ContentLengthBytes int64
	ContentType        string
	Server             string
	Body               []byte
}

// Fetcher retrieves the target page.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (*FetchOutcome, error)
}

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// HTTPFetcher implements Fetcher using a real HTTP client with an SSRF-safe
// dialer, a redirect hop limit, and a response body cap. A fetch is attempted
// exactly once; there are no retries, so a failing target is hit at most once
// per analysis.
type HTTPFetcher struct {
	client *http.Client
	cfg    Config
}

// NewHTTPFetcher returns a fetcher configured per cfg (zero fields take the
// engine defaults).
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	cfg = cfg.withDefaults()
	f := &HTTPFetcher{cfg: cfg}
	f.client = &http.Client{
		Timeout: cfg.FetchTimeout,
		Transport: &http.Transport{
			DialContext:         safeDialer(cfg.FetchTimeout).DialContext,
			MaxConnsPerHost:     10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: f.redirectPolicy,
	}
	return f
}

// redirectPolicy validates redirect targets and limits the redirect chain length.
func (f *HTTPFetcher) redirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= f.cfg.MaxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, f.cfg.MaxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch retrieves the page at the given URL and returns the fetch outcome,
// including the fully-read (capped) body. Failures are classified into the
// error taxonomy and abort the whole analysis.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*FetchOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com).",
			Cause:   err,
		}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyFetchError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Read one byte past the cap so an at-cap body is distinguishable from
	// an over-cap one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, classifyFetchError(err)
	}
	elapsed := time.Since(start)

	if int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, &errs.AppError{
			Kind:    errs.ResponseTooLarge,
			Message: "The page is too large to analyze.",
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !looksLikeHTML(contentType, body) {
		return nil, &errs.AppError{
			Kind:           errs.NonHTMLContent,
			UpstreamStatus: resp.StatusCode,
			Message:        "The URL does not appear to return HTML content.",
		}
	}

	return &FetchOutcome{
		FinalURL:           resp.Request.URL.String(),
		StatusCode:         resp.StatusCode,
		ElapsedSeconds:     roundSeconds(elapsed),
		ContentLengthBytes: declaredLength(resp, len(body)),
		ContentType:        contentType,
		Server:             resp.Header.Get("Server"),
		Body:               body,
	}, nil
}

// looksLikeHTML accepts a text/html content type, or a body that starts with
// an HTML doctype when the server mislabels the document.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := strings.TrimSpace(string(body[:min(len(body), 256)]))
	return strings.HasPrefix(strings.ToLower(head), "<!doctype html")
}

// declaredLength prefers the Content-Length header and falls back to the
// number of bytes actually read.
func declaredLength(resp *http.Response, read int) int64 {
	if v := resp.Header.Get("Content-Length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return int64(read)
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

// classifyFetchError maps transport-level failures onto the fetch error
// taxonomy. Order matters: redirect-limit and TLS failures surface as
// url.Error-wrapped net errors too.
func classifyFetchError(err error) *errs.AppError {
	switch {
	case errors.Is(err, errTooManyRedirects):
		return &errs.AppError{
			Kind:    errs.TooManyRedirects,
			Message: "The URL redirected too many times.",
			Cause:   err,
		}
	case isTimeout(err):
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "The target URL took too long to respond.",
			Cause:   err,
		}
	case isTLSFailure(err):
		return &errs.AppError{
			Kind:    errs.TLSFailure,
			Message: "A secure connection to the target URL could not be established.",
			Cause:   err,
		}
	default:
		return &errs.AppError{
			Kind:    errs.ConnectionFailed,
			Message: "The provided URL could not be reached. Check the address.",
			Cause:   err,
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSFailure(err error) bool {
	var (
		certErr     *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		hostnameErr x509.HostnameError
		unknownCA   x509.UnknownAuthorityError
	)
	return errors.As(err, &certErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &unknownCA)
}
