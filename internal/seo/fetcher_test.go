package seo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/seolens/seo-analyzer/internal/platform/errs"
)

// newTestFetcher builds a fetcher on the test server's client so the
// private-address dialer does not reject the loopback listener.
func newTestFetcher(ts *httptest.Server, cfg Config) *HTTPFetcher {
	f := &HTTPFetcher{cfg: cfg.withDefaults()}
	client := ts.Client()
	client.Timeout = f.cfg.FetchTimeout
	client.CheckRedirect = f.redirectPolicy
	f.client = client
	return f
}

func fetchKind(t *testing.T, err error) errs.Kind {
	t.Helper()
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *errs.AppError, got %T (%v)", err, err)
	}
	return appErr.Kind
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	const page = `<!DOCTYPE html><html><head><title>Fetched</title></head><body>hi</body></html>`
	cfg := DefaultConfig()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != cfg.UserAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), cfg.UserAgent)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Server", "testd")
		_, _ = fmt.Fprint(w, page)
	}))
	defer ts.Close()

	f := newTestFetcher(ts, cfg)
	outcome, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", outcome.StatusCode)
	}
	if outcome.FinalURL != ts.URL {
		t.Errorf("FinalURL = %q, want %q", outcome.FinalURL, ts.URL)
	}
	if string(outcome.Body) != page {
		t.Errorf("Body = %q, want page markup", outcome.Body)
	}
	if outcome.ContentType != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", outcome.ContentType)
	}
	if outcome.Server != "testd" {
		t.Errorf("Server = %q, want testd", outcome.Server)
	}
	if outcome.ElapsedSeconds < 0 {
		t.Errorf("ElapsedSeconds = %f, want >= 0", outcome.ElapsedSeconds)
	}
	if outcome.ContentLengthBytes != int64(len(page)) {
		t.Errorf("ContentLengthBytes = %d, want %d", outcome.ContentLengthBytes, len(page))
	}
}

func TestHTTPFetcher_Fetch_RecordsFinalURLAfterRedirect(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landed", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/landed", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>done</body></html>")
	})

	f := newTestFetcher(ts, DefaultConfig())
	outcome, err := f.Fetch(context.Background(), ts.URL+"/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.FinalURL != ts.URL+"/landed" {
		t.Errorf("FinalURL = %q, want %q", outcome.FinalURL, ts.URL+"/landed")
	}
}

func TestHTTPFetcher_Fetch_TooManyRedirects(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ts.URL+"/again", http.StatusFound)
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.MaxRedirects = 3
	f := newTestFetcher(ts, cfg)

	_, err := f.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := fetchKind(t, err); kind != errs.TooManyRedirects {
		t.Errorf("Kind = %d, want TooManyRedirects", kind)
	}
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.FetchTimeout = 50 * time.Millisecond
	f := newTestFetcher(ts, cfg)

	_, err := f.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := fetchKind(t, err); kind != errs.Timeout {
		t.Errorf("Kind = %d, want Timeout", kind)
	}
}

func TestHTTPFetcher_Fetch_NonHTMLContent(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     bool
	}{
		{name: "json response", contentType: "application/json", body: `{"a":1}`, wantErr: true},
		{name: "plain text", contentType: "text/plain", body: "hello", wantErr: true},
		{name: "html content type", contentType: "text/html", body: "<p>hi</p>", wantErr: false},
		{name: "mislabeled html with doctype", contentType: "application/octet-stream", body: "<!DOCTYPE html><html></html>", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			f := newTestFetcher(ts, DefaultConfig())
			_, err := f.Fetch(context.Background(), ts.URL)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if kind := fetchKind(t, err); kind != errs.NonHTMLContent {
				t.Errorf("Kind = %d, want NonHTMLContent", kind)
			}
		})
	}
}

func TestHTTPFetcher_Fetch_ResponseTooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>" + strings.Repeat("a", 4096) + "</html>"))
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 1024
	f := newTestFetcher(ts, cfg)

	_, err := f.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := fetchKind(t, err); kind != errs.ResponseTooLarge {
		t.Errorf("Kind = %d, want ResponseTooLarge", kind)
	}
}

func TestHTTPFetcher_Fetch_ConnectionFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close() // listener gone, connection refused

	f := &HTTPFetcher{cfg: DefaultConfig().withDefaults(), client: &http.Client{Timeout: time.Second}}
	_, err := f.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := fetchKind(t, err); kind != errs.ConnectionFailed {
		t.Errorf("Kind = %d, want ConnectionFailed", kind)
	}
}

func TestRedirectPolicy(t *testing.T) {
	f := NewHTTPFetcher(Config{MaxRedirects: 5})

	tests := []struct {
		name    string
		scheme  string
		via     int
		wantErr bool
	}{
		{name: "https within limit", scheme: "https", via: 3, wantErr: false},
		{name: "too many redirects", scheme: "https", via: 5, wantErr: true},
		{name: "blocked ftp scheme", scheme: "ftp", via: 0, wantErr: true},
		{name: "blocked file scheme", scheme: "file", via: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{Scheme: tt.scheme, Host: "example.com"}}
			via := make([]*http.Request, tt.via)

			err := f.redirectPolicy(req, via)
			if (err != nil) != tt.wantErr {
				t.Errorf("redirectPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
