package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seolens/seo-analyzer/internal/model"
	"github.com/seolens/seo-analyzer/internal/platform/errs"
)

// mockProvider implements SEOProvider for testing.
type mockProvider struct {
	result *model.AnalysisResult
	err    error
}

func (m *mockProvider) Analyze(_ context.Context, _ string) (*model.AnalysisResult, error) {
	return m.result, m.err
}

func newTestMux(provider SEOProvider) *http.ServeMux {
	logger := slog.Default()
	svc := NewService(provider, logger)
	transport := NewTransport(svc, logger)
	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)
	return mux
}

func TestHandleAnalyze_Success(t *testing.T) {
	provider := &mockProvider{
		result: &model.AnalysisResult{
			RequestedURL: "example.com",
			FinalURL:     "https://example.com/",
			HTTP:         model.HTTPInfo{StatusCode: 200, ContentType: "text/html"},
			HTML: model.HTMLInfo{
				Title:     model.TitleInfo{Text: "Example", Length: 7},
				WordCount: 420,
			},
			Links: model.LinkInfo{InternalCount: 6, ExternalCount: 2},
			Recommendations: []model.Recommendation{
				{Category: "title", Message: "short", Purpose: "p", Severity: "medium"},
			},
			RecommendationsByCategory: map[string][]model.Recommendation{
				"title": {{Category: "title", Message: "short", Purpose: "p", Severity: "medium"}},
			},
		},
	}
	mux := newTestMux(provider)

	body := `{"url": "example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result model.AnalysisResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.HTML.Title.Text != "Example" {
		t.Errorf("Title = %q, want %q", result.HTML.Title.Text, "Example")
	}
	if len(result.RecommendationsByCategory["title"]) != 1 {
		t.Errorf("title recommendations = %v", result.RecommendationsByCategory)
	}
}

func TestHandleAnalyze_EmptyURL(t *testing.T) {
	mux := newTestMux(&mockProvider{})

	body := `{"url": ""}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleAnalyze_MissingBody(t *testing.T) {
	mux := newTestMux(&mockProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		kind       errs.Kind
		wantStatus int
	}{
		{name: "invalid input", kind: errs.InvalidInput, wantStatus: http.StatusBadRequest},
		{name: "connection failed", kind: errs.ConnectionFailed, wantStatus: http.StatusBadGateway},
		{name: "timeout", kind: errs.Timeout, wantStatus: http.StatusGatewayTimeout},
		{name: "tls failure", kind: errs.TLSFailure, wantStatus: http.StatusBadGateway},
		{name: "too many redirects", kind: errs.TooManyRedirects, wantStatus: http.StatusBadGateway},
		{name: "non-html content", kind: errs.NonHTMLContent, wantStatus: http.StatusUnprocessableEntity},
		{name: "response too large", kind: errs.ResponseTooLarge, wantStatus: http.StatusBadGateway},
		{name: "parsing failed", kind: errs.ParsingFailed, wantStatus: http.StatusInternalServerError},
		{name: "unknown", kind: errs.Unknown, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(&mockProvider{
				err: &errs.AppError{Kind: tt.kind, Message: "boom"},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"https://example.com"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp model.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("body status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Message != "boom" {
				t.Errorf("message = %q, want %q", resp.Message, "boom")
			}
		})
	}
}

func TestHandleAnalyze_UnexpectedError(t *testing.T) {
	mux := newTestMux(&mockProvider{err: context.Canceled})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHandleHealth(t *testing.T) {
	mux := newTestMux(&mockProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %q, want %q", resp["status"], "ok")
	}
}
