package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/seolens/seo-analyzer/internal/model"
	"github.com/seolens/seo-analyzer/internal/platform/errs"
	"github.com/seolens/seo-analyzer/internal/platform/requestid"
)

// Service orchestrates an SEOProvider and logs results.
type Service struct {
	provider SEOProvider
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider.
func NewService(provider SEOProvider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Analyze delegates to the provider and logs the outcome.
func (s *Service) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))

	result, err := s.provider.Analyze(ctx, targetURL)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &errs.AppError{
				Kind:    errs.Timeout,
				Message: "Analysis timed out. The target URL may be slow to respond.",
				Cause:   err,
			}
		}

		attrs := []any{"error", err}
		var appErr *errs.AppError
		if errors.As(err, &appErr) && appErr.UpstreamStatus != 0 {
			attrs = append(attrs, "target_status", appErr.UpstreamStatus)
		}
		logger.Error("analysis failed", attrs...)
		return nil, err
	}

	logger.Info("analysis complete",
		"final_url", result.FinalURL,
		"status", result.HTTP.StatusCode,
		"title_length", result.HTML.Title.Length,
		"word_count", result.HTML.WordCount,
		"internal_links", result.Links.InternalCount,
		"external_links", result.Links.ExternalCount,
		"recommendations", len(result.Recommendations),
	)
	return result, nil
}
