package analyzer

import (
	"context"

	"github.com/seolens/seo-analyzer/internal/model"
)

// SEOProvider defines the contract for any analysis engine.
type SEOProvider interface {
	Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error)
}
