package seoAnalysis

import (
	"context"

	"SEO_Analysis/internal/models"
)

// AnalysisService defines the interface for customer SEO analysis
// External packages should use this interface, not the concrete implementations
type AnalysisService interface {
	AnalyzeCustomerSeo(ctx context.Context, websiteURL string, keywords []string) (*models.AnalysisResult, error)
}
