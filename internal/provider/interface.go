package provider

import (
	"context"

	"SEO_Analysis/internal/models"
)

// Service defines the ranking-data provider operations.
// Operations never fail: when the provider cannot be used they return a
// synthetic payload with Synthetic set.
type Service interface {
	GetSerpResults(ctx context.Context, keyword, location, language string) *models.ProviderResponse
	GetKeywordData(ctx context.Context, keywords []string, location string) *models.ProviderResponse
	GetTechnicalAudit(ctx context.Context, domain string) *models.ProviderResponse
	TestConnection(ctx context.Context) *models.ProviderStatus
}
