package mocks

import (
	"context"

	"SEO_Analysis/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockAnalysisService is a mock implementation of seoAnalysis.AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

// AnalyzeCustomerSeo mocks the AnalyzeCustomerSeo method of seoAnalysis.AnalysisService
func (m *MockAnalysisService) AnalyzeCustomerSeo(ctx context.Context, websiteURL string, keywords []string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, websiteURL, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}
