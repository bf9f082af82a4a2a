package mocks

import (
	"context"

	"SEO_Analysis/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of provider.Service
type MockProvider struct {
	mock.Mock
}

// GetSerpResults mocks the GetSerpResults method of provider.Service
func (m *MockProvider) GetSerpResults(ctx context.Context, keyword, location, language string) *models.ProviderResponse {
	args := m.Called(ctx, keyword, location, language)
	return args.Get(0).(*models.ProviderResponse)
}

// GetKeywordData mocks the GetKeywordData method of provider.Service
func (m *MockProvider) GetKeywordData(ctx context.Context, keywords []string, location string) *models.ProviderResponse {
	args := m.Called(ctx, keywords, location)
	return args.Get(0).(*models.ProviderResponse)
}

// GetTechnicalAudit mocks the GetTechnicalAudit method of provider.Service
func (m *MockProvider) GetTechnicalAudit(ctx context.Context, domain string) *models.ProviderResponse {
	args := m.Called(ctx, domain)
	return args.Get(0).(*models.ProviderResponse)
}

// TestConnection mocks the TestConnection method of provider.Service
func (m *MockProvider) TestConnection(ctx context.Context) *models.ProviderStatus {
	args := m.Called(ctx)
	return args.Get(0).(*models.ProviderStatus)
}
