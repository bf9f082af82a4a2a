package seoAnalysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"SEO_Analysis/internal/cache"
	"SEO_Analysis/internal/cache/providerCache"
	"SEO_Analysis/internal/extraction"
	"SEO_Analysis/internal/mocks"
	"SEO_Analysis/internal/models"
	"SEO_Analysis/internal/provider"
	"SEO_Analysis/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func serpResponse(items string) *models.ProviderResponse {
	return &models.ProviderResponse{
		Operation: provider.OperationSerpResults,
		Payload:   json.RawMessage(`{"status_code":20000,"tasks":[{"result":[{"items":[` + items + `]}]}]}`),
	}
}

func keywordResponse(rows string) *models.ProviderResponse {
	return &models.ProviderResponse{
		Operation: provider.OperationKeywordData,
		Payload:   json.RawMessage(`{"status_code":20000,"tasks":[{"result":[` + rows + `]}]}`),
	}
}

func auditResponse() *models.ProviderResponse {
	return &models.ProviderResponse{
		Operation: provider.OperationTechnicalAudit,
		Payload:   json.RawMessage(`{"status_code":20000,"tasks":[]}`),
	}
}

func newTestService(p provider.Service) *Service {
	return newService(p, extraction.NewExtractor(), mocks.NewPermissiveLogger(), 4, func() time.Time { return fixedNow })
}

func TestService_AnalyzeCustomerSeo_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		keywords []string
	}{
		{name: "empty url", url: "", keywords: []string{"seo"}},
		{name: "blank url", url: "   ", keywords: []string{"seo"}},
		{name: "nil keywords", url: "mysite.com", keywords: nil},
		{name: "empty keywords", url: "mysite.com", keywords: []string{}},
		{name: "blank keyword", url: "mysite.com", keywords: []string{"seo", " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProvider := &mocks.MockProvider{}
			service := newTestService(mockProvider)

			result, err := service.AnalyzeCustomerSeo(context.Background(), tt.url, tt.keywords)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidArgument))
			mockProvider.AssertNotCalled(t, "GetSerpResults", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockProvider.AssertNotCalled(t, "GetKeywordData", mock.Anything, mock.Anything, mock.Anything)
			mockProvider.AssertNotCalled(t, "GetTechnicalAudit", mock.Anything, mock.Anything)
		})
	}
}

func TestService_AnalyzeCustomerSeo_Success(t *testing.T) {
	mockProvider := &mocks.MockProvider{}
	service := newTestService(mockProvider)
	ctx := context.Background()
	keywords := []string{"seo tools", "seo audit"}

	mockProvider.On("GetSerpResults", ctx, "seo tools", "", "").Return(serpResponse(`
		{"rank_absolute": 1, "url": "https://rival.com", "title": "Rival"},
		{"rank_absolute": 2, "url": "https://mysite.com/tools"},
		{"rank_absolute": 3, "url": "https://other.com"}
	`))
	mockProvider.On("GetSerpResults", ctx, "seo audit", "", "").Return(serpResponse(`
		{"rank_absolute": 1, "url": "https://other.com"},
		{"rank_absolute": 2, "url": "https://rival.com"}
	`))
	mockProvider.On("GetKeywordData", ctx, keywords, "").Return(keywordResponse(`
		{"keyword": "seo tools", "search_volume": 900, "keyword_difficulty": 40},
		{"keyword": "seo audit", "search_volume": 300, "keyword_difficulty": 20}
	`))
	mockProvider.On("GetTechnicalAudit", ctx, "https://mysite.com").Return(auditResponse())

	result, err := service.AnalyzeCustomerSeo(ctx, "https://mysite.com", keywords)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "https://mysite.com", result.WebsiteURL)
	assert.Equal(t, fixedNow, result.Timestamp)
	assert.False(t, result.Degraded)
	assert.Empty(t, result.DegradedSources)

	require.Len(t, result.KeywordRankings, 2)
	tools := result.KeywordRankings["seo tools"]
	require.NotNil(t, tools.CurrentRank)
	assert.Equal(t, 2, *tools.CurrentRank)
	assert.Len(t, tools.Competitors, 2)
	assert.Nil(t, result.KeywordRankings["seo audit"].CurrentRank)

	assert.Equal(t, models.KeywordMetric{SearchVolume: 900, Difficulty: 40}, result.KeywordData["seo tools"])
	assert.Equal(t, models.KeywordMetric{SearchVolume: 300, Difficulty: 20}, result.KeywordData["seo audit"])

	// rival: (1+2)/2, other: (3+1)/2
	require.Len(t, result.Competitors, 2)
	assert.Equal(t, "https://rival.com", result.Competitors[0].URL)
	assert.Equal(t, 1.5, result.Competitors[0].AverageRank)
	assert.Equal(t, "https://other.com", result.Competitors[1].URL)
	assert.Equal(t, 2.0, result.Competitors[1].AverageRank)

	assert.Len(t, result.TechnicalAudit.Critical, 2)
	assert.Len(t, result.TechnicalAudit.Warnings, 2)
	assert.Len(t, result.TechnicalAudit.Recommendations, 3)

	mockProvider.AssertExpectations(t)
}

func TestService_AnalyzeCustomerSeo_DegradedSources(t *testing.T) {
	mockProvider := &mocks.MockProvider{}
	service := newTestService(mockProvider)
	ctx := context.Background()

	synthetic := func(op string) *models.ProviderResponse {
		return &models.ProviderResponse{Operation: op, Payload: provider.SyntheticPayload(op), Synthetic: true}
	}

	mockProvider.On("GetSerpResults", ctx, "a", "", "").Return(serpResponse(`{"rank_absolute": 1, "url": "https://x.com"}`))
	mockProvider.On("GetSerpResults", ctx, "b", "", "").Return(synthetic(provider.OperationSerpResults))
	mockProvider.On("GetKeywordData", ctx, []string{"a", "b"}, "").Return(keywordResponse(`{"keyword": "a", "search_volume": 10}`))
	mockProvider.On("GetTechnicalAudit", ctx, "mysite.com").Return(synthetic(provider.OperationTechnicalAudit))

	result, err := service.AnalyzeCustomerSeo(ctx, "mysite.com", []string{"a", "b"})

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, []string{"serp:b", "technical_audit"}, result.DegradedSources)
}

func TestService_AnalyzeCustomerSeo_DuplicateKeywords(t *testing.T) {
	mockProvider := &mocks.MockProvider{}
	service := newTestService(mockProvider)
	ctx := context.Background()

	mockProvider.On("GetSerpResults", ctx, "seo", "", "").Return(serpResponse(`{"rank_absolute": 3, "url": "https://rival.com"}`)).Times(2)
	mockProvider.On("GetKeywordData", ctx, []string{"seo", "seo"}, "").Return(keywordResponse(``))
	mockProvider.On("GetTechnicalAudit", ctx, "mysite.com").Return(auditResponse())

	result, err := service.AnalyzeCustomerSeo(ctx, "mysite.com", []string{"seo", "seo"})

	require.NoError(t, err)
	assert.Len(t, result.KeywordRankings, 1)
	require.Len(t, result.Competitors, 1)
	assert.Equal(t, []models.KeywordRank{{Keyword: "seo", Rank: 3}}, result.Competitors[0].KeywordsRankingFor)
	mockProvider.AssertNumberOfCalls(t, "GetSerpResults", 2)
}

func TestService_AnalyzeCustomerSeo_StepPanicLeavesDefaults(t *testing.T) {
	mockProvider := &mocks.MockProvider{}
	service := newTestService(mockProvider)
	ctx := context.Background()

	mockProvider.On("GetSerpResults", ctx, "seo", "", "").Return(serpResponse(`{"rank_absolute": 1, "url": "https://mysite.com"}`))
	mockProvider.On("GetKeywordData", ctx, []string{"seo"}, "").Run(func(mock.Arguments) {
		panic("boom")
	}).Return(keywordResponse(``))
	mockProvider.On("GetTechnicalAudit", ctx, "mysite.com").Return(auditResponse())

	result, err := service.AnalyzeCustomerSeo(ctx, "mysite.com", []string{"seo"})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.KeywordData)
	assert.Empty(t, result.KeywordData)
	require.NotNil(t, result.KeywordRankings["seo"].CurrentRank)
	assert.Equal(t, 1, *result.KeywordRankings["seo"].CurrentRank)
}

func TestService_AnalyzeCustomerSeo_Cancelled(t *testing.T) {
	mockProvider := &mocks.MockProvider{}
	service := newTestService(mockProvider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synthetic := &models.ProviderResponse{Payload: json.RawMessage(`{}`), Synthetic: true}
	mockProvider.On("GetSerpResults", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(synthetic).Maybe()
	mockProvider.On("GetKeywordData", mock.Anything, mock.Anything, mock.Anything).Return(synthetic).Maybe()
	mockProvider.On("GetTechnicalAudit", mock.Anything, mock.Anything).Return(synthetic).Maybe()

	result, err := service.AnalyzeCustomerSeo(ctx, "mysite.com", []string{"seo"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

// newRealService wires the concrete provider client against baseURL
func newRealService(baseURL string) *Service {
	quiet := mocks.NewPermissiveLogger()
	pc := providerCache.New(cache.NewMemoryCache(), quiet, time.Hour)
	client := provider.NewDataForSEOClient(provider.Options{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, pc, ratelimit.NewSharedLimiter(100), quiet)
	return newService(client, extraction.NewExtractor(), quiet, 4, func() time.Time { return fixedNow })
}

func TestService_AnalyzeCustomerSeo_ProviderAlwaysFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	service := newRealService(url)

	result, err := service.AnalyzeCustomerSeo(context.Background(), "example.com", []string{"seo services"})

	require.NoError(t, err)
	require.NotNil(t, result)

	ranking, ok := result.KeywordRankings["seo services"]
	require.True(t, ok)
	require.NotNil(t, ranking.CurrentRank)
	assert.Equal(t, 1, *ranking.CurrentRank)
	require.Len(t, ranking.Competitors, 2)
	assert.Equal(t, "https://competitor1.com", ranking.Competitors[0].URL)
	assert.Equal(t, 2, ranking.Competitors[0].Rank)

	assert.Equal(t, models.KeywordMetric{SearchVolume: 1000, Difficulty: 45}, result.KeywordData["example keyword"])
	assert.True(t, result.Degraded)
	assert.Equal(t, []string{"serp:seo services", "keyword_data", "technical_audit"}, result.DegradedSources)
}

func TestService_AnalyzeCustomerSeo_WarmCacheMakesNoProviderCalls(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch {
		case strings.HasSuffix(r.URL.Path, provider.EndpointSerpResults):
			_, _ = w.Write([]byte(`{"status_code":20000,"status_message":"Ok.","tasks":[{"result":[{"items":[
				{"rank_absolute": 1, "url": "https://rival.com"},
				{"rank_absolute": 2, "url": "https://mysite.com"}
			]}]}]}`))
		case strings.HasSuffix(r.URL.Path, provider.EndpointKeywordData):
			_, _ = w.Write([]byte(`{"status_code":20000,"tasks":[{"result":[{"keyword":"a","search_volume":5,"keyword_difficulty":1}]}]}`))
		default:
			_, _ = w.Write([]byte(`{"status_code":20000,"tasks":[]}`))
		}
	}))
	defer server.Close()

	service := newRealService(server.URL)
	ctx := context.Background()
	keywords := []string{"a", "b"}

	first, err := service.AnalyzeCustomerSeo(ctx, "mysite.com", keywords)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))

	second, err := service.AnalyzeCustomerSeo(ctx, "mysite.com", keywords)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits), "second analysis should be served from cache")

	assert.Equal(t, first, second)
	assert.False(t, second.Degraded)
}
