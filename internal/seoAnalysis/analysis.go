package seoAnalysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SEO_Analysis/internal/extraction"
	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/models"
	"SEO_Analysis/internal/provider"

	"golang.org/x/sync/errgroup"
)

// Degraded source names reported in AnalysisResult.DegradedSources
const (
	SourceKeywordData    = "keyword_data"
	SourceTechnicalAudit = "technical_audit"
	serpSourcePrefix     = "serp:"
)

// Service implements the AnalysisService interface
type Service struct {
	provider      provider.Service
	extractor     extraction.Service
	logger        logger.Service
	maxConcurrent int
	now           func() time.Time
}

// NewService creates a new analysis service. maxConcurrent bounds the
// provider calls in flight for one analysis.
func NewService(
	provider provider.Service,
	extractor extraction.Service,
	logger logger.Service,
	maxConcurrent int,
) AnalysisService {
	return newService(provider, extractor, logger, maxConcurrent, time.Now)
}

func newService(
	provider provider.Service,
	extractor extraction.Service,
	logger logger.Service,
	maxConcurrent int,
	now func() time.Time,
) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Service{
		provider:      provider,
		extractor:     extractor,
		logger:        logger,
		maxConcurrent: maxConcurrent,
		now:           now,
	}
}

// serpOutcome is the per-keyword result slot filled by one worker
type serpOutcome struct {
	ranking   models.RankingInfo
	synthetic bool
}

// AnalyzeCustomerSeo queries the provider for every keyword plus one batched
// keyword-data call and one audit, and folds the responses into a report.
// Only invalid input and cancellation are returned as errors.
func (s *Service) AnalyzeCustomerSeo(ctx context.Context, websiteURL string, keywords []string) (*models.AnalysisResult, error) {
	start := time.Now()

	if err := validateInput(websiteURL, keywords); err != nil {
		s.logger.LogError(ctx, logger.OpSeoAnalysis, websiteURL, "Rejected analysis request", err, models.LogSeverityLow, map[string]interface{}{
			"keywords_count": len(keywords),
		})
		return nil, err
	}

	s.logger.LogInfo(ctx, logger.OpSeoAnalysis, fmt.Sprintf("Starting SEO analysis of %s for %d keywords", websiteURL, len(keywords)), map[string]interface{}{
		"website_url": websiteURL,
		"keywords":    keywords,
	})

	outcomes := make([]serpOutcome, len(keywords))
	var keywordData map[string]models.KeywordMetric
	var audit models.TechnicalAudit
	keywordDataSynthetic, auditSynthetic := false, false

	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)

	for i, keyword := range keywords {
		i, keyword := i, keyword // per-iteration copies for the goroutine (go1.21 loop semantics)
		s.step(ctx, &g, logger.OpSerpResults, keyword, func() {
			resp := s.provider.GetSerpResults(ctx, keyword, "", "")
			outcomes[i] = serpOutcome{
				ranking:   s.extractor.ExtractRanking(resp.Payload, websiteURL),
				synthetic: resp.Synthetic,
			}
		})
	}

	s.step(ctx, &g, logger.OpKeywordData, websiteURL, func() {
		resp := s.provider.GetKeywordData(ctx, keywords, "")
		keywordData = s.extractor.ExtractKeywordMetrics(resp.Payload)
		keywordDataSynthetic = resp.Synthetic
	})

	s.step(ctx, &g, logger.OpTechnicalAudit, websiteURL, func() {
		resp := s.provider.GetTechnicalAudit(ctx, websiteURL)
		audit = s.extractor.ExtractTechnicalIssues(resp.Payload)
		auditSynthetic = resp.Synthetic
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.LogError(ctx, logger.OpSeoAnalysis, websiteURL, "SEO analysis cancelled", err, models.LogSeverityMedium, map[string]interface{}{
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	result := s.assemble(websiteURL, keywords, outcomes, keywordData, audit)

	if keywordDataSynthetic {
		result.DegradedSources = append(result.DegradedSources, SourceKeywordData)
	}
	if auditSynthetic {
		result.DegradedSources = append(result.DegradedSources, SourceTechnicalAudit)
	}
	result.Degraded = len(result.DegradedSources) > 0

	s.logger.LogSuccess(ctx, logger.OpSeoAnalysis, websiteURL, "Completed SEO analysis", map[string]interface{}{
		"keywords_count":    len(result.KeywordRankings),
		"competitors_count": len(result.Competitors),
		"degraded_sources":  result.DegradedSources,
		"duration_ms":       time.Since(start).Milliseconds(),
	})

	return result, nil
}

// assemble builds the report. A repeated keyword keeps its last ranking and is
// aggregated once, at the position it first appeared.
func (s *Service) assemble(
	websiteURL string,
	keywords []string,
	outcomes []serpOutcome,
	keywordData map[string]models.KeywordMetric,
	audit models.TechnicalAudit,
) *models.AnalysisResult {
	rankings := make(map[string]models.RankingInfo, len(keywords))
	var order []string
	seenDegraded := make(map[string]bool)
	var degraded []string

	for i, keyword := range keywords {
		if _, ok := rankings[keyword]; !ok {
			order = append(order, keyword)
		}
		ranking := outcomes[i].ranking
		if ranking.Competitors == nil {
			ranking.Competitors = []models.Competitor{}
		}
		rankings[keyword] = ranking

		if outcomes[i].synthetic && !seenDegraded[keyword] {
			seenDegraded[keyword] = true
			degraded = append(degraded, serpSourcePrefix+keyword)
		}
	}

	ordered := make([]models.KeywordRanking, 0, len(order))
	for _, keyword := range order {
		ordered = append(ordered, models.KeywordRanking{Keyword: keyword, Ranking: rankings[keyword]})
	}

	if keywordData == nil {
		keywordData = map[string]models.KeywordMetric{}
	}
	if audit.Critical == nil {
		audit.Critical = []string{}
	}
	if audit.Warnings == nil {
		audit.Warnings = []string{}
	}
	if audit.Recommendations == nil {
		audit.Recommendations = []string{}
	}

	return &models.AnalysisResult{
		WebsiteURL:      websiteURL,
		KeywordRankings: rankings,
		KeywordData:     keywordData,
		Competitors:     s.extractor.AggregateCompetitors(ordered),
		TechnicalAudit:  audit,
		DegradedSources: degraded,
		Timestamp:       s.now().UTC(),
	}
}

// step runs fn on g. A panic inside fn is logged and leaves fn's result slot
// at its zero value.
func (s *Service) step(ctx context.Context, g *errgroup.Group, operation, target string, fn func()) {
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				s.logger.LogError(ctx, operation, target, "Analysis step failed", fmt.Errorf("panic: %v", r), models.LogSeverityHigh, nil)
			}
		}()
		fn()
		return nil
	})
}

func validateInput(websiteURL string, keywords []string) error {
	if strings.TrimSpace(websiteURL) == "" {
		return models.InvalidArgument("websiteUrl is required")
	}
	if len(keywords) == 0 {
		return models.InvalidArgument("targetKeywords must not be empty")
	}
	for i, keyword := range keywords {
		if strings.TrimSpace(keyword) == "" {
			return models.InvalidArgument("targetKeywords[%d] is blank", i)
		}
	}
	return nil
}
