package extraction

import (
	"encoding/json"

	"SEO_Analysis/internal/models"
)

// Service defines the pure transformations from provider payloads to domain records.
// None of the methods fail: missing or misshapen fields degrade to zero values.
type Service interface {
	ExtractRanking(payload json.RawMessage, targetURL string) models.RankingInfo
	ExtractKeywordMetrics(payload json.RawMessage) map[string]models.KeywordMetric
	AggregateCompetitors(rankings []models.KeywordRanking) []models.CompetitorAggregate
	ExtractTechnicalIssues(payload json.RawMessage) models.TechnicalAudit
}
