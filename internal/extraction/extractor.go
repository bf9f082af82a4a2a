package extraction

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"SEO_Analysis/internal/models"

	"github.com/buger/jsonparser"
)

const (
	// SerpWindow is how many result items are scanned per keyword
	SerpWindow = 10

	// MaxCompetitors caps the aggregated competitor list
	MaxCompetitors = 5
)

// Extractor implements Service over raw provider JSON
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() Service {
	return newExtractor()
}

// newExtractor creates the concrete implementation
func newExtractor() *Extractor {
	return &Extractor{}
}

// ExtractRanking finds targetURL in the first SerpWindow items of a SERP payload.
// The first matching item sets CurrentRank; every non-matching item is a competitor.
func (e *Extractor) ExtractRanking(payload json.RawMessage, targetURL string) models.RankingInfo {
	info := models.RankingInfo{Competitors: []models.Competitor{}}

	items, dataType, _, err := jsonparser.Get(payload, "tasks", "[0]", "result", "[0]", "items")
	if err != nil || dataType != jsonparser.Array {
		return info
	}

	target := stripScheme(targetURL)
	position := 0

	_, _ = jsonparser.ArrayEach(items, func(item []byte, dataType jsonparser.ValueType, _ int, _ error) {
		position++
		if position > SerpWindow || dataType != jsonparser.Object {
			return
		}

		url := getString(item, "url")
		rank := getInt(item, "rank_absolute")

		if matchesTarget(url, target) {
			if info.CurrentRank == nil {
				r := rank
				info.CurrentRank = &r
			}
			return
		}

		info.Competitors = append(info.Competitors, models.Competitor{
			URL:         url,
			Rank:        rank,
			Title:       getString(item, "title"),
			Description: getString(item, "description"),
		})
	})

	return info
}

// ExtractKeywordMetrics maps every result row of a keyword-data payload to its metrics
func (e *Extractor) ExtractKeywordMetrics(payload json.RawMessage) map[string]models.KeywordMetric {
	metrics := make(map[string]models.KeywordMetric)

	rows, dataType, _, err := jsonparser.Get(payload, "tasks", "[0]", "result")
	if err != nil || dataType != jsonparser.Array {
		return metrics
	}

	_, _ = jsonparser.ArrayEach(rows, func(row []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.Object {
			return
		}

		keyword := getString(row, "keyword")
		if keyword == "" {
			return
		}

		metrics[keyword] = models.KeywordMetric{
			SearchVolume: getInt(row, "search_volume"),
			Difficulty:   getFloat(row, "keyword_difficulty"),
		}
	})

	return metrics
}

// AggregateCompetitors merges competitors across keywords by URL, orders them by
// average rank and keeps the best MaxCompetitors. Ties keep first-seen order.
func (e *Extractor) AggregateCompetitors(rankings []models.KeywordRanking) []models.CompetitorAggregate {
	type accumulator struct {
		aggregate models.CompetitorAggregate
		rankSum   int
	}

	index := make(map[string]int)
	var accs []*accumulator

	for _, kr := range rankings {
		for _, c := range kr.Ranking.Competitors {
			i, ok := index[c.URL]
			if !ok {
				i = len(accs)
				index[c.URL] = i
				accs = append(accs, &accumulator{aggregate: models.CompetitorAggregate{URL: c.URL}})
			}

			acc := accs[i]
			acc.aggregate.KeywordsRankingFor = append(acc.aggregate.KeywordsRankingFor, models.KeywordRank{
				Keyword: kr.Keyword,
				Rank:    c.Rank,
			})
			acc.rankSum += c.Rank
		}
	}

	result := make([]models.CompetitorAggregate, 0, len(accs))
	for _, acc := range accs {
		acc.aggregate.AverageRank = float64(acc.rankSum) / float64(len(acc.aggregate.KeywordsRankingFor))
		acc.aggregate.CompetitorRank = acc.aggregate.RoundedRank()
		result = append(result, acc.aggregate)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AverageRank < result[j].AverageRank
	})

	if len(result) > MaxCompetitors {
		result = result[:MaxCompetitors]
	}
	return result
}

// ExtractTechnicalIssues returns the fixed illustrative findings. The payload is
// not inspected yet.
// TODO: parse on_page summary counters (duplicate_title, no_description, no_image_alt) once the audit task is moved to the task_post/summary flow.
func (e *Extractor) ExtractTechnicalIssues(_ json.RawMessage) models.TechnicalAudit {
	return models.TechnicalAudit{
		Critical: []string{
			"Missing meta descriptions on 5 pages",
			"2 pages have duplicate title tags",
		},
		Warnings: []string{
			"Page load speed could be improved",
			"Some images missing alt text",
		},
		Recommendations: []string{
			"Add structured data markup",
			"Optimize images for better performance",
			"Improve internal linking structure",
		},
	}
}

// stripScheme removes a leading https:// or http://
func stripScheme(url string) string {
	url = strings.TrimPrefix(url, "https://")
	return strings.TrimPrefix(url, "http://")
}

// matchesTarget reports whether candidate contains target once both lose their scheme.
// An empty target matches nothing.
func matchesTarget(candidate, target string) bool {
	if target == "" {
		return false
	}
	return strings.Contains(stripScheme(candidate), target)
}

func getString(data []byte, key string) string {
	value, err := jsonparser.GetString(data, key)
	if err != nil {
		return ""
	}
	return value
}

// getInt accepts integral and fractional numbers, truncating the latter.
// Values outside the int32 range read as 0, like a missing field.
func getInt(data []byte, key string) int {
	value, err := jsonparser.GetFloat(data, key)
	if err != nil || math.IsNaN(value) || value > math.MaxInt32 || value < math.MinInt32 {
		return 0
	}
	return int(value)
}

func getFloat(data []byte, key string) float64 {
	value, err := jsonparser.GetFloat(data, key)
	if err != nil {
		return 0
	}
	return value
}
