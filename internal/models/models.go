package models

import (
	"encoding/json"
	"math"
	"time"
)

// Competitor is a non-target result found in a keyword's SERP window
type Competitor struct {
	URL         string `json:"url"`
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RankingInfo holds the target site's position for one keyword
type RankingInfo struct {
	CurrentRank *int         `json:"current_rank"` // nil when the target is outside the scanned window
	Competitors []Competitor `json:"competitors"`
}

// KeywordMetric holds volume and difficulty (0-100) for one keyword
type KeywordMetric struct {
	SearchVolume int     `json:"search_volume"`
	Difficulty   float64 `json:"difficulty"`
}

// KeywordRank is one keyword a competitor ranks for
type KeywordRank struct {
	Keyword string `json:"keyword"`
	Rank    int    `json:"rank"`
}

// CompetitorAggregate summarizes one competitor URL across all keywords
type CompetitorAggregate struct {
	URL                string        `json:"url"`
	KeywordsRankingFor []KeywordRank `json:"keywords_ranking_for"`
	AverageRank        float64       `json:"average_rank"`
	CompetitorRank     int           `json:"competitor_rank"` // AverageRank truncated
}

// RoundedRank truncates AverageRank
func (c CompetitorAggregate) RoundedRank() int {
	return int(math.Trunc(c.AverageRank))
}

// TechnicalAudit groups technical SEO findings into fixed buckets
type TechnicalAudit struct {
	Critical        []string `json:"critical"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// KeywordRanking pairs a keyword with its ranking, keeping caller order
type KeywordRanking struct {
	Keyword string
	Ranking RankingInfo
}

// AnalysisResult is the complete SEO analysis for one customer site
type AnalysisResult struct {
	WebsiteURL      string                   `json:"website_url"`
	KeywordRankings map[string]RankingInfo   `json:"keyword_rankings"`
	KeywordData     map[string]KeywordMetric `json:"keyword_data"`
	Competitors     []CompetitorAggregate    `json:"competitors"`
	TechnicalAudit  TechnicalAudit           `json:"technical_audit"`
	Degraded        bool                     `json:"degraded"`
	DegradedSources []string                 `json:"degraded_sources,omitempty"`
	Timestamp       time.Time                `json:"timestamp"`
}

// AnalysisRequest is the upstream caller's input
type AnalysisRequest struct {
	WebsiteURL     string   `json:"websiteUrl"`
	TargetKeywords []string `json:"targetKeywords"`
}

// ProviderResponse is a raw provider payload plus where it came from
type ProviderResponse struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
	Cached    bool            `json:"cached"`
	Synthetic bool            `json:"synthetic"`
}

// ProviderStatus reports the outcome of a provider connectivity check
type ProviderStatus struct {
	TestKeyword string `json:"test_keyword"`
	Status      string `json:"status"`
	HasResults  bool   `json:"has_results"`
	Synthetic   bool   `json:"synthetic"`
	Cached      bool   `json:"cached"`
}

// LogSeverity represents the severity level of a log entry
type LogSeverity string

const (
	LogSeverityLow    LogSeverity = "low"
	LogSeverityMedium LogSeverity = "medium"
	LogSeverityHigh   LogSeverity = "high"
)

// ProcessType represents the type of process that created the log
type ProcessType string

const (
	ProcessTypeRequest  ProcessType = "request"
	ProcessTypeInternal ProcessType = "internal"
)

// LogEvent represents a process-specific logging context
type LogEvent struct {
	ProcessID   string      `json:"process_id"`
	ProcessType ProcessType `json:"process_type"`
	StartTime   time.Time   `json:"start_time"`
	ClientIP    string      `json:"client_ip,omitempty"`
}

// LogEntry represents a structured log entry for database storage
type LogEntry struct {
	ID          string                 `json:"id"`
	Timestamp   time.Time              `json:"timestamp"`
	Severity    LogSeverity            `json:"severity,omitempty"`
	Message     string                 `json:"message"`
	Operation   string                 `json:"operation"`
	TargetName  string                 `json:"target_name,omitempty"`
	ProcessID   string                 `json:"process_id"`
	ProcessType ProcessType            `json:"process_type"`
	ClientIP    string                 `json:"client_ip,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
