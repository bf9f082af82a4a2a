package provider

// Provider endpoints, relative to the API base URL
const (
	EndpointSerpResults    = "serp/google/organic/live/advanced"
	EndpointKeywordData    = "keywords_data/google/search_volume/live"
	EndpointTechnicalAudit = "on_page/instant_pages"
)

// Operation names reported in ProviderResponse.Operation
const (
	OperationSerpResults    = "serp_results"
	OperationKeywordData    = "keyword_data"
	OperationTechnicalAudit = "technical_audit"
)

const (
	// StatusOK is the provider's success code in the top-level status_code field
	StatusOK = 20000

	// TestKeyword is the query used by TestConnection
	TestKeyword = "SEO services"

	keywordDataLanguage = "English"
	auditMaxCrawlPages  = 100
)

type serpTask struct {
	Keyword      string `json:"keyword"`
	LocationName string `json:"location_name"`
	LanguageName string `json:"language_name"`
	Device       string `json:"device"`
	OS           string `json:"os"`
}

type keywordDataTask struct {
	Keywords     []string `json:"keywords"`
	LocationName string   `json:"location_name"`
	LanguageName string   `json:"language_name"`
}

type technicalAuditTask struct {
	Target        string `json:"target"`
	MaxCrawlPages int    `json:"max_crawl_pages"`
}
