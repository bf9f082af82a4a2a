package provider

import "encoding/json"

const (
	fallbackSerpResults = `{
		"status_code": 20000,
		"status_message": "Ok.",
		"tasks": [{
			"status_code": 20000,
			"result": [{
				"items": [
					{"type": "organic", "rank_absolute": 1, "url": "https://example.com"},
					{"type": "organic", "rank_absolute": 2, "url": "https://competitor1.com"},
					{"type": "organic", "rank_absolute": 3, "url": "https://competitor2.com"}
				]
			}]
		}]
	}`

	fallbackKeywordData = `{
		"status_code": 20000,
		"status_message": "Ok.",
		"tasks": [{
			"status_code": 20000,
			"result": [
				{"keyword": "example keyword", "search_volume": 1000, "keyword_difficulty": 45}
			]
		}]
	}`

	fallbackGeneric = `{"status_code": 20000, "status_message": "Ok.", "tasks": []}`
)

// SyntheticPayload returns the placeholder payload served for operation when
// the provider is unusable. Each call returns a fresh copy.
func SyntheticPayload(operation string) json.RawMessage {
	switch operation {
	case OperationSerpResults:
		return json.RawMessage(fallbackSerpResults)
	case OperationKeywordData:
		return json.RawMessage(fallbackKeywordData)
	default:
		return json.RawMessage(fallbackGeneric)
	}
}
