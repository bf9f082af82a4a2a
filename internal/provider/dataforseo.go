package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SEO_Analysis/internal/cache/providerCache"
	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/models"
	"SEO_Analysis/internal/ratelimit"

	"github.com/buger/jsonparser"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the provider's v3 API root
const DefaultBaseURL = "https://api.dataforseo.com/v3"

const (
	maxResponseSize = 10 * 1024 * 1024

	// bounds a shared outbound call, throttle wait included, when the http client has no timeout
	defaultFlightTimeout = 60 * time.Second
)

// Options configures a DataForSEOClient
type Options struct {
	BaseURL         string
	Login           string
	Password        string
	Timeout         time.Duration
	DefaultLocation string
	DefaultLanguage string
}

// DataForSEOClient implements Service against the DataForSEO HTTP API
type DataForSEOClient struct {
	client          *http.Client
	baseURL         string
	login           string
	password        string
	defaultLocation string
	defaultLanguage string
	cache           providerCache.Service
	limiter         ratelimit.Service
	logger          logger.Service
	flight          singleflight.Group
	flightTimeout   time.Duration
}

// NewDataForSEOClient creates a provider client that caches through cache and
// throttles outbound calls through limiter
func NewDataForSEOClient(opts Options, cache providerCache.Service, limiter ratelimit.Service, logger logger.Service) Service {
	return newDataForSEOClient(opts, &http.Client{Timeout: opts.Timeout}, cache, limiter, logger)
}

// newDataForSEOClient creates the concrete implementation
func newDataForSEOClient(opts Options, client *http.Client, cache providerCache.Service, limiter ratelimit.Service, logger logger.Service) *DataForSEOClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	location := opts.DefaultLocation
	if location == "" {
		location = "Sweden"
	}
	language := opts.DefaultLanguage
	if language == "" {
		language = "en"
	}
	flightTimeout := client.Timeout
	if flightTimeout <= 0 {
		flightTimeout = defaultFlightTimeout
	}

	return &DataForSEOClient{
		client:          client,
		baseURL:         baseURL,
		login:           opts.Login,
		password:        opts.Password,
		defaultLocation: location,
		defaultLanguage: language,
		cache:           cache,
		limiter:         limiter,
		logger:          logger,
		flightTimeout:   flightTimeout,
	}
}

// GetSerpResults returns the organic results page for keyword
func (c *DataForSEOClient) GetSerpResults(ctx context.Context, keyword, location, language string) *models.ProviderResponse {
	if location == "" {
		location = c.defaultLocation
	}
	if language == "" {
		language = c.defaultLanguage
	}

	task := serpTask{
		Keyword:      keyword,
		LocationName: location,
		LanguageName: language,
		Device:       "desktop",
		OS:           "windows",
	}
	return c.call(ctx, OperationSerpResults, EndpointSerpResults, keyword, task)
}

// GetKeywordData returns search volume and difficulty for keywords
func (c *DataForSEOClient) GetKeywordData(ctx context.Context, keywords []string, location string) *models.ProviderResponse {
	if location == "" {
		location = c.defaultLocation
	}

	task := keywordDataTask{
		Keywords:     keywords,
		LocationName: location,
		LanguageName: keywordDataLanguage,
	}
	return c.call(ctx, OperationKeywordData, EndpointKeywordData, strings.Join(keywords, ","), task)
}

// GetTechnicalAudit returns an on-page audit of domain
func (c *DataForSEOClient) GetTechnicalAudit(ctx context.Context, domain string) *models.ProviderResponse {
	task := technicalAuditTask{
		Target:        domain,
		MaxCrawlPages: auditMaxCrawlPages,
	}
	return c.call(ctx, OperationTechnicalAudit, EndpointTechnicalAudit, domain, task)
}

// TestConnection issues a SERP query for TestKeyword and summarizes the outcome
func (c *DataForSEOClient) TestConnection(ctx context.Context) *models.ProviderStatus {
	resp := c.GetSerpResults(ctx, TestKeyword, "", "")

	status, err := jsonparser.GetString(resp.Payload, "status_message")
	if err != nil {
		status = "Unknown"
	}

	hasResults := false
	if _, dataType, _, err := jsonparser.Get(resp.Payload, "tasks", "[0]"); err == nil && dataType == jsonparser.Object {
		hasResults = true
	}

	c.logger.LogInfo(ctx, logger.OpProviderTest, "Provider connectivity check finished", map[string]interface{}{
		"status":      status,
		"has_results": hasResults,
		"synthetic":   resp.Synthetic,
	})

	return &models.ProviderStatus{
		TestKeyword: TestKeyword,
		Status:      status,
		HasResults:  hasResults,
		Synthetic:   resp.Synthetic,
		Cached:      resp.Cached,
	}
}

// call serves a request from cache when possible, otherwise posts it once per
// key no matter how many callers ask concurrently
func (c *DataForSEOClient) call(ctx context.Context, operation, endpoint, target string, task interface{}) *models.ProviderResponse {
	key, err := c.cache.Key(endpoint, task)
	if err != nil {
		c.logger.LogError(ctx, logger.OpProviderFallback, target, "Failed to build cache key, using synthetic data", err, models.LogSeverityMedium, nil)
		return c.synthetic(operation)
	}

	if payload, ok := c.cache.Get(ctx, key); ok {
		err := validateEnvelope(payload)
		if err == nil {
			c.logger.LogSuccess(ctx, logger.OpCacheHit, target, "Served provider response from cache", map[string]interface{}{
				"operation": operation,
			})
			return &models.ProviderResponse{Operation: operation, Payload: payload, Cached: true}
		}
		c.logger.LogError(ctx, logger.OpCacheError, target, "Evicting unusable cached response", err, models.LogSeverityLow, map[string]interface{}{
			"operation": operation,
		})
		c.cache.Invalidate(ctx, key)
	}

	c.logger.LogInfo(ctx, logger.OpCacheMiss, fmt.Sprintf("No cached %s response for %s", operation, target), nil)

	if err := ctx.Err(); err != nil {
		c.logger.LogError(ctx, logger.OpProviderFallback, target, "Request cancelled before provider call, using synthetic data", err, models.LogSeverityLow, map[string]interface{}{
			"operation": operation,
		})
		return c.synthetic(operation)
	}

	// the flight ignores caller cancellation; each caller stops waiting on its own ctx
	flight := c.flight.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
		defer cancel()

		payload, err := c.post(flightCtx, endpoint, task)
		if err != nil {
			return nil, err
		}
		c.cache.Put(flightCtx, key, payload, 0)
		return payload, nil
	})

	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}

	result, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		c.logger.LogError(ctx, logger.OpProviderFallback, target, "Provider call failed, using synthetic data", err, models.LogSeverityMedium, map[string]interface{}{
			"operation": operation,
			"endpoint":  endpoint,
		})
		return c.synthetic(operation)
	}

	c.logger.LogSuccess(ctx, logger.OpProviderCall, target, "Provider call succeeded", map[string]interface{}{
		"operation": operation,
		"shared":    shared,
	})

	// shared results hand out the same bytes, give each caller its own copy
	payload := result.(json.RawMessage)
	return &models.ProviderResponse{Operation: operation, Payload: append(json.RawMessage(nil), payload...)}
}

func (c *DataForSEOClient) synthetic(operation string) *models.ProviderResponse {
	return &models.ProviderResponse{
		Operation: operation,
		Payload:   SyntheticPayload(operation),
		Synthetic: true,
	}
}

// post sends task as a one-element JSON array and validates the envelope
func (c *DataForSEOClient) post(ctx context.Context, endpoint string, task interface{}) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return nil, models.NewProviderError(endpoint, "throttle wait aborted", err)
		}
	}

	body, err := json.Marshal([]interface{}{task})
	if err != nil {
		return nil, models.NewProviderError(endpoint, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, models.NewProviderError(endpoint, "failed to create request", err)
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SEO-Analysis/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, models.NewProviderError(endpoint, "request timed out", fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err))
		}
		return nil, models.NewProviderError(endpoint, "request failed", fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, models.NewProviderError(endpoint, fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode), models.ErrProviderUnavailable)
	}

	data, err := readBodyWithLimit(resp.Body, maxResponseSize)
	if err != nil {
		return nil, models.NewProviderError(endpoint, "failed to read response body", err)
	}

	if err := validateEnvelope(data); err != nil {
		return nil, models.NewProviderError(endpoint, "unusable response", err)
	}

	return json.RawMessage(data), nil
}

// validateEnvelope requires a JSON object whose status_code, when present, is StatusOK
func validateEnvelope(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	if envelope == nil {
		return fmt.Errorf("%w: body is not a JSON object", models.ErrMalformedResponse)
	}

	raw, ok := envelope["status_code"]
	if !ok {
		return nil
	}

	var code int
	if err := json.Unmarshal(raw, &code); err != nil {
		return fmt.Errorf("%w: non-numeric status_code", models.ErrMalformedResponse)
	}
	if code != StatusOK {
		message, _ := jsonparser.GetString(data, "status_message")
		return fmt.Errorf("%w: provider status %d %s", models.ErrProviderUnavailable, code, message)
	}

	return nil
}

// readBodyWithLimit reads the response body with a size limit
func readBodyWithLimit(body io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxSize))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) >= maxSize {
		return nil, fmt.Errorf("response too large (exceeds %d bytes)", maxSize)
	}

	return data, nil
}
