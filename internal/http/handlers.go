package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/models"
	"SEO_Analysis/internal/provider"
	"SEO_Analysis/internal/seoAnalysis"
)

const maxRequestBodySize = 1 << 20

// Handler contains the HTTP handlers for the API
type Handler struct {
	analysisService seoAnalysis.AnalysisService
	provider        provider.Service
	logger          logger.Service
}

// NewHandler creates a new HTTP handler
func NewHandler(
	analysisService seoAnalysis.AnalysisService,
	provider provider.Service,
	logger logger.Service,
) *Handler {
	return &Handler{
		analysisService: analysisService,
		provider:        provider,
		logger:          logger,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// writeJSONResponse writes a JSON response with standard headers including X-Request-ID
func (h *Handler) writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) error {
	logEvent := logger.GetLogEvent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", logEvent.ProcessID)
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

// AnalyzeCustomer handles POST /api/analyze
func (h *Handler) AnalyzeCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.AnalysisRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := decoder.Decode(&request); err != nil {
		h.logger.LogError(ctx, logger.OpSeoAnalysis, "", "Invalid request body", err, models.LogSeverityLow, nil)
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.analysisService.AnalyzeCustomerSeo(ctx, request.WebsiteURL, request.TargetKeywords)
	if err != nil {
		statusCode := h.getStatusCodeForError(err)
		if statusCode != http.StatusBadRequest {
			h.logger.LogError(ctx, logger.OpSeoAnalysis, request.WebsiteURL, "SEO analysis failed", err, models.LogSeverityMedium, nil)
		}
		h.writeErrorResponse(w, r, statusCode, "analysis failed", err.Error())
		return
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, result); err != nil {
		h.logger.LogError(ctx, logger.OpSeoAnalysis, request.WebsiteURL, "Failed to encode response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogSuccess(ctx, logger.OpSeoAnalysis, request.WebsiteURL, fmt.Sprintf("Returned analysis for %d keywords", len(result.KeywordRankings)), map[string]interface{}{
		"degraded": result.Degraded,
	})
}

// ProviderTest handles GET /api/provider/test
func (h *Handler) ProviderTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := h.provider.TestConnection(ctx)

	if err := h.writeJSONResponse(w, r, http.StatusOK, status); err != nil {
		h.logger.LogError(ctx, logger.OpProviderTest, "", "Failed to encode provider status", err, models.LogSeverityLow, nil)
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   apiVersion,
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, response); err != nil {
		h.logger.LogError(ctx, logger.OpHealthCheck, "", "Failed to encode health response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogInfo(ctx, logger.OpHealthCheck, "Health check performed successfully", nil)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, error, message string) {
	response := ErrorResponse{
		Error:     error,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	if err := h.writeJSONResponse(w, r, statusCode, response); err != nil {
		h.logger.LogError(r.Context(), "response_encoding", "", "Failed to encode error response", err, models.LogSeverityLow, nil)
	}
}

// getStatusCodeForError determines the appropriate HTTP status code for an error
func (h *Handler) getStatusCodeForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
