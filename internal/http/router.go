package http

import (
	"context"
	"net/http"
	"time"

	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/ratelimit"

	"github.com/gorilla/mux"
)

const apiVersion = "1.0.0"

// Server wires the routed handler into an http.Server
type Server struct {
	handler *Handler
	logger  logger.Service
	server  *http.Server
}

// route is one public endpoint; the index lists them in registration order
type route struct {
	path    string
	methods []string
	handle  func(*Handler) http.HandlerFunc
}

var apiRoutes = []route{
	{"/health", []string{http.MethodGet}, func(h *Handler) http.HandlerFunc { return h.HealthCheck }},
	{"/api/analyze", []string{http.MethodPost, http.MethodOptions}, func(h *Handler) http.HandlerFunc { return h.AnalyzeCustomer }},
	{"/api/provider/test", []string{http.MethodGet}, func(h *Handler) http.HandlerFunc { return h.ProviderTest }},
}

// IndexResponse is served at /
type IndexResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

func NewServer(
	addr string,
	handler *Handler,
	logger logger.Service,
	rateLimiter ratelimit.Service,
	readTimeout, writeTimeout time.Duration,
) *Server {
	router := mux.NewRouter()

	// logging -> rate limiting -> cors -> recovery
	router.Use(loggingMiddleware(logger))
	router.Use(rateLimitingMiddleware(rateLimiter, logger))
	router.Use(corsMiddleware())
	router.Use(recoveryMiddleware(logger))

	endpoints := make([]string, 0, len(apiRoutes))
	for _, rt := range apiRoutes {
		router.HandleFunc(rt.path, rt.handle(handler)).Methods(rt.methods...)
		endpoints = append(endpoints, rt.path)
	}

	index := IndexResponse{Message: "SEO Analysis API", Version: apiVersion, Endpoints: endpoints}
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = handler.writeJSONResponse(w, r, http.StatusOK, index)
	}).Methods(http.MethodGet)

	return &Server{
		handler: handler,
		logger:  logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
		},
	}
}

// Handler exposes the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving until Shutdown; it returns http.ErrServerClosed after a clean stop
func (s *Server) Start() error {
	s.logger.LogInfo(context.Background(), logger.OpServerStart, "Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.LogInfo(ctx, logger.OpServerShutdown, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
