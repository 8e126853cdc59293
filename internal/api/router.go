// Package api exposes cluster detection over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"solana-cluster-monitor/internal/clustering"
	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/logger"
	"solana-cluster-monitor/internal/observability"
)

// Detector is the service surface the handlers depend on.
type Detector interface {
	RawTransactions(ctx context.Context, wallet string) ([]json.RawMessage, error)
	DetectClusters(ctx context.Context, wallet string, params clustering.Params) (*domain.Report, error)
	Cluster(ctx context.Context, clusterID string) (*domain.Cluster, error)
	ClustersForWallet(ctx context.Context, wallet string) ([]*domain.Cluster, error)
}

// Server holds handler dependencies.
type Server struct {
	detector Detector
	defaults clustering.Params
	metrics  *observability.Metrics
	logger   *logger.Logger
	message  string
}

// Options for creating the HTTP handler.
type Options struct {
	Detector Detector
	Defaults clustering.Params // query parameter defaults
	Metrics  *observability.Metrics
	Logger   *logger.Logger
	Message  string // body of GET /
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	s := &Server{
		detector: opts.Detector,
		defaults: opts.Defaults,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		message:  opts.Message,
	}
	if s.defaults.MinChildren == 0 && s.defaults.FundingWindowMinutes == 0 {
		s.defaults = clustering.DefaultParams()
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	s.logger = s.logger.WithComponent("http")
	if s.message == "" {
		s.message = "Solana Parent-Child Wallet Detection API"
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wallets", func(r chi.Router) {
			r.Get("/raw-transactions/{wallet_address}", s.handleRawTransactions)
			r.Get("/cluster-detection/{wallet_address}", s.handleClusterDetection)
			r.Get("/{wallet_address}/clusters", s.handleWalletClusters)
		})
		r.Get("/clusters/{cluster_id}", s.handleCluster)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// logRequests logs every request and counts it by route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RecordHTTPRequest(route, status)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
