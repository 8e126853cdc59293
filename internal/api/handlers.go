package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"solana-cluster-monitor/internal/clustering"
	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/solana"
)

// RawTransactionsResponse is the body of the raw transactions endpoint.
type RawTransactionsResponse struct {
	Transactions  []json.RawMessage `json:"transactions"`
	WalletOnCurve bool              `json:"wallet_on_curve"`
}

// WalletClustersResponse lists stored clusters involving a wallet.
type WalletClustersResponse struct {
	Wallet   string            `json:"wallet"`
	Clusters []*domain.Cluster `json:"clusters"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": s.message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleRawTransactions(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet_address")
	key, err := solana.ParseAddress(wallet)
	if err != nil {
		s.fail(w, err, "Invalid wallet address")
		return
	}

	txs, err := s.detector.RawTransactions(r.Context(), wallet)
	if err != nil {
		s.fail(w, err, "Failed to fetch raw transactions")
		return
	}

	writeJSON(w, http.StatusOK, RawTransactionsResponse{
		Transactions:  txs,
		WalletOnCurve: solana.IsOnCurve(key),
	})
}

func (s *Server) handleClusterDetection(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet_address")
	if _, err := solana.ParseAddress(wallet); err != nil {
		s.fail(w, err, "Invalid wallet address")
		return
	}

	params, err := s.parseParams(r)
	if err != nil {
		s.fail(w, err, "Invalid detection parameters")
		return
	}

	report, err := s.detector.DetectClusters(r.Context(), wallet, params)
	if err != nil {
		s.fail(w, err, "Failed to detect wallet clusters")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWalletClusters(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet_address")
	if _, err := solana.ParseAddress(wallet); err != nil {
		s.fail(w, err, "Invalid wallet address")
		return
	}

	clusters, err := s.detector.ClustersForWallet(r.Context(), wallet)
	if err != nil {
		s.fail(w, err, "Failed to load clusters")
		return
	}
	if clusters == nil {
		clusters = []*domain.Cluster{}
	}

	writeJSON(w, http.StatusOK, WalletClustersResponse{Wallet: wallet, Clusters: clusters})
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "cluster_id")

	cluster, err := s.detector.Cluster(r.Context(), clusterID)
	if err != nil {
		s.fail(w, err, "Failed to load cluster")
		return
	}

	writeJSON(w, http.StatusOK, cluster)
}

// parseParams reads min_children, funding_window and split_by_mint.
func (s *Server) parseParams(r *http.Request) (clustering.Params, error) {
	params := s.defaults
	q := r.URL.Query()

	if v := q.Get("min_children"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, &validationError{msg: fmt.Sprintf("min_children must be an integer, got %q", v)}
		}
		params.MinChildren = n
	}
	if v := q.Get("funding_window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, &validationError{msg: fmt.Sprintf("funding_window must be an integer, got %q", v)}
		}
		params.FundingWindowMinutes = n
	}
	if v := q.Get("split_by_mint"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return params, &validationError{msg: fmt.Sprintf("split_by_mint must be a boolean, got %q", v)}
		}
		params.SplitByMint = b
	}

	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

// fail writes the mapped error status. Server-side failures are logged.
func (s *Server) fail(w http.ResponseWriter, err error, prefix string) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(prefix, zap.Int("status", code), zap.Error(err))
	}
	writeDetail(w, code, fmt.Sprintf("%s: %v", prefix, err))
}
