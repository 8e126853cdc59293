// Package service runs cluster detection against live wallet history and
// records the results.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"solana-cluster-monitor/internal/clustering"
	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/helius"
	"solana-cluster-monitor/internal/idhash"
	"solana-cluster-monitor/internal/logger"
	"solana-cluster-monitor/internal/messaging"
	"solana-cluster-monitor/internal/observability"
	"solana-cluster-monitor/internal/storage"
	"solana-cluster-monitor/internal/storage/memory"
)

// Sink names used in logs and metrics.
const (
	sinkStore   = "store"
	sinkPublish = "publish"
)

// DetectionService fetches a wallet's history and runs the detector over it.
type DetectionService struct {
	source    helius.TransactionSource
	store     storage.ClusterStore
	publisher messaging.Publisher
	metrics   *observability.Metrics
	logger    *logger.Logger

	fetchLimit int
	pages      int
}

// Options for creating DetectionService.
type Options struct {
	// Required
	Source helius.TransactionSource
	Logger *logger.Logger

	// Optional. A memory store and a no-op publisher are used when nil.
	Store     storage.ClusterStore
	Publisher messaging.Publisher
	Metrics   *observability.Metrics

	FetchLimit int // records per upstream page, defaults to helius.MaxLimit
	Pages      int // upstream pages per detection, defaults to 1
}

// New creates a new DetectionService.
func New(opts Options) *DetectionService {
	s := &DetectionService{
		source:     opts.Source,
		store:      opts.Store,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		fetchLimit: opts.FetchLimit,
		pages:      opts.Pages,
	}
	if s.store == nil {
		s.store = memory.NewClusterStore()
	}
	if s.publisher == nil {
		s.publisher = messaging.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	s.logger = s.logger.WithComponent("detection-service")
	if s.fetchLimit <= 0 || s.fetchLimit > helius.MaxLimit {
		s.fetchLimit = helius.MaxLimit
	}
	if s.pages < 1 {
		s.pages = 1
	}
	return s
}

// RawTransactions returns the wallet's upstream records unchanged.
func (s *DetectionService) RawTransactions(ctx context.Context, wallet string) ([]json.RawMessage, error) {
	raw, err := s.fetch(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}
	return raw, nil
}

// DetectClusters fetches the wallet's history and returns the detection report.
// Store and publish failures are logged and counted but never fail the call.
func (s *DetectionService) DetectClusters(ctx context.Context, wallet string, params clustering.Params) (report *domain.Report, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDetection(err, time.Since(start))
	}()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	log := s.logger.WithWallet(wallet)

	raw, err := s.fetch(ctx, wallet)
	if err != nil {
		return nil, err
	}

	txs, undecodable := domain.DecodeTransactions(raw)
	report, skipped := clustering.Detect(txs, params)

	// Counts refer to what the upstream returned, not to what decoded.
	report.DetectionParams.TotalTransactionsAnalyzed = len(raw)
	report.DetectionParams.SkippedRecords += undecodable

	for _, sk := range skipped {
		log.Debug("Skipped malformed record",
			zap.String("signature", sk.Signature),
			zap.String("field", sk.Field),
			zap.Error(sk.Err))
	}

	s.metrics.RecordAnalyzed(len(raw), report.DetectionParams.SkippedRecords)
	for _, c := range report.Clusters {
		s.metrics.RecordCluster(c.ClusterType.String(), c.FundingStats.ChildrenFunded)
	}

	log.Info("Detection completed",
		zap.Int("transactions", len(raw)),
		zap.Int("skipped", report.DetectionParams.SkippedRecords),
		zap.Int("clusters", len(report.Clusters)),
		zap.Duration("elapsed", time.Since(start)))

	if len(report.Clusters) > 0 {
		s.record(ctx, log, wallet, params, txs, report.Clusters)
	}

	return report, nil
}

// Cluster returns a previously detected cluster.
func (s *DetectionService) Cluster(ctx context.Context, clusterID string) (*domain.Cluster, error) {
	return s.store.GetByID(ctx, clusterID)
}

// ClustersForWallet returns stored clusters where the wallet is the parent
// or one of the children, ordered by window start.
func (s *DetectionService) ClustersForWallet(ctx context.Context, wallet string) ([]*domain.Cluster, error) {
	asParent, err := s.store.GetByParent(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("clusters by parent: %w", err)
	}
	asChild, err := s.store.GetByChild(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("clusters by child: %w", err)
	}

	seen := make(map[string]struct{}, len(asParent)+len(asChild))
	result := make([]*domain.Cluster, 0, len(asParent)+len(asChild))
	for _, c := range append(asParent, asChild...) {
		if _, dup := seen[c.ClusterID]; dup {
			continue
		}
		seen[c.ClusterID] = struct{}{}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].WindowStart != result[j].WindowStart {
			return result[i].WindowStart < result[j].WindowStart
		}
		return result[i].ClusterID < result[j].ClusterID
	})
	return result, nil
}

func (s *DetectionService) fetch(ctx context.Context, wallet string) ([]json.RawMessage, error) {
	start := time.Now()
	raw, err := helius.FetchPages(ctx, s.source, wallet, s.fetchLimit, s.pages)
	s.metrics.RecordFetch(err, time.Since(start))
	if err != nil {
		s.logger.Warn("Upstream fetch failed", zap.String("wallet", wallet), zap.Error(err))
		return nil, err
	}
	return raw, nil
}

// record persists and publishes clusters. Errors are logged only.
func (s *DetectionService) record(
	ctx context.Context,
	log *logger.Logger,
	wallet string,
	params clustering.Params,
	txs []domain.Transaction,
	clusters []domain.Cluster,
) {
	for i := range clusters {
		err := s.store.Insert(ctx, &clusters[i])
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrDuplicateKey):
			log.Debug("Cluster already stored", zap.String("cluster_id", clusters[i].ClusterID))
		default:
			s.metrics.RecordSinkError(sinkStore)
			log.Error("Failed to store cluster", zap.String("cluster_id", clusters[i].ClusterID), zap.Error(err))
		}
	}

	signatures := make([]string, len(txs))
	for i := range txs {
		signatures[i] = txs[i].Signature
	}
	detectionID := idhash.ComputeDetectionID(wallet, params.MinChildren, params.FundingWindowMinutes, signatures)

	if err := s.publisher.PublishClusters(ctx, detectionID, wallet, clusters); err != nil {
		s.metrics.RecordSinkError(sinkPublish)
		log.Error("Failed to publish clusters", zap.String("detection_id", detectionID), zap.Error(err))
	}
}
