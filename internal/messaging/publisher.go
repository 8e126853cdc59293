// Package messaging publishes detected clusters to downstream consumers.
package messaging

import (
	"context"
	"time"

	"solana-cluster-monitor/internal/domain"
)

// ClusterEvent is the message body for one detected cluster.
type ClusterEvent struct {
	DetectionID string         `json:"detection_id"`
	Wallet      string         `json:"wallet"`
	DetectedAt  time.Time      `json:"detected_at"`
	Cluster     domain.Cluster `json:"cluster"`
}

// Publisher delivers cluster events.
type Publisher interface {
	PublishClusters(ctx context.Context, detectionID, wallet string, clusters []domain.Cluster) error
}

// NopPublisher drops every event. Used when messaging is disabled.
type NopPublisher struct{}

// PublishClusters implements Publisher.
func (NopPublisher) PublishClusters(context.Context, string, string, []domain.Cluster) error {
	return nil
}

var _ Publisher = NopPublisher{}
