package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"solana-cluster-monitor/internal/config"
	"solana-cluster-monitor/internal/domain"
	"solana-cluster-monitor/internal/logger"
)

// msgConn is the subset of *nats.Conn the publisher uses.
type msgConn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// NATSPublisher publishes cluster events on core NATS subjects
// "<prefix>.buy" and "<prefix>.sell".
type NATSPublisher struct {
	conn   *nats.Conn
	pub    msgConn
	prefix string
	logger *logger.Logger
	now    func() time.Time
}

// NewNATSPublisher creates a publisher. Call Connect before publishing.
func NewNATSPublisher(cfg *config.NATSConfig, log *logger.Logger) *NATSPublisher {
	return &NATSPublisher{
		prefix: cfg.SubjectPrefix,
		logger: log.WithComponent("nats-publisher"),
		now:    time.Now,
	}
}

// Connect connects to the NATS server.
func (p *NATSPublisher) Connect(cfg *config.NATSConfig) error {
	p.logger.Info("Connecting to NATS server", zap.String("url", cfg.URL))

	opts := []nats.Option{
		nats.Name("solana-cluster-monitor"),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			p.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p.conn = conn
	p.pub = conn
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// PublishClusters publishes one message per cluster and flushes.
// The Nats-Msg-Id header lets JetStream streams deduplicate repeated detections.
func (p *NATSPublisher) PublishClusters(ctx context.Context, detectionID, wallet string, clusters []domain.Cluster) error {
	if len(clusters) == 0 {
		return nil
	}
	if p.pub == nil {
		return errors.New("nats publisher is not connected")
	}

	detectedAt := p.now().UTC()
	for _, c := range clusters {
		msg, err := p.buildMsg(ClusterEvent{
			DetectionID: detectionID,
			Wallet:      wallet,
			DetectedAt:  detectedAt,
			Cluster:     c,
		})
		if err != nil {
			return err
		}
		if err := p.pub.PublishMsg(msg); err != nil {
			return fmt.Errorf("publish cluster %s: %w", c.ClusterID, err)
		}
	}

	if err := p.pub.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}

	p.logger.Debug("Published clusters",
		zap.String("detection_id", detectionID),
		zap.Int("count", len(clusters)))
	return nil
}

func (p *NATSPublisher) buildMsg(ev ClusterEvent) (*nats.Msg, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode cluster event: %w", err)
	}
	msg := nats.NewMsg(Subject(p.prefix, ev.Cluster.ClusterType))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, ev.DetectionID+":"+ev.Cluster.ClusterID)
	return msg, nil
}

// Subject returns the subject for a cluster type.
func Subject(prefix string, t domain.ClusterType) string {
	kind := "sell"
	if t == domain.ClusterTypeBuy {
		kind = "buy"
	}
	if prefix == "" {
		return kind
	}
	return strings.TrimSuffix(prefix, ".") + "." + kind
}

var _ Publisher = (*NATSPublisher)(nil)
