package service

import (
	"context"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/infra/observability"
	"github.com/onfly/isp-portal-bff-go/internal/netquality"
	"github.com/onfly/isp-portal-bff-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var networkTracer = otel.Tracer("service/network")

// Network combines the device's reported connectivity with one active
// probe round into a quality snapshot.
type Network struct {
	prober  port.QualityProber
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNetwork creates the network quality service.
func NewNetwork(prober port.QualityProber, metrics *observability.Metrics, logger *zap.Logger) *Network {
	return &Network{
		prober:  prober,
		metrics: metrics,
		logger:  logger,
	}
}

// Snapshot interprets the passive signal reading and runs one probe round.
// A fully lost round still produces a snapshot; only transport-level
// failures before probing surface as errors.
func (n *Network) Snapshot(ctx context.Context, cs domain.ConnectivitySnapshot) (*domain.NetworkQualitySnapshot, error) {
	ctx, span := networkTracer.Start(ctx, "Network.Snapshot")
	defer span.End()

	start := time.Now()
	defer func() {
		n.metrics.RecordRequestDuration("network_quality", time.Since(start))
	}()

	snap := netquality.Interpret(cs)

	telemetry, err := n.prober.Run(ctx)
	if err != nil {
		n.logger.Warn("probe round failed", zap.Error(err))
		return nil, err
	}
	snap.Telemetry = telemetry
	n.metrics.RecordProbeRound(telemetry.PacketLossPercent, telemetry.LatencyMs)

	return &snap, nil
}
