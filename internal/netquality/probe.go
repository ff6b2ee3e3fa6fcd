package netquality

import (
	"context"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("netquality")

// ProbeState is the prober's lifecycle: a round is either running or not.
type ProbeState string

const (
	StateIdle     ProbeState = "idle"
	StateSampling ProbeState = "sampling"
)

// Prober issues a fixed count of sequential HEAD round-trips against one
// reachability endpoint and aggregates latency, jitter and loss. Concurrent
// Run calls collapse into the in-flight round: timers, focus events and
// connectivity changes can all request a round without ever producing
// overlapping sample sets.
type Prober struct {
	client    *http.Client
	target    string
	attempts  int
	perProbe  time.Duration
	group     singleflight.Group
	sampling  atomic.Bool
	logger    *zap.Logger
}

// NewProber creates a prober. attempts and perProbe have sane floors so a
// zero-value config still produces a usable round.
func NewProber(client *http.Client, target string, attempts int, perProbe time.Duration, logger *zap.Logger) *Prober {
	if attempts <= 0 {
		attempts = 5
	}
	if perProbe <= 0 {
		perProbe = 3 * time.Second
	}
	return &Prober{
		client:   client,
		target:   target,
		attempts: attempts,
		perProbe: perProbe,
		logger:   logger,
	}
}

// State reports whether a round is currently in flight.
func (p *Prober) State() ProbeState {
	if p.sampling.Load() {
		return StateSampling
	}
	return StateIdle
}

// Run executes one probe round, or joins the round already in flight.
// A fully failed round is not an error: it reports 100% loss with nil
// latency and jitter. The only error returned is context cancellation.
func (p *Prober) Run(ctx context.Context) (domain.Telemetry, error) {
	v, err, _ := p.group.Do("round", func() (any, error) {
		p.sampling.Store(true)
		defer p.sampling.Store(false)
		return p.round(ctx), nil
	})
	if err != nil {
		return domain.Telemetry{}, err
	}
	return v.(domain.Telemetry), nil
}

// round performs the sequential attempts. A failure never aborts the
// remaining attempts; it just counts as one lost sample.
func (p *Prober) round(ctx context.Context) domain.Telemetry {
	ctx, span := tracer.Start(ctx, "Prober.Round")
	defer span.End()

	samples := make([]float64, 0, p.attempts)
	lost := 0

	for i := 0; i < p.attempts; i++ {
		if ctx.Err() != nil {
			// Torn-down caller: count remaining attempts as lost so the
			// accounting still covers the whole round.
			lost += p.attempts - i
			break
		}

		elapsed, ok := p.attempt(ctx)
		if ok {
			samples = append(samples, elapsed)
		} else {
			lost++
		}
	}

	t := domain.Telemetry{
		PacketLossPercent: 100 * float64(lost) / float64(p.attempts),
	}

	if len(samples) == 0 {
		p.logger.Warn("probe round fully lost", zap.String("target", p.target))
		return t
	}

	latency := mean(samples)
	jitter := meanConsecutiveDiff(samples)
	t.LatencyMs = &latency
	t.JitterMs = &jitter

	p.logger.Debug("probe round complete",
		zap.Float64("latency_ms", latency),
		zap.Float64("jitter_ms", jitter),
		zap.Float64("loss_pct", t.PacketLossPercent),
	)
	return t
}

// attempt issues one HEAD request under its own deadline and returns the
// elapsed milliseconds. Non-2xx counts as a loss like any transport error.
func (p *Prober) attempt(ctx context.Context) (float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.perProbe)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.target, nil)
	if err != nil {
		return 0, false
	}
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, false
	}
	return float64(time.Since(start)) / float64(time.Millisecond), true
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// meanConsecutiveDiff approximates jitter as the mean absolute difference
// between temporally consecutive samples. It is a coarse quality indicator,
// not an inter-arrival variance measurement.
func meanConsecutiveDiff(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(xs); i++ {
		total += math.Abs(xs[i] - xs[i-1])
	}
	return total / float64(len(xs)-1)
}
