package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
}

// Setup configures OpenTelemetry metrics backed by a Prometheus exporter.
// It returns a Recorder, the Prometheus HTTP handler (nil when disabled) and
// a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "pool-api"
	}

	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExp),
		sdkmetric.WithResource(res),
	)

	inst, err := newOtelInstruments(provider, cfg.ServiceName)
	if err != nil {
		return nil, nil, nil, err
	}

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return newRecorder(inst), handler, provider.Shutdown, nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	poolsCreated     metric.Int64Counter
	codeCollisions   metric.Int64Counter
	joins            metric.Int64Counter
	guesses          metric.Int64Counter
}

func newOtelInstruments(provider metric.MeterProvider, name string) (*otelInstruments, error) {
	meter := provider.Meter(name)

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	poolsCreated, err := meter.Int64Counter("pools_created_total")
	if err != nil {
		return nil, err
	}
	codeCollisions, err := meter.Int64Counter("pool_code_collisions_total")
	if err != nil {
		return nil, err
	}
	joins, err := meter.Int64Counter("pool_joins_total")
	if err != nil {
		return nil, err
	}
	guesses, err := meter.Int64Counter("guesses_submitted_total")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              context.Background(),
		requests:         requests,
		requestLatencyMs: requestLatency,
		poolsCreated:     poolsCreated,
		codeCollisions:   codeCollisions,
		joins:            joins,
		guesses:          guesses,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
}

func (o *otelInstruments) recordPoolCreated(kind string) {
	o.poolsCreated.Add(o.ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}

func (o *otelInstruments) recordCodeCollision() {
	o.codeCollisions.Add(o.ctx, 1)
}

func (o *otelInstruments) recordJoin(outcome string) {
	o.joins.Add(o.ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

func (o *otelInstruments) recordGuess(outcome string) {
	o.guesses.Add(o.ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}
