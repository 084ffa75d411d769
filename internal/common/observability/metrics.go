package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"artmatch/internal/common/metrics"
)

// Observability owns the OpenTelemetry meter and mirrors ranking passes into
// the Prometheus collectors in the metrics package.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	rankingCounter  otelmetric.Int64Counter
	rankingDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName)
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	rankingCounter, _ := meter.Int64Counter(
		"rankings.processed",
		otelmetric.WithDescription("Number of ranking passes"),
	)
	rankingDuration, _ := meter.Float64Histogram(
		"rankings.duration",
		otelmetric.WithDescription("Ranking pass duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		rankingCounter:  rankingCounter,
		rankingDuration: rankingDuration,
	}
}

// RecordRanking records one ranking pass. err decides the status label.
func (o *Observability) RecordRanking(ctx context.Context, source string, candidates int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	metrics.RankingsTotal.WithLabelValues(source, status).Inc()
	metrics.RankingDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err == nil {
		metrics.CandidatesScored.Add(float64(candidates))
	}

	attrs := otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	)
	if o.rankingCounter != nil {
		o.rankingCounter.Add(ctx, 1, attrs)
	}
	if o.rankingDuration != nil {
		o.rankingDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
