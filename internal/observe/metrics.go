// Package observe holds the OpenTelemetry metric instruments recorded by the
// encounter builder. Tests should build their own instance with NewMetrics and
// an sdk MeterProvider; production code uses DefaultMetrics.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/KirkDiggler/battlebrain"

// Metric names
const (
	MetricPredictDuration      = "battlebrain.predict.duration"
	MetricCatalogRequests      = "battlebrain.catalog.requests"
	MetricDiscardedSuggestions = "battlebrain.suggestions.discarded"
	MetricRosterMutations      = "battlebrain.roster.mutations"
)

// Metrics holds the instruments. A nil *Metrics records nothing.
type Metrics struct {
	// PredictDuration is the wall time of a prediction request including the
	// latency floor. Attribute: outcome.
	PredictDuration metric.Float64Histogram

	// CatalogRequests counts catalog calls. Attributes: kind (lookup,
	// suggest), status.
	CatalogRequests metric.Int64Counter

	// DiscardedSuggestions counts suggestion responses dropped because a
	// newer keystroke superseded them.
	DiscardedSuggestions metric.Int64Counter

	// RosterMutations counts roster store mutations. Attribute: op.
	RosterMutations metric.Int64Counter
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5, 10,
}

// NewMetrics creates the instruments from mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.PredictDuration, err = m.Float64Histogram(MetricPredictDuration,
		metric.WithDescription("Latency of prediction requests, latency floor included."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CatalogRequests, err = m.Int64Counter(MetricCatalogRequests,
		metric.WithDescription("Total monster catalog requests by kind and status."),
	); err != nil {
		return nil, err
	}
	if met.DiscardedSuggestions, err = m.Int64Counter(MetricDiscardedSuggestions,
		metric.WithDescription("Suggestion responses discarded as stale."),
	); err != nil {
		return nil, err
	}
	if met.RosterMutations, err = m.Int64Counter(MetricRosterMutations,
		metric.WithDescription("Roster mutations by operation."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built on the global
// MeterProvider. Panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordPredict records one prediction request
func (m *Metrics) RecordPredict(ctx context.Context, d time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.PredictDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// RecordCatalogRequest records one catalog call
func (m *Metrics) RecordCatalogRequest(ctx context.Context, kind, status string) {
	if m == nil {
		return
	}
	m.CatalogRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordDiscardedSuggestion records a stale suggestion response
func (m *Metrics) RecordDiscardedSuggestion(ctx context.Context) {
	if m == nil {
		return
	}
	m.DiscardedSuggestions.Add(ctx, 1)
}

// RecordRosterMutation records a roster store mutation
func (m *Metrics) RecordRosterMutation(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.RosterMutations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", op)),
	)
}
