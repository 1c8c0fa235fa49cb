// Package metrics holds the Prometheus collectors for dispatch operations.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

const namespace = "dispatch"

// Outcome label values.
const (
	OutcomeOK             = "ok"
	OutcomeValidation     = "validation"
	OutcomeInvalid        = "invalid_transition"
	OutcomeNotFound       = "not_found"
	OutcomeStoreRetryable = "store_retryable"
	OutcomeStore          = "store"
	OutcomeError          = "error"
)

// Metrics groups the collectors the dispatch service updates.
// All methods are safe on a nil *Metrics.
type Metrics struct {
	operations       *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	tripsCreated     prometheus.Counter
	conflictWarnings prometheus.Counter
	notifyFailures   *prometheus.CounterVec
}

// New registers the dispatch collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Dispatch operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of dispatch operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		tripsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trips_created_total",
			Help:      "Trip records inserted, counting every recurring occurrence.",
		}),
		conflictWarnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflict_warnings_total",
			Help:      "Driver assignments that proceeded with an advisory conflict warning.",
		}),
		notifyFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Notifications that could not be delivered, by channel.",
		}, []string{"channel"}),
	}
}

// ObserveOp records one finished operation.
func (m *Metrics) ObserveOp(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, Outcome(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// TripsCreated adds n inserted trips.
func (m *Metrics) TripsCreated(n int) {
	if m == nil {
		return
	}
	m.tripsCreated.Add(float64(n))
}

// ConflictWarning counts one advisory warning.
func (m *Metrics) ConflictWarning() {
	if m == nil {
		return
	}
	m.conflictWarnings.Inc()
}

// NotifyFailed counts one failed delivery on channel.
func (m *Metrics) NotifyFailed(channel string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(channel).Inc()
}

// Outcome classifies err into an outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if se, ok := domain.IsStoreError(err); ok {
		if se.Retryable {
			return OutcomeStoreRetryable
		}
		return OutcomeStore
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, domain.ErrInvalidTransition):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
