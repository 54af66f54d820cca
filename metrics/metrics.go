// Package metrics exposes prometheus collectors for metadata build attempts
// and validator checkpoint fetches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hyperlane_metadata"

// Metrics collects build outcomes and checkpoint store health. A nil registerer
// yields working but unregistered collectors, which tests rely on.
type Metrics struct {
	buildTotal            *prometheus.CounterVec
	buildDuration         *prometheus.HistogramVec
	checkpointFetchErrors *prometheus.CounterVec
	validatorLatestIndex  *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		buildTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_total",
			Help:      "Metadata build attempts by ism module type and outcome.",
		}, []string{"module_type", "outcome"}),
		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Metadata build latency by ism module type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module_type"}),
		checkpointFetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoint_fetch_errors_total",
			Help:      "Failed checkpoint fetches by validator address.",
		}, []string{"validator"}),
		validatorLatestIndex: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "validator_latest_checkpoint_index",
			Help:      "Latest checkpoint index observed per validator.",
		}, []string{"origin", "validator"}),
	}
}

// Nop returns collectors that record nowhere.
func Nop() *Metrics {
	return New(nil)
}

func (m *Metrics) ObserveBuild(moduleType string, success bool, elapsed time.Duration) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.buildTotal.WithLabelValues(moduleType, outcome).Inc()
	m.buildDuration.WithLabelValues(moduleType).Observe(elapsed.Seconds())
}

func (m *Metrics) CheckpointFetchError(validator string) {
	m.checkpointFetchErrors.WithLabelValues(validator).Inc()
}

func (m *Metrics) SetValidatorLatestIndex(origin string, validator string, index int64) {
	m.validatorLatestIndex.WithLabelValues(origin, validator).Set(float64(index))
}
