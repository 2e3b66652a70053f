package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts user actions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	saved         *prometheus.CounterVec
	deleted       prometheus.Counter
	inputErrors   prometheus.Counter
	coldStarts    prometheus.Counter
	trainDuration prometheus.Histogram
	records       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		saved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studenteval",
			Name:      "evaluations_saved_total",
			Help:      "Evaluations saved, by resulting label.",
		}, []string{"result"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studenteval",
			Name:      "evaluations_deleted_total",
			Help:      "Evaluation records deleted.",
		}),
		inputErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studenteval",
			Name:      "input_errors_total",
			Help:      "Save attempts rejected by input validation.",
		}),
		coldStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studenteval",
			Name:      "cold_starts_total",
			Help:      "Saves that used the default label because no classifier could be trained.",
		}),
		trainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "studenteval",
			Name:      "training_duration_seconds",
			Help:      "Time spent fitting the classifier on each save.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "studenteval",
			Name:      "records",
			Help:      "Records in the store after the last refresh.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.saved, m.deleted, m.inputErrors, m.coldStarts, m.trainDuration, m.records)
	}
	return m
}

func (m *Metrics) Saved(result string) {
	if m == nil {
		return
	}
	m.saved.WithLabelValues(result).Inc()
}

func (m *Metrics) Deleted() {
	if m == nil {
		return
	}
	m.deleted.Inc()
}

func (m *Metrics) InputError() {
	if m == nil {
		return
	}
	m.inputErrors.Inc()
}

func (m *Metrics) ColdStart() {
	if m == nil {
		return
	}
	m.coldStarts.Inc()
}

func (m *Metrics) Trained(d time.Duration) {
	if m == nil {
		return
	}
	m.trainDuration.Observe(d.Seconds())
}

func (m *Metrics) Records(n int) {
	if m == nil {
		return
	}
	m.records.Set(float64(n))
}
