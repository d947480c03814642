// Package metrics exports store transaction outcomes to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tianjianchn/stas/store"
)

const (
	namespace = "stas"
	subsystem = "store"
)

const (
	ResultCommitted  = "committed"
	ResultUnchanged  = "unchanged"
	ResultRolledBack = "rolled_back"
)

// Metrics implements store.Observer.
type Metrics struct {
	// TransactionsTotal counts finished transactions by result.
	TransactionsTotal *prometheus.CounterVec

	// TransactionDurationSeconds measures Mutate calls from Begin to the
	// end of the transaction, by result.
	TransactionDurationSeconds *prometheus.HistogramVec

	// PanicsTotal counts transactions rolled back by a panic.
	PanicsTotal prometheus.Counter

	// LastCommittedTx is the id of the most recent committed transaction.
	LastCommittedTx prometheus.Gauge
}

var _ store.Observer = (*Metrics)(nil)

// New creates the metrics and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		TransactionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transactions_total",
				Help:      "Finished store transactions by result",
			},
			[]string{"result"},
		),
		TransactionDurationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transaction_duration_seconds",
				Help:      "Store transaction duration by result",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"result"},
		),
		PanicsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "panics_total",
				Help:      "Store transactions rolled back by a panic",
			},
		),
		LastCommittedTx: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_committed_tx",
				Help:      "Id of the most recently committed transaction",
			},
		),
	}
}

func (m *Metrics) Committed(txID uint32, d time.Duration) {
	m.record(ResultCommitted, d)
	m.LastCommittedTx.Set(float64(txID))
}

func (m *Metrics) Unchanged(_ uint32, d time.Duration) {
	m.record(ResultUnchanged, d)
}

// RolledBack counts err == nil as a panic.
func (m *Metrics) RolledBack(_ uint32, d time.Duration, err error) {
	m.record(ResultRolledBack, d)
	if err == nil {
		m.PanicsTotal.Inc()
	}
}

func (m *Metrics) record(result string, d time.Duration) {
	m.TransactionsTotal.WithLabelValues(result).Inc()
	m.TransactionDurationSeconds.WithLabelValues(result).Observe(d.Seconds())
}
