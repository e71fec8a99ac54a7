package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cabinbuddy"

// Data-quality event kinds.
const (
	EventDuplicateMerged = "duplicate_merged"
	EventOrphanMatched   = "orphan_matched"
	EventSplitImbalance  = "split_imbalance"
	EventInvalidStay     = "invalid_stay"
	EventNotPriced       = "not_priced"
)

type Metrics struct {
	LedgerComputations *prometheus.CounterVec
	LedgerDuration     *prometheus.HistogramVec
	StaysProcessed     prometheus.Counter
	CreditMoved        *prometheus.CounterVec
	DataQuality        *prometheus.CounterVec
	PaymentsRecorded   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		LedgerComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_computations_total",
			Help:      "Ledger computations by scope.",
		}, []string{"scope"}),
		LedgerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_compute_duration_seconds",
			Help:      "Time spent loading and computing a ledger.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
		StaysProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_stays_processed_total",
			Help:      "Stay entries folded through the credit cascade.",
		}),
		CreditMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_credit_moved_dollars_total",
			Help:      "Credit redistributed between stays by cascade direction.",
		}, []string{"direction"}),
		DataQuality: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_quality_events_total",
			Help:      "Inconsistencies tolerated while projecting payments.",
		}, []string{"kind"}),
		PaymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Payments recorded against stays.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.LedgerComputations,
		m.LedgerDuration,
		m.StaysProcessed,
		m.CreditMoved,
		m.DataQuality,
		m.PaymentsRecorded,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
