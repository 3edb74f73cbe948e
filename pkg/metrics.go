package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts trigger outputs over a run.
type Metrics struct {
	registry           *prometheus.Registry
	eventsProcessed    prometheus.Counter
	caloRecords        prometheus.Counter
	l1Decisions        prometheus.Counter
	coincidenceRecords *prometheus.CounterVec
	l2Decisions        *prometheus.CounterVec
	eventDecisions     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trigger_events_processed_total",
			Help: "Total number of events run through the trigger",
		}),
		caloRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trigger_calo_records_total",
			Help: "Total number of non empty calorimeter summary records",
		}),
		l1Decisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trigger_l1_decisions_total",
			Help: "Total number of L1 rising edges",
		}),
		coincidenceRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trigger_coincidence_records_total",
				Help: "Total number of non empty coincidence records",
			},
			[]string{"mode"},
		),
		l2Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trigger_l2_decisions_total",
				Help: "Total number of L2 decisions kept after debounce",
			},
			[]string{"mode"},
		),
		eventDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trigger_event_decisions_total",
				Help: "Total number of events with a final decision",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.eventsProcessed, m.caloRecords, m.l1Decisions,
		m.coincidenceRecords, m.l2Decisions, m.eventDecisions)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe adds the outputs of one event.
func (m *Metrics) Observe(result Result) {
	m.eventsProcessed.Inc()
	m.caloRecords.Add(float64(len(result.CaloRecords)))
	m.l1Decisions.Add(float64(len(result.L1Decisions)))
	for _, record := range result.CoincidenceRecords {
		m.coincidenceRecords.WithLabelValues(record.Mode.String()).Inc()
	}
	for _, decision := range result.L2Decisions {
		m.l2Decisions.WithLabelValues(decision.Mode.String()).Inc()
	}
	if result.CaloDecision {
		m.eventDecisions.WithLabelValues("calo").Inc()
	}
	if result.FinalDecision {
		m.eventDecisions.WithLabelValues("prompt").Inc()
	}
	if result.DelayedFinalDecision {
		m.eventDecisions.WithLabelValues("delayed").Inc()
	}
}

// WriteToFile dumps the metrics in the Prometheus text format.
func (m *Metrics) WriteToFile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
