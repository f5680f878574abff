package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the lead intake pipeline.
type IntakeMetrics struct {
	leadsTotal         *prometheus.CounterVec
	dispatchTotal      *prometheus.CounterVec
	requestSeconds     prometheus.Histogram
	suppressionRecords prometheus.Gauge
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgate",
			Subsystem: "intake",
			Name:      "leads_total",
			Help:      "Total processed lead submissions by final status",
		}, []string{"status"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgate",
			Subsystem: "intake",
			Name:      "buyer_dispatch_total",
			Help:      "Total buyer dispatch attempts",
		}, []string{"buyer", "status"}),
		requestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadgate",
			Subsystem: "intake",
			Name:      "request_seconds",
			Help:      "Latency of lead intake processing",
			Buckets:   prometheus.DefBuckets,
		}),
		suppressionRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leadgate",
			Subsystem: "intake",
			Name:      "suppression_records",
			Help:      "Opt-out records seen at the last suppression index refresh",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsTotal, m.dispatchTotal, m.requestSeconds, m.suppressionRecords)
	return m
}

func (m *IntakeMetrics) ObserveLead(status string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) ObserveDispatch(buyer, status string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(buyer, status).Inc()
}

func (m *IntakeMetrics) ObserveRequest(seconds float64) {
	if m == nil {
		return
	}
	m.requestSeconds.Observe(seconds)
}

func (m *IntakeMetrics) SetSuppressionRecords(n int) {
	if m == nil {
		return
	}
	m.suppressionRecords.Set(float64(n))
}
