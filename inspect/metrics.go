package inspect

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arborui/locator/events"
)

// Metrics collects Prometheus metrics from locator events. It owns its
// prometheus registry so multiple collectors can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	RegistrationsTotal   *prometheus.CounterVec
	UnregistrationsTotal *prometheus.CounterVec
	ResolutionsTotal     *prometheus.CounterVec
	BindingsActive       prometheus.Gauge
	EntriesActive        prometheus.Gauge
	PromotionsTotal      prometheus.Counter
	DemotionsTotal       prometheus.Counter
	NotificationsTotal   prometheus.Counter

	mu       sync.RWMutex
	snapshot Snapshot
}

// Snapshot holds current counter values for the JSON stats endpoint.
type Snapshot struct {
	Registrations   int64 `json:"registrations"`
	Unregistrations int64 `json:"unregistrations"`
	Resolutions     int64 `json:"resolutions"`
	Bindings        int64 `json:"bindings"`
	Promotions      int64 `json:"promotions"`
	Demotions       int64 `json:"demotions"`
	Notifications   int64 `json:"notifications"`
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RegistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locator_registrations_total",
				Help: "Total number of registrations",
			},
			[]string{"source"},
		),
		UnregistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locator_unregistrations_total",
				Help: "Total number of unregistrations",
			},
			[]string{"source"},
		),
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locator_resolutions_total",
				Help: "Total number of successful resolutions",
			},
			[]string{"source"},
		),
		BindingsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "locator_tree_bindings_active",
				Help: "Number of live tree bindings",
			},
		),
		EntriesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "locator_registry_entries_active",
				Help: "Number of live registry entries",
			},
		),
		PromotionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "locator_promotions_total",
				Help: "Total number of tree-to-registry promotions",
			},
		),
		DemotionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "locator_demotions_total",
				Help: "Total number of promotion reversals",
			},
		),
		NotificationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "locator_notifications_total",
				Help: "Total number of change notifications delivered to dependents",
			},
		),
	}
}

// Registry returns the prometheus registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Stats returns the current counter snapshot.
func (m *Metrics) Stats() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Emit implements events.Sink.
func (m *Metrics) Emit(e events.Event) {
	source := string(e.Source)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Op {
	case events.OpRegistered:
		m.RegistrationsTotal.WithLabelValues(source).Inc()
		m.EntriesActive.Inc()
		m.snapshot.Registrations++
	case events.OpUnregistered:
		m.UnregistrationsTotal.WithLabelValues(source).Inc()
		m.EntriesActive.Dec()
		m.snapshot.Unregistrations++
	case events.OpResolved:
		m.ResolutionsTotal.WithLabelValues(source).Inc()
		m.snapshot.Resolutions++
	case events.OpBound:
		m.BindingsActive.Inc()
		m.snapshot.Bindings++
	case events.OpUnbound:
		m.BindingsActive.Dec()
		m.snapshot.Bindings--
	case events.OpPromoted:
		m.PromotionsTotal.Inc()
		m.snapshot.Promotions++
	case events.OpDemoted:
		m.DemotionsTotal.Inc()
		m.snapshot.Demotions++
	case events.OpNotified:
		m.NotificationsTotal.Inc()
		m.snapshot.Notifications++
	}
}
