package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abatilo/taskboard/internal/dashboard"
)

// Metrics counts refresh outcomes. It is a dashboard.Notifier so both
// scheduled and on-demand refreshes are counted.
type Metrics struct {
	registry  *prometheus.Registry
	refreshes *prometheus.CounterVec
}

// NewMetrics creates Metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskboard",
			Name:      "refreshes_total",
			Help:      "Refresh cycles by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.refreshes)
	return m
}

// Notify counts a refresh outcome.
func (m *Metrics) Notify(n dashboard.Notification) {
	switch n.Level {
	case dashboard.LevelSuccess:
		m.refreshes.WithLabelValues("success").Inc()
	case dashboard.LevelError:
		m.refreshes.WithLabelValues("failure").Inc()
	case dashboard.LevelInfo:
	}
}

// trackTasks exports the size of the current task set.
func (m *Metrics) trackTasks(live *dashboard.Live) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "taskboard",
		Name:      "tasks",
		Help:      "Tasks in the current task set.",
	}, func() float64 {
		return float64(len(live.State().Tasks()))
	}))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
