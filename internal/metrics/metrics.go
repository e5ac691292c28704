// Package metrics exposes generation and template rendering counters in
// Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of observations made by the generation pipeline.
type Metrics interface {
	ObserveGeneration(provider, model, status string, durationSeconds float64)
	IncTemplateRender(status string)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) ObserveGeneration(string, string, string, float64) {}
func (Noop) IncTemplateRender(string)                          {}

// Prom implements Metrics backed by Prometheus collectors registered on its
// own registry.
type Prom struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	renders     *prometheus.CounterVec
}

// NewProm creates collectors under namespace on a fresh registry. Go runtime
// and process collectors are included.
func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Text generations by provider, model and status",
		}, []string{"provider", "model", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Text generation latency by provider and model",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "model"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_renders_total",
			Help:      "Prompt template renders by status",
		}, []string{"status"}),
	}
	p.registry.MustRegister(
		p.generations,
		p.latency,
		p.renders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prom) ObserveGeneration(provider, model, status string, durationSeconds float64) {
	p.generations.WithLabelValues(provider, model, status).Inc()
	p.latency.WithLabelValues(provider, model).Observe(durationSeconds)
}

func (p *Prom) IncTemplateRender(status string) {
	p.renders.WithLabelValues(status).Inc()
}

// Registry returns the registry the collectors are registered on.
func (p *Prom) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns an HTTP handler for /metrics.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
