package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tinysplit"

// Metrics holds the collectors for one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Lines     *prometheus.CounterVec
	Pushes    prometheus.Counter
	Pops      prometheus.Counter
	Recovered prometheus.Counter
	Depth     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Lines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_total",
				Help:      "Lines processed, by sigil kind.",
			},
			[]string{"kind"},
		),
		Pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_pushes_total",
			Help:      "Scopes opened.",
		}),
		Pops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_pops_total",
			Help:      "Scopes closed, counting every entry removed.",
		}),
		Recovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovered_closes_total",
			Help:      "Closers that matched no open scope and cleared the stack.",
		}),
		Depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stack_depth",
			Help:      "Stack depth after each line.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16, 32},
		}),
	}
	m.Registry.MustRegister(m.Lines, m.Pushes, m.Pops, m.Recovered, m.Depth)
	return m
}

// Hooks returns session hooks that count pushes and pops.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnPush: func(e *domain.ScopeEvent) {
			m.Pushes.Inc()
		},
		OnPop: func(e *domain.ScopeEvent) {
			m.Pops.Add(float64(len(e.Texts)))
		},
	}
}

// Observe counts a line result. End results are ignored.
func (m *Metrics) Observe(res tinysplit.Result) {
	if res.End {
		return
	}
	m.observe(res.Sigil, res.Recovered, res.Depth())
}

// ObserveRecord is Observe for a detached record.
func (m *Metrics) ObserveRecord(rec domain.LineRecord) {
	if rec.Trimmed == nil {
		return
	}
	m.observe(domain.SigilOf([]byte(*rec.Trimmed)), rec.Recovered, len(rec.Stack))
}

func (m *Metrics) observe(sigil domain.Sigil, recovered bool, depth int) {
	m.Lines.WithLabelValues(sigil.Kind()).Inc()
	if recovered {
		m.Recovered.Inc()
	}
	m.Depth.Observe(float64(depth))
}

// Output implements runner.OutputHandler.
func (m *Metrics) Output(ctx context.Context, res tinysplit.Result) error {
	m.Observe(res)
	return nil
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
