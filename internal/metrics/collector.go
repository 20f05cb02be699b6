package metrics

import (
	"context"

	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a bus listener that exports change events and the size of the automaton.
// Gauges are refreshed on every event, from the goroutine that performed the mutation.
type Collector struct {
	automaton *domain.Automaton

	events       *prometheus.CounterVec
	words        *prometheus.CounterVec
	states       prometheus.Gauge
	transitions  prometheus.Gauge
	completeness prometheus.Gauge
	liveSteps    prometheus.Counter
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(a *domain.Automaton, reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		automaton: a,
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moore_events_total",
				Help: "Total number of change events by type",
			},
			[]string{"type"},
		),
		words: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moore_words_processed_total",
				Help: "Words processed in batch, by outcome",
			},
			[]string{"result"},
		),
		states: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moore_states",
			Help: "Number of declared states",
		}),
		transitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moore_transitions",
			Help: "Number of transitions",
		}),
		completeness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moore_completeness_percent",
			Help: "Share of (state, input) pairs with a transition",
		}),
		liveSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moore_live_steps_total",
			Help: "Successful live edit steps",
		}),
	}

	for _, col := range []prometheus.Collector{c.events, c.words, c.states, c.transitions, c.completeness, c.liveSteps} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	// Expose every event type from the start.
	for _, t := range domain.EventTypes {
		c.events.WithLabelValues(string(t))
	}
	c.refresh()
	return c, nil
}

// OnEvent implements notify.Listener.
func (c *Collector) OnEvent(ctx context.Context, ev domain.Event) error {
	c.events.WithLabelValues(string(ev.Type())).Inc()
	if _, ok := ev.(domain.LiveEditStep); ok {
		c.liveSteps.Inc()
	}
	c.refresh()
	return nil
}

// RecordProcess counts one batch run with its outcome.
func (c *Collector) RecordProcess(err error) {
	result := analysis.FailureKind(err)
	if result == "" {
		result = "ok"
	}
	c.words.WithLabelValues(result).Inc()
}

func (c *Collector) refresh() {
	c.states.Set(float64(len(c.automaton.States())))
	c.transitions.Set(float64(len(c.automaton.Transitions())))
	c.completeness.Set(analysis.Completeness(c.automaton))
}
