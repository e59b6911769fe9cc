package reporting

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Gauges mirrors the last flushed report as prometheus gauges.
type Gauges struct {
	readings *prometheus.GaugeVec
	flushes  prometheus.Counter
}

func NewGauges(reg prometheus.Registerer) (*Gauges, error) {
	g := &Gauges{
		readings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sensornode_reading",
				Help: "Last flushed value per reading id",
			},
			[]string{"reading"},
		),
		flushes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sensornode_flushes_total",
				Help: "Reports flushed since boot",
			},
		),
	}
	if err := reg.Register(g.readings); err != nil {
		return nil, err
	}
	if err := reg.Register(g.flushes); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gauges) Name() string {
	return "prometheus"
}

func (g *Gauges) Record(_ context.Context, r Report) error {
	for _, x := range r.All() {
		g.readings.WithLabelValues(x.ID).Set(x.Value)
	}
	g.flushes.Inc()
	return nil
}
