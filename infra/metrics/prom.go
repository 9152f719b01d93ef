package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "fleetmas/core/metrics"
)

// PromSink records solver and auction outcomes in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	objective *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
	auctions  *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus
// registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the metrics on the provided
// registerer. A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_solves_total",
		Help: "Total number of solver invocations",
	}, []string{"solver"})
	objective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_solve_objective",
		Help: "Objective value of the last solve",
	}, []string{"solver"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleet_solve_duration_seconds",
		Help:    "Wall time of solver invocations",
		Buckets: prometheus.DefBuckets,
	}, []string{"solver"})
	auctions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_auctions_total",
		Help: "Total number of resolved auctions",
	}, []string{"winner", "tie"})

	for _, c := range []prometheus.Collector{solves, objective, duration, auctions} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{solves: solves, objective: objective, duration: duration, auctions: auctions}, nil
}

// RecordSolve updates the solve counters and histograms.
func (s *PromSink) RecordSolve(r coremetrics.SolveResult) error {
	s.solves.WithLabelValues(r.Solver).Inc()
	s.objective.WithLabelValues(r.Solver).Set(r.Objective)
	s.duration.WithLabelValues(r.Solver).Observe(r.Duration.Seconds())
	return nil
}

// RecordAuction counts a resolved auction.
func (s *PromSink) RecordAuction(r coremetrics.AuctionResult) error {
	s.auctions.WithLabelValues(r.WinnerID, strconv.FormatBool(r.Tie)).Inc()
	return nil
}
