package metrics

import (
	"errors"

	coremetrics "fleetmas/core/metrics"
)

// MultiSink fans records out to several sinks, collecting their errors.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordSolve forwards to every sink.
func (m *MultiSink) RecordSolve(r coremetrics.SolveResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordSolve(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordAuction forwards to every sink.
func (m *MultiSink) RecordAuction(r coremetrics.AuctionResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordAuction(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
