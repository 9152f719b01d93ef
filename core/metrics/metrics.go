package metrics

import "time"

// SolveResult describes one completed solver invocation.
type SolveResult struct {
	Solver     string
	Objective  float64
	Iterations int
	Vehicles   int
	Requests   int
	Duration   time.Duration
	Time       time.Time
}

// AuctionResult describes one resolved auction.
type AuctionResult struct {
	RequestID string
	WinnerID  string
	Bidders   int
	BestBid   float64
	Tie       bool
	Time      time.Time
}

// MetricsSink persists solver and auction outcomes. Implementations must
// be safe for use from the host's consumer goroutines.
type MetricsSink interface {
	RecordSolve(SolveResult) error
	RecordAuction(AuctionResult) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordSolve(SolveResult) error     { return nil }
func (NopSink) RecordAuction(AuctionResult) error { return nil }
