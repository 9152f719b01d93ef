package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "fleetmas/core/metrics"
)

func TestPromSinkRecordsSolves(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordSolve(coremetrics.SolveResult{
		Solver:    "late_acceptance",
		Objective: 123,
		Duration:  50 * time.Millisecond,
		Time:      time.Now(),
	}))
	require.NoError(t, sink.RecordSolve(coremetrics.SolveResult{
		Solver:    "late_acceptance",
		Objective: 101,
		Duration:  10 * time.Millisecond,
		Time:      time.Now(),
	}))

	assert.Equal(t, float64(2), testutil.ToFloat64(sink.solves.WithLabelValues("late_acceptance")))
	assert.Equal(t, float64(101), testutil.ToFloat64(sink.objective.WithLabelValues("late_acceptance")))
}

func TestPromSinkRecordsAuctions(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordAuction(coremetrics.AuctionResult{WinnerID: "vehicle-1", Tie: true}))
	require.NoError(t, sink.RecordAuction(coremetrics.AuctionResult{WinnerID: "vehicle-1", Tie: true}))
	require.NoError(t, sink.RecordAuction(coremetrics.AuctionResult{WinnerID: "vehicle-0"}))

	assert.Equal(t, float64(2), testutil.ToFloat64(sink.auctions.WithLabelValues("vehicle-1", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.auctions.WithLabelValues("vehicle-0", "false")))
}

func TestPromSinkToleratesDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(reg)
	assert.NoError(t, err)
}
