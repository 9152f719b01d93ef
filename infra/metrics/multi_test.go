package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetmas/core/logger"
	coremetrics "fleetmas/core/metrics"
)

type recordingSink struct {
	solves   int
	auctions int
	err      error
}

func (r *recordingSink) RecordSolve(coremetrics.SolveResult) error {
	r.solves++
	return r.err
}

func (r *recordingSink) RecordAuction(coremetrics.AuctionResult) error {
	r.auctions++
	return r.err
}

func TestMultiSinkForwardsToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	require.NoError(t, m.RecordSolve(coremetrics.SolveResult{}))
	require.NoError(t, m.RecordAuction(coremetrics.AuctionResult{}))
	assert.Equal(t, 1, a.solves)
	assert.Equal(t, 1, b.solves)
	assert.Equal(t, 1, a.auctions)
	assert.Equal(t, 1, b.auctions)
}

func TestMultiSinkCollectsErrorsWithoutStopping(t *testing.T) {
	boom := errors.New("boom")
	failing := &recordingSink{err: boom}
	healthy := &recordingSink{}
	m := NewMultiSink(failing, healthy)

	err := m.RecordSolve(coremetrics.SolveResult{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, healthy.solves, "healthy sink must still be called")
}

func TestNewFromConfigDefaultsToNop(t *testing.T) {
	sink, err := NewFromConfig(coremetrics.Config{}, logger.Nop{})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, sink)
}

func TestNewFromConfigPrometheusOnly(t *testing.T) {
	sink, err := NewFromConfig(coremetrics.Config{PrometheusEnabled: true}, logger.Nop{})
	require.NoError(t, err)
	assert.IsType(t, &PromSink{}, sink)
}
