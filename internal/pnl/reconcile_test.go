package pnl_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourorg/tradetrackr/internal/pnl"
)

func f(v float64) *float64 { return &v }

func TestReconcileMoneyOnly(t *testing.T) {
	rec := pnl.Reconcile(f(100), nil, 1000)
	assert.Equal(t, 100.0, rec.Money)
	assert.Equal(t, 10.0, rec.Percentage)
	assert.False(t, rec.Corrected)
}

func TestReconcilePercentageOnly(t *testing.T) {
	rec := pnl.Reconcile(nil, f(10), 1000)
	assert.Equal(t, 100.0, rec.Money)
	assert.Equal(t, 10.0, rec.Percentage)
	assert.False(t, rec.Corrected)
}

func TestReconcileDiscrepancyCorrection(t *testing.T) {
	// Expected percentage is 10, supplied 50: diff 40 > 5, money wins.
	rec := pnl.Reconcile(f(100), f(50), 1000)
	assert.Equal(t, 100.0, rec.Money)
	assert.Equal(t, 10.0, rec.Percentage)
	assert.True(t, rec.Corrected)
}

func TestReconcileConsistentPassThrough(t *testing.T) {
	// Expected percentage is 10, supplied 10.5: diff 0.5 <= 5, both kept.
	rec := pnl.Reconcile(f(100), f(10.5), 1000)
	assert.Equal(t, 100.0, rec.Money)
	assert.Equal(t, 10.5, rec.Percentage)
	assert.False(t, rec.Corrected)
}

func TestReconcileBothAbsent(t *testing.T) {
	rec := pnl.Reconcile(nil, nil, 1000)
	assert.Zero(t, rec.Money)
	assert.Zero(t, rec.Percentage)
	assert.False(t, rec.Corrected)
}

func TestReconcileNonPositiveBalance(t *testing.T) {
	// Falls back to the default balance basis instead of dividing by zero.
	rec := pnl.Reconcile(f(100), nil, 0)
	assert.Equal(t, 10.0, rec.Percentage)
}

func TestReconcileRoundTrip(t *testing.T) {
	balances := []float64{1000, 2500, 10000}
	moneys := []float64{-321.77, -10, 0.03, 42.42, 100, 999.99}
	for _, balance := range balances {
		for _, money := range moneys {
			first := pnl.Reconcile(f(money), nil, balance)
			second := pnl.Reconcile(nil, f(first.Percentage), balance)
			assert.LessOrEqual(t, math.Abs(second.Money-money), 0.01,
				"money=%v balance=%v", money, balance)
		}
	}
}

func TestReconcileRounding(t *testing.T) {
	rec := pnl.Reconcile(f(33.33), nil, 1000)
	assert.InDelta(t, 3.333, rec.Percentage, 1e-9)

	rec = pnl.Reconcile(nil, f(3.3333), 1000)
	assert.InDelta(t, 33.33, rec.Money, 1e-9)
}
