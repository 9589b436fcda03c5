package pnl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourorg/tradetrackr/internal/pnl"
)

func TestPipValue(t *testing.T) {
	tests := []struct {
		name    string
		pair    string
		balance float64
		want    float64
	}{
		{"empty pair", "", 1000, 0},
		{"major small account", "EURUSD", 500, 0.1},
		{"major standard account", "EURUSD", 1000, 1},
		{"major large account", "EURUSD", 10000, 10},
		{"jpy quoted", "USDJPY", 1000, 100},
		{"jpy cross", "GBPJPY", 1000, 100},
		{"gold", "XAUUSD", 1000, 1},
		{"silver", "XAGUSD", 1000, 0.1},
		{"platinum", "XPTUSD", 1000, 1},
		{"index", "US30", 1000, 10},
		{"index nasdaq", "NAS100", 10000, 100},
		{"unknown falls back to major", "FOOBAR", 1000, 1},
		{"lowercase accepted", "eurusd", 1000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pnl.PipValue(tt.pair, tt.balance), 1e-9)
		})
	}
}

func TestLotSizeTiers(t *testing.T) {
	assert.Equal(t, 100000.0, pnl.LotSize(25000))
	assert.Equal(t, 100000.0, pnl.LotSize(10000))
	assert.Equal(t, 10000.0, pnl.LotSize(9999.99))
	assert.Equal(t, 10000.0, pnl.LotSize(1000))
	assert.Equal(t, 1000.0, pnl.LotSize(999.99))
	assert.Equal(t, 1000.0, pnl.LotSize(0))
}

func TestPipValueNeverPanics(t *testing.T) {
	for _, pair := range []string{"", " ", "X", "???", "JPY", "XAUUSDXX", "12345"} {
		assert.NotPanics(t, func() { pnl.PipValue(pair, -100) })
		assert.NotPanics(t, func() { pnl.PipValue(pair, 0) })
	}
}

func TestPipsFromMoney(t *testing.T) {
	// 10 pips at risk at $1/pip: $25 of P&L is 2.5 R-pips.
	assert.InDelta(t, 2.5, pnl.PipsFromMoney(25, 10, 1), 1e-9)
	assert.Zero(t, pnl.PipsFromMoney(25, 0, 1))
	assert.Zero(t, pnl.PipsFromMoney(25, 10, 0))
}
