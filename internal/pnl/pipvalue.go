package pnl

import "strings"

// LotSize is the notional position size approximated from the account-balance
// tier rather than taken as explicit user input.
func LotSize(accountBalance float64) float64 {
	switch {
	case accountBalance >= 10000:
		return 100000
	case accountBalance >= 1000:
		return 10000
	default:
		return 1000
	}
}

// PipValue returns the monetary value of one pip for the given pair at the
// lot size implied by the account balance. It is total: unrecognized symbols
// fall back to the major-pair formula and an empty pair yields 0.
func PipValue(pair string, accountBalance float64) float64 {
	if pair == "" {
		return 0
	}
	lot := LotSize(accountBalance)
	pair = strings.ToUpper(strings.TrimSpace(pair))

	switch pair {
	case "XAUUSD", "XPTUSD", "XPDUSD":
		return lot * 0.01 / 100
	case "XAGUSD":
		return lot * 0.001 / 100
	case "US30", "NAS100", "SPX500", "GER40", "UK100", "JPN225":
		return lot * 0.1 / 100
	}
	if strings.HasSuffix(pair, "JPY") {
		return lot * 0.01
	}
	// Majors (EURUSD, GBPUSD, AUDUSD, ...) and any unknown symbol.
	return lot * 0.0001
}

// PipsFromMoney converts a money P&L into pips for risk-based sizing. It is
// independent of the pips stored on a trade, which are user-supplied.
func PipsFromMoney(money, pipsAtRisk, pipValue float64) float64 {
	if pipsAtRisk == 0 || pipValue == 0 {
		return 0
	}
	return Round1(money / (pipsAtRisk * pipValue))
}
