package pnl

import "math"

// Rounding helpers matching the stored precision of each P&L field:
// pips to 1 decimal, money to 2, percentage to 4. Half away from zero.

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
