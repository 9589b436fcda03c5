package pnl

import (
	"math"

	"github.com/yourorg/tradetrackr/internal/domain"
)

// Aggregate recomputes the full stats rollup from scratch. It is idempotent
// over the input trade set and returns zero-value stats for an empty one.
// Results are matched against canonical values only; legacy spellings must
// have been normalized first (see NormalizeResults).
func Aggregate(trades []domain.Trade, accountBalance float64) domain.UserStats {
	stats := domain.UserStats{
		TotalTrades:    len(trades),
		CurrentBalance: accountBalance,
	}

	var sumPct, sumPips, sumMoney float64
	for _, t := range trades {
		switch t.Result {
		case domain.ResultWin:
			stats.Wins++
		case domain.ResultLoss:
			stats.Losses++
		case domain.ResultBreakEven:
			stats.Breakevens++
		}
		if t.PnlPercentage != nil {
			sumPct += *t.PnlPercentage
		}
		if t.PnlPips != nil {
			sumPips += *t.PnlPips
		}
		if t.PnlMoney != nil {
			sumMoney += *t.PnlMoney
		}
	}

	if stats.TotalTrades > 0 {
		stats.WinRate = int(math.Round(float64(stats.Wins) / float64(stats.TotalTrades) * 100))
	}
	stats.TotalPnlPercentage = Round2(sumPct)
	stats.TotalPnlPips = Round1(sumPips)
	stats.TotalPnlMoney = Round2(sumMoney)
	stats.CurrentBalance = Round2(accountBalance + stats.TotalPnlMoney)

	return stats
}
