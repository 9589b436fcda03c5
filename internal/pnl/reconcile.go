package pnl

import (
	"math"

	"github.com/yourorg/tradetrackr/internal/domain"
)

// Money and percentage must agree within this many absolute percentage
// points; beyond it money wins and percentage is rewritten.
const discrepancyTolerance = 5.0

// Reconciled is the outcome of deriving the missing side of the P&L pair.
// Corrected reports that the supplied percentage disagreed with money by more
// than the tolerance and was overwritten.
type Reconciled struct {
	Money      float64 `json:"pnl_money"`
	Percentage float64 `json:"pnl_percentage"`
	Corrected  bool    `json:"-"`
}

// Reconcile fills in whichever of money/percentage is absent, using the
// account balance as the percentage basis. When both are present, money is
// the source of truth. Absent inputs are nil; the function never fails.
func Reconcile(money, percentage *float64, accountBalance float64) Reconciled {
	if accountBalance <= 0 {
		accountBalance = domain.DefaultAccountBalance
	}

	switch {
	case money != nil && percentage == nil:
		return Reconciled{
			Money:      *money,
			Percentage: Round4(*money / accountBalance * 100),
		}
	case money == nil && percentage != nil:
		return Reconciled{
			Money:      Round2(accountBalance * *percentage / 100),
			Percentage: *percentage,
		}
	case money != nil && percentage != nil:
		expected := *money / accountBalance * 100
		if math.Abs(expected-*percentage) > discrepancyTolerance {
			return Reconciled{
				Money:      *money,
				Percentage: Round4(expected),
				Corrected:  true,
			}
		}
		return Reconciled{Money: *money, Percentage: *percentage}
	}
	return Reconciled{}
}
