package journal_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/journal"
)

func validInput() journal.TradeInput {
	return journal.TradeInput{
		Title:      "London open breakout",
		Pair:       "EURUSD",
		Timeframe:  "15m",
		Bias:       "bullish",
		Result:     "win",
		RiskReward: "1:3",
		Feeling:    70,
	}
}

func testProfile(premium bool) domain.Profile {
	return domain.Profile{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Username:       "trader",
		AccountBalance: 1000,
		IsPremium:      premium,
	}
}

func TestBuildTradeSuccess(t *testing.T) {
	money := 50.0
	input := validInput()
	input.PnlMoney = &money

	trade, rec, err := journal.BuildTrade(input, testProfile(false), domain.UserStats{TotalTrades: 2}, journal.DefaultFreeTierLimit)
	require.NoError(t, err)
	require.NotNil(t, trade)

	assert.NotEqual(t, uuid.Nil, trade.ID)
	assert.Equal(t, domain.ResultWin, trade.Result)
	assert.Equal(t, domain.BiasBullish, trade.Bias)
	require.NotNil(t, trade.PnlMoney)
	require.NotNil(t, trade.PnlPercentage)
	assert.Equal(t, 50.0, *trade.PnlMoney)
	assert.Equal(t, 5.0, *trade.PnlPercentage)
	assert.Equal(t, 50.0, rec.Money)
}

func TestBuildTradeMissingFields(t *testing.T) {
	input := validInput()
	input.Title = ""
	input.RiskReward = ""

	_, _, err := journal.BuildTrade(input, testProfile(false), domain.UserStats{}, journal.DefaultFreeTierLimit)
	var missingErr *domain.MissingFieldsError
	require.ErrorAs(t, err, &missingErr)
	assert.ElementsMatch(t, []string{"title", "risk_reward"}, missingErr.Fields)
}

func TestBuildTradeInvalidResult(t *testing.T) {
	input := validInput()
	input.Result = "victory"

	_, _, err := journal.BuildTrade(input, testProfile(false), domain.UserStats{}, journal.DefaultFreeTierLimit)
	var invalidErr *domain.InvalidFieldError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "result", invalidErr.Field)
}

func TestBuildTradeQuotaGate(t *testing.T) {
	// At 2 existing trades the build succeeds; at the limit of 3 it fails.
	_, _, err := journal.BuildTrade(validInput(), testProfile(false), domain.UserStats{TotalTrades: 2}, 3)
	assert.NoError(t, err)

	_, _, err = journal.BuildTrade(validInput(), testProfile(false), domain.UserStats{TotalTrades: 3}, 3)
	assert.True(t, errors.Is(err, domain.ErrQuotaExceeded))
}

func TestBuildTradePremiumBypassesQuota(t *testing.T) {
	_, _, err := journal.BuildTrade(validInput(), testProfile(true), domain.UserStats{TotalTrades: 250}, 3)
	assert.NoError(t, err)
}

func TestBuildTradeLegacyResultSpelling(t *testing.T) {
	input := validInput()
	input.Result = "Breakeven"

	trade, _, err := journal.BuildTrade(input, testProfile(false), domain.UserStats{}, journal.DefaultFreeTierLimit)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultBreakEven, trade.Result)
}

func TestBuildTradeNoPnlInput(t *testing.T) {
	trade, rec, err := journal.BuildTrade(validInput(), testProfile(false), domain.UserStats{}, journal.DefaultFreeTierLimit)
	require.NoError(t, err)
	assert.Nil(t, trade.PnlMoney)
	assert.Nil(t, trade.PnlPercentage)
	assert.Zero(t, rec.Money)
}

func TestBuildTradeClampsFeeling(t *testing.T) {
	input := validInput()
	input.Feeling = 180
	trade, _, err := journal.BuildTrade(input, testProfile(false), domain.UserStats{}, journal.DefaultFreeTierLimit)
	require.NoError(t, err)
	assert.Equal(t, 100, trade.Feeling)
}

func TestBuildTradeRoundsPips(t *testing.T) {
	pips := 12.34
	input := validInput()
	input.PnlPips = &pips
	trade, _, err := journal.BuildTrade(input, testProfile(false), domain.UserStats{}, journal.DefaultFreeTierLimit)
	require.NoError(t, err)
	require.NotNil(t, trade.PnlPips)
	assert.InDelta(t, 12.3, *trade.PnlPips, 1e-9)
}
