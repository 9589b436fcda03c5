package pnl_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/pnl"
)

func legacyTrade(result string) domain.Trade {
	return domain.Trade{ID: uuid.New(), Result: domain.Result(result)}
}

func TestNormalizeResultsChain(t *testing.T) {
	fromBreakeven := legacyTrade("Breakeven")
	fromBE := legacyTrade("BE")

	patches := pnl.NormalizeResults([]domain.Trade{fromBreakeven, fromBE})
	require.Len(t, patches, 2)

	// Both historical spellings converge on the same canonical value.
	assert.Equal(t, domain.ResultBreakEven, patches[0].To)
	assert.Equal(t, domain.ResultBreakEven, patches[1].To)
	assert.Equal(t, fromBreakeven.ID, patches[0].TradeID)
	assert.Equal(t, fromBE.ID, patches[1].TradeID)
}

func TestNormalizeResultsCasing(t *testing.T) {
	patches := pnl.NormalizeResults([]domain.Trade{
		legacyTrade("Win"),
		legacyTrade("Loss"),
	})
	require.Len(t, patches, 2)
	assert.Equal(t, domain.ResultWin, patches[0].To)
	assert.Equal(t, domain.ResultLoss, patches[1].To)
}

func TestNormalizeResultsSkipsCanonical(t *testing.T) {
	patches := pnl.NormalizeResults([]domain.Trade{
		legacyTrade("win"),
		legacyTrade("loss"),
		legacyTrade("be"),
	})
	assert.Empty(t, patches)
}
