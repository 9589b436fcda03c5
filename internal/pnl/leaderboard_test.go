package pnl_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/pnl"
)

var (
	userA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	userB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	userC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func boardEntries() []domain.LeaderboardEntry {
	return []domain.LeaderboardEntry{
		{UserID: userA, Username: "alice", TotalPnlPercentage: 12.5, CurrentBalance: 1125, WinRate: 40, TotalTrades: 10},
		{UserID: userB, Username: "bob", TotalPnlPercentage: -3.0, CurrentBalance: 970, WinRate: 55, TotalTrades: 40},
		{UserID: userC, Username: "carol", TotalPnlPercentage: 20.0, CurrentBalance: 2400, WinRate: 55, TotalTrades: 5},
	}
}

func TestRankByPnl(t *testing.T) {
	ranked := pnl.Rank(boardEntries(), domain.SortPnl)
	require.Len(t, ranked, 3)
	assert.Equal(t, "carol", ranked[0].Username)
	assert.Equal(t, "alice", ranked[1].Username)
	assert.Equal(t, "bob", ranked[2].Username)
	assert.Equal(t, 1, ranked[0].PnlRank)
	assert.Equal(t, 2, ranked[1].PnlRank)
	assert.Equal(t, 3, ranked[2].PnlRank)
}

func TestRankAssignsAllFourRanks(t *testing.T) {
	ranked := pnl.Rank(boardEntries(), domain.SortBalance)
	require.Len(t, ranked, 3)
	byName := map[string]domain.LeaderboardEntry{}
	for _, e := range ranked {
		byName[e.Username] = e
	}
	carol := byName["carol"]
	assert.Equal(t, 1, carol.PnlRank)
	assert.Equal(t, 1, carol.BalanceRank)
	assert.Equal(t, 3, carol.VolumeRank) // 5 trades, lowest volume
	bob := byName["bob"]
	assert.Equal(t, 1, bob.VolumeRank)
}

func TestRankTieBreakIsUserIDAscending(t *testing.T) {
	// bob and carol share win_rate 55; bob's id sorts before carol's.
	ranked := pnl.Rank(boardEntries(), domain.SortWinRate)
	assert.Equal(t, "bob", ranked[0].Username)
	assert.Equal(t, "carol", ranked[1].Username)
	assert.Equal(t, "alice", ranked[2].Username)
	// Ties are not merged: strict sequential ranks.
	assert.Equal(t, 1, ranked[0].WinRateRank)
	assert.Equal(t, 2, ranked[1].WinRateRank)
	assert.Equal(t, 3, ranked[2].WinRateRank)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	entries := boardEntries()
	_ = pnl.Rank(entries, domain.SortPnl)
	assert.Equal(t, boardEntries(), entries)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, pnl.Rank(nil, domain.SortPnl))
}
