package pnl

import (
	"bytes"
	"sort"

	"github.com/google/uuid"

	"github.com/yourorg/tradetrackr/internal/domain"
)

func sortValue(e domain.LeaderboardEntry, key domain.SortKey) float64 {
	switch key {
	case domain.SortBalance:
		return e.CurrentBalance
	case domain.SortWinRate:
		return float64(e.WinRate)
	case domain.SortVolume:
		return float64(e.TotalTrades)
	default:
		return e.TotalPnlPercentage
	}
}

func sortByKey(entries []domain.LeaderboardEntry, key domain.SortKey) {
	sort.Slice(entries, func(i, j int) bool {
		vi, vj := sortValue(entries[i], key), sortValue(entries[j], key)
		if vi != vj {
			return vi > vj
		}
		// Deterministic tie-break: user id ascending.
		return bytes.Compare(entries[i].UserID[:], entries[j].UserID[:]) < 0
	})
}

// Rank orders entries descending by the given sort key and assigns all four
// rank fields. Ranks are strict 1-based positions; ties are not merged. The
// input slice is never mutated.
func Rank(entries []domain.LeaderboardEntry, key domain.SortKey) []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, len(entries))
	copy(out, entries)

	for _, k := range []domain.SortKey{domain.SortPnl, domain.SortBalance, domain.SortWinRate, domain.SortVolume} {
		sorted := make([]domain.LeaderboardEntry, len(out))
		copy(sorted, out)
		sortByKey(sorted, k)

		pos := make(map[uuid.UUID]int, len(sorted))
		for i, e := range sorted {
			pos[e.UserID] = i + 1
		}
		for i := range out {
			switch k {
			case domain.SortPnl:
				out[i].PnlRank = pos[out[i].UserID]
			case domain.SortBalance:
				out[i].BalanceRank = pos[out[i].UserID]
			case domain.SortWinRate:
				out[i].WinRateRank = pos[out[i].UserID]
			case domain.SortVolume:
				out[i].VolumeRank = pos[out[i].UserID]
			}
		}
	}

	sortByKey(out, key)
	return out
}
