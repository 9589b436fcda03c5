package pnl

import (
	"github.com/google/uuid"

	"github.com/yourorg/tradetrackr/internal/domain"
)

// ResultPatch records one trade whose result value needs rewriting.
type ResultPatch struct {
	TradeID uuid.UUID
	From    domain.Result
	To      domain.Result
}

// resultRemaps is applied in order to each value. The order matters:
// "Breakeven" first collapses to "breakeven" and only then to "be", so both
// historical spellings converge.
var resultRemaps = []struct {
	from, to domain.Result
}{
	{"Win", "win"},
	{"Loss", "loss"},
	{"BE", "be"},
	{"Breakeven", "breakeven"},
	{"breakeven", "be"},
}

// NormalizeResults maps legacy result spellings onto the canonical enum and
// returns the patch set for a bulk update. New rows are parsed at the
// boundary, so this survives only as a backfill utility for pre-enum data.
func NormalizeResults(trades []domain.Trade) []ResultPatch {
	var patches []ResultPatch
	for _, t := range trades {
		v := t.Result
		for _, m := range resultRemaps {
			if v == m.from {
				v = m.to
			}
		}
		if v != t.Result {
			patches = append(patches, ResultPatch{TradeID: t.ID, From: t.Result, To: v})
		}
	}
	return patches
}
