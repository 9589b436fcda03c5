package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yourorg/tradetrackr/internal/domain"
)

type StatsRepo struct {
	db *sqlx.DB
}

func NewStatsRepo(db *sqlx.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Upsert overwrites the whole rollup. Stats are a cache of the trade set;
// writing every column on conflict is what keeps them drift-free.
func (r *StatsRepo) Upsert(ctx context.Context, s *domain.UserStats) error {
	query := `
		INSERT INTO user_stats (
			user_id, total_trades, wins, losses, breakevens, win_rate,
			total_pnl_percentage, total_pnl_pips, total_pnl_money, current_balance, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			total_trades         = EXCLUDED.total_trades,
			wins                 = EXCLUDED.wins,
			losses               = EXCLUDED.losses,
			breakevens           = EXCLUDED.breakevens,
			win_rate             = EXCLUDED.win_rate,
			total_pnl_percentage = EXCLUDED.total_pnl_percentage,
			total_pnl_pips       = EXCLUDED.total_pnl_pips,
			total_pnl_money      = EXCLUDED.total_pnl_money,
			current_balance      = EXCLUDED.current_balance,
			updated_at           = NOW()
		RETURNING updated_at`
	return r.db.QueryRowContext(ctx, query,
		s.UserID, s.TotalTrades, s.Wins, s.Losses, s.Breakevens, s.WinRate,
		s.TotalPnlPercentage, s.TotalPnlPips, s.TotalPnlMoney, s.CurrentBalance).
		Scan(&s.UpdatedAt)
}

// GetByUserID returns zero-value stats when no rollup row exists yet.
func (r *StatsRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	var s domain.UserStats
	err := r.db.GetContext(ctx, &s, `SELECT * FROM user_stats WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &s, nil
}

// ListLeaderboard joins profiles with their stats rollup. Rank fields are
// left zero here; ranking is a query-time projection owned by the pnl package.
func (r *StatsRepo) ListLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	query := `
		SELECT p.user_id, p.username, p.is_premium,
		       s.total_trades, s.win_rate, s.total_pnl_percentage, s.current_balance
		FROM profiles p
		JOIN user_stats s ON s.user_id = p.user_id`
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, err
	}
	return entries, nil
}
