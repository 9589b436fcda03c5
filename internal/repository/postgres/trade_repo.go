package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/pnl"
)

type TradeRepo struct {
	db *sqlx.DB
}

func NewTradeRepo(db *sqlx.DB) *TradeRepo {
	return &TradeRepo{db: db}
}

func (r *TradeRepo) Create(ctx context.Context, t *domain.Trade) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
		INSERT INTO trades (
			id, user_id, title, pair, timeframe, session, bias, result, risk_reward,
			pnl_percentage, pnl_pips, pnl_money,
			description, confluences, feeling, screenshot_url, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Pair, t.Timeframe, t.Session, t.Bias, t.Result, t.RiskReward,
		t.PnlPercentage, t.PnlPips, t.PnlMoney,
		t.Description, t.Confluences, t.Feeling, t.ScreenshotURL, t.IsPublic).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *TradeRepo) Update(ctx context.Context, t *domain.Trade) error {
	query := `
		UPDATE trades SET
			title = $1, pair = $2, timeframe = $3, session = $4, bias = $5,
			result = $6, risk_reward = $7,
			pnl_percentage = $8, pnl_pips = $9, pnl_money = $10,
			description = $11, confluences = $12, feeling = $13,
			screenshot_url = $14, is_public = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at`
	return r.db.QueryRowContext(ctx, query,
		t.Title, t.Pair, t.Timeframe, t.Session, t.Bias,
		t.Result, t.RiskReward,
		t.PnlPercentage, t.PnlPips, t.PnlMoney,
		t.Description, t.Confluences, t.Feeling,
		t.ScreenshotURL, t.IsPublic, t.ID).
		Scan(&t.UpdatedAt)
}

func (r *TradeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TradeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	var t domain.Trade
	err := r.db.GetContext(ctx, &t, `SELECT * FROM trades WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("trade not found: %w", err)
	}
	return &t, nil
}

func (r *TradeRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := r.db.SelectContext(ctx, &trades,
		`SELECT * FROM trades WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// ApplyResultPatches rewrites legacy result values in one transaction so a
// partial backfill never leaves the set half-normalized.
func (r *TradeRepo) ApplyResultPatches(ctx context.Context, patches []pnl.ResultPatch) error {
	if len(patches) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range patches {
		if _, err := tx.ExecContext(ctx,
			`UPDATE trades SET result = $1, updated_at = NOW() WHERE id = $2`,
			p.To, p.TradeID); err != nil {
			return fmt.Errorf("patch trade %s: %w", p.TradeID, err)
		}
	}
	return tx.Commit()
}
