package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yourorg/tradetrackr/internal/domain"
)

type ProfileRepo struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO profiles (id, user_id, username, account_balance, is_premium, referral_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.Username, p.AccountBalance, p.IsPremium, p.ReferralCode).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE username = $1`, username)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) UpdateAccountBalance(ctx context.Context, userID uuid.UUID, balance float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET account_balance = $1, updated_at = NOW() WHERE user_id = $2`,
		balance, userID)
	return err
}

func (r *ProfileRepo) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET is_premium = $1, updated_at = NOW() WHERE user_id = $2`,
		premium, userID)
	return err
}
