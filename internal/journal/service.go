package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/pnl"
	pgRepo "github.com/yourorg/tradetrackr/internal/repository/postgres"
	redisRepo "github.com/yourorg/tradetrackr/internal/repository/redis"
)

// DefaultFreeTierLimit is how many trades a non-premium user may log.
const DefaultFreeTierLimit = 3

// Service orchestrates trade mutations: every insert/update/delete is
// followed by a full stats recompute, a leaderboard cache invalidation and a
// stats-updated event for the websocket hub.
type Service struct {
	profileRepo *pgRepo.ProfileRepo
	tradeRepo   *pgRepo.TradeRepo
	statsRepo   *pgRepo.StatsRepo
	boardRepo   *redisRepo.BoardRepo
	freeLimit   int
	logger      *slog.Logger
}

func NewService(
	profileRepo *pgRepo.ProfileRepo,
	tradeRepo *pgRepo.TradeRepo,
	statsRepo *pgRepo.StatsRepo,
	boardRepo *redisRepo.BoardRepo,
	freeLimit int,
	logger *slog.Logger,
) *Service {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeTierLimit
	}
	return &Service{
		profileRepo: profileRepo,
		tradeRepo:   tradeRepo,
		statsRepo:   statsRepo,
		boardRepo:   boardRepo,
		freeLimit:   freeLimit,
		logger:      logger,
	}
}

func (s *Service) CreateTrade(ctx context.Context, userID uuid.UUID, input TradeInput) (*domain.Trade, pnl.Reconciled, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, pnl.Reconciled{}, fmt.Errorf("load profile: %w", err)
	}
	stats, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, pnl.Reconciled{}, fmt.Errorf("load stats: %w", err)
	}

	trade, rec, err := BuildTrade(input, *profile, *stats, s.freeLimit)
	if err != nil {
		return nil, pnl.Reconciled{}, err
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, pnl.Reconciled{}, fmt.Errorf("create trade: %w", err)
	}

	s.refreshStats(ctx, userID)
	return trade, rec, nil
}

func (s *Service) UpdateTrade(ctx context.Context, userID, tradeID uuid.UUID, input TradeInput) (*domain.Trade, pnl.Reconciled, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, pnl.Reconciled{}, domain.ErrNotFound
	}
	if trade.UserID != userID {
		return nil, pnl.Reconciled{}, domain.ErrNotFound
	}

	result, bias, err := validateInput(input)
	if err != nil {
		return nil, pnl.Reconciled{}, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, pnl.Reconciled{}, fmt.Errorf("load profile: %w", err)
	}

	rec := pnl.Reconcile(input.PnlMoney, input.PnlPercentage, profile.AccountBalance)

	trade.Title = input.Title
	trade.Pair = input.Pair
	trade.Timeframe = input.Timeframe
	trade.Session = input.Session
	trade.Bias = bias
	trade.Result = result
	trade.RiskReward = input.RiskReward
	trade.Description = input.Description
	trade.Confluences = input.Confluences
	trade.Feeling = clampFeeling(input.Feeling)
	trade.ScreenshotURL = input.ScreenshotURL
	trade.IsPublic = input.IsPublic
	trade.PnlMoney, trade.PnlPercentage = nil, nil
	if input.PnlMoney != nil || input.PnlPercentage != nil {
		money, percentage := rec.Money, rec.Percentage
		trade.PnlMoney = &money
		trade.PnlPercentage = &percentage
	}
	trade.PnlPips = nil
	if input.PnlPips != nil {
		pips := pnl.Round1(*input.PnlPips)
		trade.PnlPips = &pips
	}

	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return nil, pnl.Reconciled{}, fmt.Errorf("update trade: %w", err)
	}

	s.refreshStats(ctx, userID)
	return trade, rec, nil
}

// DeleteTrade is premium-gated: free-tier users keep their history.
func (s *Service) DeleteTrade(ctx context.Context, userID, tradeID uuid.UUID) error {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if !profile.IsPremium {
		return domain.ErrPremiumRequired
	}

	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return domain.ErrNotFound
	}
	if trade.UserID != userID {
		return domain.ErrNotFound
	}

	if err := s.tradeRepo.Delete(ctx, tradeID); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}

	s.refreshStats(ctx, userID)
	return nil
}

func (s *Service) ListTrades(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	return s.tradeRepo.ListByUserID(ctx, userID)
}

// GetTrade returns a trade to its owner, or to anyone if it is public.
func (s *Service) GetTrade(ctx context.Context, callerID, tradeID uuid.UUID) (*domain.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if trade.UserID != callerID && !trade.IsPublic {
		return nil, domain.ErrNotFound
	}
	return trade, nil
}

func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	return s.statsRepo.GetByUserID(ctx, userID)
}

// RecalculateStats rebuilds the rollup from the full trade set and upserts
// it, returning how many trades were considered. Backs POST /fix-stats.
func (s *Service) RecalculateStats(ctx context.Context, userID uuid.UUID) (int, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load profile: %w", err)
	}
	trades, err := s.tradeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list trades: %w", err)
	}

	stats := pnl.Aggregate(trades, profile.AccountBalance)
	stats.UserID = userID
	if err := s.statsRepo.Upsert(ctx, &stats); err != nil {
		return 0, fmt.Errorf("upsert stats: %w", err)
	}
	s.afterStatsUpsert(ctx, userID, stats)
	return len(trades), nil
}

// NormalizeResults rewrites legacy result spellings, then rebuilds the
// rollup. Backs POST /normalize-results.
func (s *Service) NormalizeResults(ctx context.Context, userID uuid.UUID) (int, error) {
	trades, err := s.tradeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list trades: %w", err)
	}

	patches := pnl.NormalizeResults(trades)
	if err := s.tradeRepo.ApplyResultPatches(ctx, patches); err != nil {
		return 0, fmt.Errorf("apply result patches: %w", err)
	}

	if _, err := s.RecalculateStats(ctx, userID); err != nil {
		return 0, err
	}
	return len(patches), nil
}

// UpdateAccountBalance changes the percentage basis, so the rollup is
// recomputed immediately after.
func (s *Service) UpdateAccountBalance(ctx context.Context, userID uuid.UUID, balance float64) (*domain.Profile, error) {
	if balance <= 0 {
		return nil, &domain.InvalidFieldError{Field: "account_balance", Value: fmt.Sprintf("%v", balance)}
	}
	if err := s.profileRepo.UpdateAccountBalance(ctx, userID, balance); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	s.refreshStats(ctx, userID)
	return s.profileRepo.GetByUserID(ctx, userID)
}

// refreshStats recomputes the rollup after a mutation. Failures are logged
// rather than returned: the rollup is a cache and /fix-stats can rebuild it.
func (s *Service) refreshStats(ctx context.Context, userID uuid.UUID) {
	if _, err := s.RecalculateStats(ctx, userID); err != nil {
		s.logger.Warn("stats refresh failed", "user_id", userID, "err", err)
	}
}

func (s *Service) afterStatsUpsert(ctx context.Context, userID uuid.UUID, stats domain.UserStats) {
	if err := s.boardRepo.Invalidate(ctx); err != nil {
		s.logger.Warn("leaderboard invalidation failed", "err", err)
	}
	if err := s.boardRepo.PublishStatsUpdate(ctx, redisRepo.StatsEvent{UserID: userID, Stats: stats}); err != nil {
		s.logger.Warn("stats event publish failed", "err", err)
	}
}
