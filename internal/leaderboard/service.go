package leaderboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yourorg/tradetrackr/internal/domain"
	"github.com/yourorg/tradetrackr/internal/pnl"
	pgRepo "github.com/yourorg/tradetrackr/internal/repository/postgres"
	redisRepo "github.com/yourorg/tradetrackr/internal/repository/redis"
)

// Service serves ranked leaderboards, backed by the redis cache and rebuilt
// from the stats rollups on a miss.
type Service struct {
	statsRepo *pgRepo.StatsRepo
	boardRepo *redisRepo.BoardRepo
	logger    *slog.Logger
}

func NewService(statsRepo *pgRepo.StatsRepo, boardRepo *redisRepo.BoardRepo, logger *slog.Logger) *Service {
	return &Service{statsRepo: statsRepo, boardRepo: boardRepo, logger: logger}
}

func (s *Service) Get(ctx context.Context, key domain.SortKey) ([]domain.LeaderboardEntry, error) {
	cached, err := s.boardRepo.GetBoard(ctx, key)
	if err != nil {
		// Cache trouble should not take the leaderboard down.
		s.logger.Warn("leaderboard cache read failed", "key", key, "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	entries, err := s.rebuild(ctx, key)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) rebuild(ctx context.Context, key domain.SortKey) ([]domain.LeaderboardEntry, error) {
	rows, err := s.statsRepo.ListLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	ranked := pnl.Rank(rows, key)
	if err := s.boardRepo.SetBoard(ctx, key, ranked); err != nil {
		s.logger.Warn("leaderboard cache write failed", "key", key, "err", err)
	}
	return ranked, nil
}

// RebuildAll refreshes every sort key's cached board.
func (s *Service) RebuildAll(ctx context.Context) error {
	for _, key := range []domain.SortKey{domain.SortPnl, domain.SortBalance, domain.SortWinRate, domain.SortVolume} {
		if _, err := s.rebuild(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
