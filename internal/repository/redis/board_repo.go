package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yourorg/tradetrackr/internal/domain"
)

// ChannelLeaderboard notifies leaderboard watchers that standings changed.
const ChannelLeaderboard = "leaderboard"

// StatsChannel is the per-user channel for rollup updates.
func StatsChannel(userID uuid.UUID) string {
	return "stats." + userID.String()
}

// StatsEvent is published after every rollup upsert.
type StatsEvent struct {
	UserID uuid.UUID        `json:"user_id"`
	Stats  domain.UserStats `json:"stats"`
}

// BoardRepo is the explicit leaderboard cache: one key per sort key, a TTL
// injected at construction, and invalidation on every stats mutation.
type BoardRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBoardRepo(client *redis.Client, ttl time.Duration) *BoardRepo {
	return &BoardRepo{client: client, ttl: ttl}
}

func boardKey(key domain.SortKey) string {
	return "leaderboard:" + string(key)
}

// GetBoard returns the cached ranking for the sort key, or (nil, nil) on a
// cache miss.
func (r *BoardRepo) GetBoard(ctx context.Context, key domain.SortKey) ([]domain.LeaderboardEntry, error) {
	val, err := r.client.Get(ctx, boardKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get leaderboard: %w", err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *BoardRepo) SetBoard(ctx context.Context, key domain.SortKey, entries []domain.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, boardKey(key), data, r.ttl).Err()
}

// Invalidate drops every cached ranking. Called after each stats upsert so a
// stale board never outlives a mutation by more than one read.
func (r *BoardRepo) Invalidate(ctx context.Context) error {
	keys := []string{
		boardKey(domain.SortPnl),
		boardKey(domain.SortBalance),
		boardKey(domain.SortWinRate),
		boardKey(domain.SortVolume),
	}
	return r.client.Del(ctx, keys...).Err()
}

// PublishStatsUpdate fans the event out to the user's own channel and to the
// shared leaderboard channel.
func (r *BoardRepo) PublishStatsUpdate(ctx context.Context, event StatsEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Publish(ctx, StatsChannel(event.UserID), data)
	pipe.Publish(ctx, ChannelLeaderboard, data)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *BoardRepo) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return r.client.Subscribe(ctx, channel)
}
