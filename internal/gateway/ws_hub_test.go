package gateway

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisRepo "github.com/yourorg/tradetrackr/internal/repository/redis"
)

func testHub() *Hub {
	// Redis is never reached: broadcasts are injected directly, and any pump
	// the hub spins up just retries against a closed port until cancelled.
	board := redisRepo.NewBoardRepo(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), time.Second)
	return NewHub(board, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubFansOutToSubscribers(t *testing.T) {
	hub := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan []byte, 8)}
	hub.register <- client
	hub.subscribe <- subscription{client: client, channel: redisRepo.ChannelLeaderboard}

	payload := []byte(`{"rank":1}`)
	require.Eventually(t, func() bool {
		hub.broadcast <- broadcastMsg{channel: redisRepo.ChannelLeaderboard, data: payload}
		select {
		case got := <-client.send:
			return bytes.Equal(payload, got)
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

// Subscription churn and message fan-out come from different goroutines in
// production (readPump vs. pumpRedis). Both must funnel through Run, which is
// the sole owner of the subs map; this keeps the race detector on that
// invariant.
func TestHubBroadcastDuringSubscriptionChurn(t *testing.T) {
	hub := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	clients := make([]*Client, 4)
	for i := range clients {
		clients[i] = &Client{hub: hub, send: make(chan []byte, 8)}
		hub.register <- clients[i]
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c := clients[i%len(clients)]
			hub.subscribe <- subscription{client: c, channel: redisRepo.ChannelLeaderboard}
			hub.unsubscribe <- subscription{client: c, channel: redisRepo.ChannelLeaderboard}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.broadcast <- broadcastMsg{channel: redisRepo.ChannelLeaderboard, data: []byte(`{}`)}
		}
	}()
	wg.Wait()
}
