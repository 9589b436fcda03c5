package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	redisRepo "github.com/yourorg/tradetrackr/internal/repository/redis"
)

type subscription struct {
	client  *Client
	channel string
}

type broadcastMsg struct {
	channel string
	data    []byte
}

// Hub fans redis pub/sub traffic out to websocket clients. A redis
// subscription per channel is opened when the first client subscribes and
// torn down when the last one leaves. All hub state (clients, subs) is owned
// by the Run goroutine; pumps hand messages over via the broadcast channel
// instead of touching the maps themselves.
type Hub struct {
	clients      map[*Client]bool
	subs         map[string]map[*Client]bool
	redisCancels map[string]context.CancelFunc

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan broadcastMsg

	boardRepo *redisRepo.BoardRepo
	logger    *slog.Logger
}

func NewHub(boardRepo *redisRepo.BoardRepo, logger *slog.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		subs:         make(map[string]map[*Client]bool),
		redisCancels: make(map[string]context.CancelFunc),
		register:     make(chan *Client, 64),
		unregister:   make(chan *Client, 64),
		subscribe:    make(chan subscription, 64),
		unsubscribe:  make(chan subscription, 64),
		broadcast:    make(chan broadcastMsg, 256),
		boardRepo:    boardRepo,
		logger:       logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for ch, clients := range h.subs {
					if _, ok := clients[client]; ok {
						delete(clients, client)
						if len(clients) == 0 {
							if cancel, ok := h.redisCancels[ch]; ok {
								cancel()
								delete(h.redisCancels, ch)
							}
							delete(h.subs, ch)
						}
					}
				}
				close(client.send)
			}
		case sub := <-h.subscribe:
			if _, ok := h.subs[sub.channel]; !ok {
				h.subs[sub.channel] = make(map[*Client]bool)
				subCtx, cancel := context.WithCancel(ctx)
				h.redisCancels[sub.channel] = cancel
				go h.pumpRedis(subCtx, sub.channel)
			}
			h.subs[sub.channel][sub.client] = true
		case sub := <-h.unsubscribe:
			if clients, ok := h.subs[sub.channel]; ok {
				delete(clients, sub.client)
				if len(clients) == 0 {
					if cancel, ok := h.redisCancels[sub.channel]; ok {
						cancel()
						delete(h.redisCancels, sub.channel)
					}
					delete(h.subs, sub.channel)
				}
			}
		case msg := <-h.broadcast:
			h.fanOut(msg.channel, msg.data)
		}
	}
}

func (h *Hub) pumpRedis(ctx context.Context, channel string) {
	pubsub := h.boardRepo.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(wsEvent{Channel: channel, Payload: json.RawMessage(msg.Payload)})
			if err != nil {
				continue
			}
			select {
			case h.broadcast <- broadcastMsg{channel: channel, data: data}:
			default:
			}
		}
	}
}

type wsEvent struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// fanOut runs on the Run goroutine only; it is the sole reader of subs
// outside the select arms that mutate it.
func (h *Hub) fanOut(channel string, data []byte) {
	clients, ok := h.subs[channel]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
		}
	}
}
