package leaderboard

import (
	"context"
	"time"
)

// Refresher rebuilds the cached boards on an interval so reads after a TTL
// expiry or an invalidation stay warm. Failed rebuilds back off and retry.
type Refresher struct {
	svc      *Service
	interval time.Duration
}

func NewRefresher(svc *Service, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Refresher{svc: svc, interval: interval}
}

func (r *Refresher) Run(ctx context.Context) {
	backoff := time.Second
	maxBackoff := 60 * time.Second
	for {
		if err := r.svc.RebuildAll(ctx); err != nil {
			r.svc.logger.Error("leaderboard refresh failed", "err", err, "retrying_in", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}
	}
}
