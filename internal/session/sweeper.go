package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartSweeper expires idle sessions every interval until ctx is done.
func StartSweeper(
	ctx context.Context,
	m *Manager,
	interval time.Duration,
	ttl time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Expire(ttl); n > 0 {
					log.Info("expired idle sessions", zap.Int("removed", n))
				}
			}
		}
	}()
}
