package payments

import (
	"context"
	"time"

	redisclient "github.com/acuellar/tiendita-backend/pkg/redis"
)

// CaptureGuard serializes capture attempts per provider correlation
// token so a replayed redirect cannot create a second order.
type CaptureGuard interface {
	// Acquire returns false when another capture already claimed the token.
	Acquire(ctx context.Context, method, token string, ttl time.Duration) (bool, error)
	// Release frees the token after a failed capture so it can be retried.
	Release(ctx context.Context, method, token string) error
}

// RedisCaptureGuard implements CaptureGuard with a SET NX key per token.
type RedisCaptureGuard struct {
	client *redisclient.Client
}

// NewRedisCaptureGuard builds the guard over the shared Redis client.
func NewRedisCaptureGuard(client *redisclient.Client) *RedisCaptureGuard {
	return &RedisCaptureGuard{client: client}
}

func (g *RedisCaptureGuard) Acquire(ctx context.Context, method, token string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, g.client.CaptureKey(method, token), "1", ttl)
}

func (g *RedisCaptureGuard) Release(ctx context.Context, method, token string) error {
	return g.client.Del(ctx, g.client.CaptureKey(method, token))
}
