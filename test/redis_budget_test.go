//go:build integration
// +build integration

package test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"

	"github.com/MrEthical07/learnhub"
	"github.com/redis/go-redis/v9"
)

// cmdCounter is a go-redis Hook that counts Redis commands.
type cmdCounter struct {
	commands atomic.Int64
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) Reset()          { h.commands.Store(0) }
func (h *cmdCounter) Commands() int64 { return h.commands.Load() }

func TestRedisCommandBudget(t *testing.T) {
	ctx := context.Background()
	counter := &cmdCounter{}
	engine, _, rdb := newIntegrationEngine(t, counter)

	// Warm the connection so handshake commands are not counted.
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("warmup ping: %v", err)
	}
	pair := cacheIdentity(t, engine, "u1", learnhub.RoleUser)

	budgets := []struct {
		name string
		max  int64
		op   func() error
	}{
		{"authenticate", 1, func() error {
			_, err := engine.Authenticate(ctx, pair.AccessToken)
			return err
		}},
		{"refresh", 1, func() error {
			_, err := engine.Refresh(ctx, pair.RefreshToken)
			return err
		}},
		{"me", 1, func() error {
			_, err := engine.Me(ctx, "u1")
			return err
		}},
		{"logout", 1, func() error {
			return engine.Logout(ctx, "u1")
		}},
	}

	for _, b := range budgets {
		counter.Reset()
		if err := b.op(); err != nil {
			t.Fatalf("%s failed: %v", b.name, err)
		}
		if got := counter.Commands(); got > b.max {
			t.Fatalf("%s used %d redis commands, budget %d", b.name, got, b.max)
		}
	}
}
