//go:build integration
// +build integration

package test

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/store/memory"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testConfig() learnhub.Config {
	cfg := learnhub.DefaultConfig()
	cfg.JWT.Access.Secret = "access-secret-access-secret-0001"
	cfg.JWT.Refresh.Secret = "refresh-secret-refresh-secret-01"
	cfg.JWT.Activation.Secret = "activation-secret-activation-001"
	cfg.Password.Cost = 4
	return cfg
}

// newIntegrationEngine builds an engine over miniredis and the memory store.
// Extra hooks are installed before the connection is warmed.
func newIntegrationEngine(t *testing.T, hooks ...redis.Hook) (*learnhub.Engine, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	for _, h := range hooks {
		rdb.AddHook(h)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	engine, err := learnhub.New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithIdentityStore(memory.New()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, mr, rdb
}

func cacheIdentity(t *testing.T, engine *learnhub.Engine, id string, role learnhub.Role) learnhub.TokenPair {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	if err := engine.CacheIdentity(ctx, &learnhub.Identity{
		ID: id, Name: id, Email: id + "@example.com", Role: role,
		Courses: []string{}, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CacheIdentity failed: %v", err)
	}
	pair, err := engine.IssueSessionTokens(ctx, id)
	if err != nil {
		t.Fatalf("IssueSessionTokens failed: %v", err)
	}
	return pair
}
