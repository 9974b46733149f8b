package learnhub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Access.Secret = "access-secret-access-secret-0001"
	cfg.JWT.Refresh.Secret = "refresh-secret-refresh-secret-01"
	cfg.JWT.Activation.Secret = "activation-secret-activation-001"
	cfg.Password.Cost = 4
	return cfg
}

type testEnv struct {
	engine     *Engine
	mr         *miniredis.Miniredis
	clock      *fakeClock
	identities *memIdentities
	mailer     *recordingMailer
	assets     *memAssets
}

func newTestEnv(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	mr, rdb := newTestRedis(t)
	env := &testEnv{
		mr:         mr,
		clock:      newFakeClock(),
		identities: newMemIdentities(),
		mailer:     &recordingMailer{},
		assets:     &memAssets{},
	}

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(env.identities).
		WithMailer(env.mailer).
		WithAssetHost(env.assets).
		WithClock(env.clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	env.engine = engine
	return env
}

// seedIdentity stores an identity with the given password and caches it.
func (env *testEnv) seedIdentity(t *testing.T, id, email, pw string, role Role) *Identity {
	t.Helper()

	hash, err := env.engine.hasher.Hash(pw)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	identity := &Identity{
		ID:           id,
		Name:         strings.ToUpper(id[:1]) + id[1:],
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Courses:      []string{},
		CreatedAt:    env.clock.Now(),
		UpdatedAt:    env.clock.Now(),
	}
	if err := env.identities.CreateIdentity(context.Background(), identity); err != nil {
		t.Fatalf("create identity failed: %v", err)
	}
	return identity
}

type memIdentities struct {
	mu   sync.Mutex
	byID map[string]Identity
}

func newMemIdentities() *memIdentities {
	return &memIdentities{byID: map[string]Identity{}}
}

func (m *memIdentities) CreateIdentity(_ context.Context, identity *Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == identity.Email {
			return fmt.Errorf("create identity: %w", ErrConflict)
		}
	}
	m.byID[identity.ID] = *identity.Clone()
	return nil
}

func (m *memIdentities) FindIdentityByID(_ context.Context, id string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return identity.Clone(), nil
}

func (m *memIdentities) FindIdentityByEmail(_ context.Context, email string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, identity := range m.byID {
		if identity.Email == email {
			return identity.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memIdentities) UpdateIdentity(_ context.Context, identity *Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[identity.ID]; !ok {
		return ErrNotFound
	}
	m.byID[identity.ID] = *identity.Clone()
	return nil
}

func (m *memIdentities) CountIdentitiesCreated(_ context.Context, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, identity := range m.byID {
		if !identity.CreatedAt.Before(from) && identity.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type sentMail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingMailer) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Template: template, Data: data})
	return nil
}

func (r *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		t.Fatal("expected a mail to be sent")
	}
	return r.sent[len(r.sent)-1]
}

type memAssets struct {
	mu        sync.Mutex
	next      int
	destroyed []string
}

func (m *memAssets) Upload(_ context.Context, payload, folder string) (AssetRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("%s/img-%d", folder, m.next)
	return AssetRef{PublicID: id, URL: "https://assets.test/" + id}, nil
}

func (m *memAssets) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = append(m.destroyed, publicID)
	return nil
}
