package learnhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	internalaudit "github.com/MrEthical07/learnhub/internal/audit"
	"github.com/MrEthical07/learnhub/internal/flows"
	"github.com/MrEthical07/learnhub/internal/rate"
	"github.com/MrEthical07/learnhub/jwt"
	"github.com/MrEthical07/learnhub/session"
)

// Engine issues and verifies tokens, mirrors identities into the credential
// store, and gates requests by role.
//
// Engine is immutable after Build and safe for concurrent use.
type Engine struct {
	config Config
	logger *slog.Logger
	clock  func() time.Time

	access     *jwt.Manager
	refresh    *jwt.Manager
	activation *jwt.Manager

	snapshots  *session.Store[Identity]
	limiter    *rate.Limiter
	identities IdentityStore
	hasher     PasswordHasher
	assets     AssetHost
	mailer     Mailer

	audit   *internalaudit.Dispatcher
	metrics *Metrics
	flows   flows.Deps[Identity, TokenPair]
}

// Close stops the audit dispatcher after delivering buffered events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return DefaultConfig()
	}
	return cloneConfig(e.config)
}

// Ping checks the credential store.
func (e *Engine) Ping(ctx context.Context) error {
	if e == nil || e.snapshots == nil {
		return ErrEngineNotReady
	}
	if err := e.snapshots.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// AuditDropped returns how many audit events were discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now()
}

/*
====================================
TOKENS
====================================
*/

// IssueSessionTokens mints an access token and a refresh token for
// identityID. The two are signed with different secrets and carry only the
// id.
func (e *Engine) IssueSessionTokens(ctx context.Context, identityID string) (TokenPair, error) {
	if e == nil || e.access == nil {
		return TokenPair{}, ErrEngineNotReady
	}
	if err := ctx.Err(); err != nil {
		return TokenPair{}, err
	}
	return e.issuePair(identityID)
}

func (e *Engine) issuePair(identityID string) (TokenPair, error) {
	access, accessExp, err := e.access.CreateSession(identityID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := e.refresh.CreateSession(identityID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify checks token against the secret and TTL of class and returns the
// identity id it carries. Activation tickets carry no id yet; for them the
// candidate email is returned.
//
// Failures wrap [ErrTokenExpired] or [ErrTokenInvalid].
func (e *Engine) Verify(token string, class TokenClass) (string, error) {
	if e == nil || e.access == nil {
		return "", ErrEngineNotReady
	}

	switch class {
	case TokenAccess:
		return e.parseSessionID(e.access)(token)
	case TokenRefresh:
		return e.parseSessionID(e.refresh)(token)
	case TokenActivation:
		claims, err := e.activation.ParseActivation(token)
		if err != nil {
			return "", mapTokenError(err)
		}
		candidate, err := decodeCandidate(claims.User)
		if err != nil {
			return "", err
		}
		return candidate.Email, nil
	default:
		return "", fmt.Errorf("%w: unknown token class %d", ErrTokenInvalid, class)
	}
}

func (e *Engine) parseSessionID(m *jwt.Manager) func(string) (string, error) {
	return func(token string) (string, error) {
		claims, err := m.ParseSession(token)
		if err != nil {
			return "", mapTokenError(err)
		}
		return claims.ID, nil
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}

/*
====================================
AUTHORIZATION GATE
====================================
*/

// Authenticate verifies an access token and loads the identity from the
// credential store. An expired or invalid token, or a missing snapshot,
// yields [ErrUnauthenticated]; token failures stay matchable with
// errors.Is against [ErrTokenExpired] and [ErrTokenInvalid].
//
// Authenticate never refreshes; clients call the refresh endpoint themselves.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*Identity, error) {
	if e == nil || e.snapshots == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunAuthenticate(ctx, accessToken, e.flows.Authenticate)
	switch result.Failure {
	case flows.AuthenticateFailureNone:
		e.metricInc(MetricAuthenticateSuccess)
		return result.Identity, nil
	case flows.AuthenticateFailureToken:
		e.metricInc(MetricAuthenticateFailure)
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, result.Err)
	case flows.AuthenticateFailureSnapshotMissing:
		e.metricInc(MetricAuthenticateFailure)
		return nil, ErrUnauthenticated
	default:
		e.metricInc(MetricAuthenticateFailure)
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, result.Err)
	}
}

// Authorize checks identity's role against allowed. An empty allow-list
// admits every authenticated identity.
func (e *Engine) Authorize(identity *Identity, allowed ...Role) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if len(allowed) == 0 || slices.Contains(allowed, identity.Role) {
		return nil
	}

	e.metricInc(MetricForbidden)
	e.emitAudit(context.Background(), auditEventAuthorizeDenied, false, identity.ID, ErrForbidden, func() map[string]string {
		return map[string]string{"role": string(identity.Role)}
	})
	return fmt.Errorf("%w: role %s", ErrForbidden, identity.Role)
}

/*
====================================
REFRESH / LOGOUT
====================================
*/

// Refresh verifies refreshToken, requires the identity snapshot to still be
// cached, and mints a new pair. The presented token is not consumed: calling
// Refresh twice with the same token succeeds twice.
//
// A bad token yields [ErrRefreshInvalid]; a removed snapshot yields
// [ErrSessionRevoked].
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	if e == nil || e.snapshots == nil {
		return RefreshResult{}, ErrEngineNotReady
	}

	result := flows.RunRefresh(ctx, refreshToken, e.flows.Refresh)
	switch result.Failure {
	case flows.RefreshFailureNone:
		e.metricInc(MetricRefreshSuccess)
		e.emitAudit(ctx, auditEventRefreshSuccess, true, result.IdentityID, nil, nil)
		return RefreshResult{Identity: result.Identity, Tokens: result.Tokens}, nil
	case flows.RefreshFailureToken:
		e.metricInc(MetricRefreshFailure)
		err := fmt.Errorf("%w: %w", ErrRefreshInvalid, result.Err)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, "", err, nil)
		return RefreshResult{}, err
	case flows.RefreshFailureSnapshotMissing:
		e.metricInc(MetricRefreshFailure)
		e.metricInc(MetricSessionRevoked)
		e.emitAudit(ctx, auditEventRefreshRevoked, false, result.IdentityID, ErrSessionRevoked, nil)
		return RefreshResult{}, ErrSessionRevoked
	case flows.RefreshFailureStore:
		e.metricInc(MetricRefreshFailure)
		return RefreshResult{}, fmt.Errorf("%w: %v", ErrCacheUnavailable, result.Err)
	default:
		e.metricInc(MetricRefreshFailure)
		return RefreshResult{}, result.Err
	}
}

// Logout removes the cached snapshot of identityID. Every token issued for
// the identity stops working at once: the gate reports
// [ErrUnauthenticated] and refresh reports [ErrSessionRevoked].
func (e *Engine) Logout(ctx context.Context, identityID string) error {
	if e == nil || e.snapshots == nil {
		return ErrEngineNotReady
	}

	if err := flows.RunLogout(ctx, identityID, e.flows.Logout); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, identityID, nil, nil)
	return nil
}

// CacheIdentity writes the snapshot of identity to the credential store.
// The password hash is never part of the snapshot.
func (e *Engine) CacheIdentity(ctx context.Context, identity *Identity) error {
	if e == nil || e.snapshots == nil {
		return ErrEngineNotReady
	}
	if identity == nil || identity.ID == "" {
		return fmt.Errorf("%w: identity without id", ErrInvalidInput)
	}

	snapshot := identity.Clone()
	snapshot.PasswordHash = ""
	if err := e.snapshots.Put(ctx, identity.ID, snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// recache refreshes the snapshot after a durable write. The durable write
// has already happened, so a failure is logged and counted, not returned.
func (e *Engine) recache(ctx context.Context, identity *Identity) {
	if err := e.CacheIdentity(ctx, identity); err != nil {
		e.metricInc(MetricCacheWriteFailure)
		e.logger.WarnContext(ctx, "learnhub: cache write after durable update failed",
			slog.String("identity_id", identity.ID),
			slog.Any("error", err),
		)
		e.emitAudit(ctx, auditEventCacheWriteFailure, false, identity.ID, err, nil)
	}
}
