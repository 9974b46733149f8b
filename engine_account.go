package learnhub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/learnhub/internal/rate"
	"github.com/MrEthical07/learnhub/session"
	"github.com/google/uuid"
)

const avatarFolder = "avatars"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e *Engine) checkPasswordPolicy(pw string) error {
	if pw == "" || len(pw) < e.config.Password.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, e.config.Password.MinLength)
	}
	return nil
}

// ensureEmailFree returns ErrConflict when email belongs to an identity
// other than selfID.
func (e *Engine) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := e.identities.FindIdentityByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return fmt.Errorf("%w: email %s", ErrConflict, email)
	default:
		return nil
	}
}

// startSession caches identity and issues its token pair.
func (e *Engine) startSession(ctx context.Context, identity *Identity) (LoginResult, error) {
	if err := e.CacheIdentity(ctx, identity); err != nil {
		return LoginResult{}, err
	}
	tokens, err := e.issuePair(identity.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Identity: identity, Tokens: tokens}, nil
}

/*
====================================
LOGIN
====================================
*/

// Login checks email and password, writes the identity snapshot, and
// issues a token pair. Failed attempts are counted per email (and per
// client IP when enabled); past the budget Login returns
// [ErrLoginRateLimited] without checking the password.
func (e *Engine) Login(ctx context.Context, email, pw string) (LoginResult, error) {
	if e == nil || e.identities == nil {
		return LoginResult{}, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	ip := clientIPFromContext(ctx)
	if email == "" || pw == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	if err := e.limiter.CheckLogin(ctx, email, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, nil)
			return LoginResult{}, ErrLoginRateLimited
		}
		return LoginResult{}, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	identity, err := e.identities.FindIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, e.loginFailed(ctx, "", email, ip)
		}
		return LoginResult{}, err
	}
	if identity.PasswordHash == "" {
		return LoginResult{}, e.loginFailed(ctx, identity.ID, email, ip)
	}

	ok, err := e.hasher.Verify(pw, identity.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, e.loginFailed(ctx, identity.ID, email, ip)
	}

	if err := e.limiter.ResetLogin(ctx, email, ip); err != nil {
		e.logger.WarnContext(ctx, "learnhub: reset login counter failed", "error", err)
	}
	e.maybeUpgradeHash(ctx, identity, pw)

	result, err := e.startSession(ctx, identity)
	if err != nil {
		return LoginResult{}, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, identity.ID, nil, nil)
	return result, nil
}

func (e *Engine) loginFailed(ctx context.Context, identityID, email, ip string) error {
	if err := e.limiter.IncrementLogin(ctx, email, ip); err != nil && !errors.Is(err, rate.ErrRateLimited) {
		e.logger.WarnContext(ctx, "learnhub: login attempt counter failed", "error", err)
	}
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, identityID, ErrInvalidCredentials, nil)
	return ErrInvalidCredentials
}

func (e *Engine) maybeUpgradeHash(ctx context.Context, identity *Identity, pw string) {
	if !e.config.Password.UpgradeOnLogin {
		return
	}
	needs, err := e.hasher.NeedsUpgrade(identity.PasswordHash)
	if err != nil || !needs {
		return
	}
	hash, err := e.hasher.Hash(pw)
	if err != nil {
		return
	}
	identity.PasswordHash = hash
	identity.UpdatedAt = e.now().UTC()
	if err := e.identities.UpdateIdentity(ctx, identity); err != nil {
		e.logger.WarnContext(ctx, "learnhub: password hash upgrade failed", "identity_id", identity.ID, "error", err)
	}
}

/*
====================================
SOCIAL AUTH
====================================
*/

// SocialAuth logs in the identity owning profile.Email, creating a
// password-less account on first sight. The caller is responsible for
// having verified the profile with the provider.
func (e *Engine) SocialAuth(ctx context.Context, profile SocialProfile) (LoginResult, error) {
	if e == nil || e.identities == nil {
		return LoginResult{}, ErrEngineNotReady
	}

	email := normalizeEmail(profile.Email)
	if email == "" {
		return LoginResult{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	identity, err := e.identities.FindIdentityByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		now := e.now().UTC()
		identity = &Identity{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(profile.Name),
			Email:     email,
			Role:      RoleUser,
			Courses:   []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if profile.Avatar != "" {
			identity.Avatar = &AssetRef{URL: profile.Avatar}
		}
		if err := e.identities.CreateIdentity(ctx, identity); err != nil {
			return LoginResult{}, err
		}
		e.metricInc(MetricAccountCreated)
	case err != nil:
		return LoginResult{}, err
	}

	result, err := e.startSession(ctx, identity)
	if err != nil {
		return LoginResult{}, err
	}

	e.metricInc(MetricSocialLogin)
	e.emitAudit(ctx, auditEventSocialLogin, true, identity.ID, nil, nil)
	return result, nil
}

/*
====================================
SELF PROFILE
====================================
*/

// Me returns the cached snapshot of identityID.
func (e *Engine) Me(ctx context.Context, identityID string) (*Identity, error) {
	if e == nil || e.snapshots == nil {
		return nil, ErrEngineNotReady
	}
	identity, err := e.snapshots.Get(ctx, identityID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("%w: identity %s", ErrNotFound, identityID)
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return identity, nil
}

// UpdateProfile applies the non-nil fields of upd and refreshes the snapshot.
func (e *Engine) UpdateProfile(ctx context.Context, identityID string, upd ProfileUpdate) (*Identity, error) {
	if e == nil || e.identities == nil {
		return nil, ErrEngineNotReady
	}

	identity, err := e.identities.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", ErrInvalidInput)
		}
		if email != identity.Email {
			if err := e.ensureEmailFree(ctx, email, identity.ID); err != nil {
				return nil, err
			}
			identity.Email = email
		}
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		identity.Name = name
	}

	identity.UpdatedAt = e.now().UTC()
	if err := e.identities.UpdateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	e.recache(ctx, identity)
	e.emitAudit(ctx, auditEventProfileUpdate, true, identity.ID, nil, nil)
	return identity, nil
}

// UpdatePassword replaces the password after checking oldPassword.
// Accounts created through social auth have no password and are rejected
// with [ErrInvalidInput].
func (e *Engine) UpdatePassword(ctx context.Context, identityID, oldPassword, newPassword string) (*Identity, error) {
	if e == nil || e.identities == nil {
		return nil, ErrEngineNotReady
	}
	if oldPassword == "" || newPassword == "" {
		return nil, fmt.Errorf("%w: please enter old and new password", ErrInvalidInput)
	}

	identity, err := e.identities.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if identity.PasswordHash == "" {
		e.metricInc(MetricPasswordChangeFailure)
		return nil, fmt.Errorf("%w: account has no password", ErrInvalidInput)
	}

	ok, err := e.hasher.Verify(oldPassword, identity.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, identity.ID, ErrInvalidCredentials, nil)
		return nil, fmt.Errorf("%w: invalid old password", ErrInvalidCredentials)
	}
	if err := e.checkPasswordPolicy(newPassword); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		return nil, err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	identity.PasswordHash = hash
	identity.UpdatedAt = e.now().UTC()
	if err := e.identities.UpdateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.recache(ctx, identity)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, identity.ID, nil, nil)
	return identity, nil
}

// UpdateAvatar uploads payload to the asset host, destroying the previous
// avatar first, and refreshes the snapshot.
func (e *Engine) UpdateAvatar(ctx context.Context, identityID, payload string) (*Identity, error) {
	if e == nil || e.identities == nil || e.assets == nil {
		return nil, ErrEngineNotReady
	}
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("%w: avatar is required", ErrInvalidInput)
	}

	identity, err := e.identities.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if identity.Avatar != nil && identity.Avatar.PublicID != "" {
		if err := e.assets.Destroy(ctx, identity.Avatar.PublicID); err != nil {
			return nil, err
		}
	}
	ref, err := e.assets.Upload(ctx, payload, avatarFolder)
	if err != nil {
		return nil, err
	}

	identity.Avatar = &ref
	identity.UpdatedAt = e.now().UTC()
	if err := e.identities.UpdateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	e.recache(ctx, identity)
	e.emitAudit(ctx, auditEventAvatarUpdate, true, identity.ID, nil, nil)
	return identity, nil
}

// RecordPurchase adds courseID to the identity's courses and refreshes the
// snapshot. Owning the course already yields [ErrAlreadyPurchased].
func (e *Engine) RecordPurchase(ctx context.Context, identityID, courseID string) (*Identity, error) {
	if e == nil || e.identities == nil {
		return nil, ErrEngineNotReady
	}

	identity, err := e.identities.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if identity.HasCourse(courseID) {
		return nil, ErrAlreadyPurchased
	}

	identity.Courses = append(identity.Courses, courseID)
	identity.UpdatedAt = e.now().UTC()
	if err := e.identities.UpdateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	e.recache(ctx, identity)
	e.emitAudit(ctx, auditEventCourseGranted, true, identity.ID, nil, func() map[string]string {
		return map[string]string{"course_id": courseID}
	})
	return identity, nil
}
