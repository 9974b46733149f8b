package learnhub

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/learnhub/internal"
	"github.com/MrEthical07/learnhub/internal/rate"
	"github.com/google/uuid"
)

const (
	activationTemplate = "activation"
	activationSubject  = "Activate your account"
)

// IssueActivationTicket signs candidate together with a fresh 4-digit code
// and returns both. The ticket is never stored; it lives only in the client
// until it expires.
func (e *Engine) IssueActivationTicket(ctx context.Context, candidate Candidate) (string, string, error) {
	if e == nil || e.activation == nil {
		return "", "", ErrEngineNotReady
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	code, err := internal.NewActivationCode()
	if err != nil {
		return "", "", err
	}
	payload, err := json.Marshal(candidate)
	if err != nil {
		return "", "", err
	}
	ticket, err := e.activation.CreateActivation(payload, code)
	if err != nil {
		return "", "", err
	}

	e.metricInc(MetricActivationIssued)
	return ticket, code, nil
}

// RedeemActivationTicket verifies ticket and compares code with the one it
// embeds. It returns the candidate but does not create the identity.
//
// A bad or expired ticket yields [ErrInvalidTicket]; a wrong code yields
// [ErrCodeMismatch].
func (e *Engine) RedeemActivationTicket(ctx context.Context, ticket, code string) (Candidate, error) {
	if e == nil || e.activation == nil {
		return Candidate{}, ErrEngineNotReady
	}

	if err := e.limiter.CheckActivation(ctx, ticket); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			e.metricInc(MetricActivationRateLimited)
			e.emitAudit(ctx, auditEventActivationRateLimited, false, "", ErrActivationRateLimited, nil)
			return Candidate{}, ErrActivationRateLimited
		}
		return Candidate{}, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	claims, err := e.activation.ParseActivation(ticket)
	if err != nil {
		e.metricInc(MetricActivationFailure)
		err = fmt.Errorf("%w: %w", ErrInvalidTicket, mapTokenError(err))
		e.emitAudit(ctx, auditEventActivationFailure, false, "", err, nil)
		return Candidate{}, err
	}

	if subtle.ConstantTimeCompare([]byte(claims.ActivationCode), []byte(strings.TrimSpace(code))) != 1 {
		e.metricInc(MetricActivationFailure)
		if incErr := e.limiter.IncrementActivation(ctx, ticket); incErr != nil {
			e.logger.WarnContext(ctx, "learnhub: activation attempt counter failed", "error", incErr)
		}
		e.emitAudit(ctx, auditEventActivationFailure, false, "", ErrCodeMismatch, nil)
		return Candidate{}, ErrCodeMismatch
	}

	return decodeCandidate(claims.User)
}

func decodeCandidate(raw json.RawMessage) (Candidate, error) {
	var c Candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return Candidate{}, fmt.Errorf("%w: malformed candidate", ErrInvalidTicket)
	}
	if c.Email == "" {
		return Candidate{}, fmt.Errorf("%w: candidate without email", ErrInvalidTicket)
	}
	return c, nil
}

/*
====================================
REGISTRATION
====================================
*/

// Register starts self-service sign-up: it rejects a taken email, issues an
// activation ticket for the candidate, and mails the code to the candidate.
// The returned ticket is handed to the client, which sends it back with
// the code to [Engine.Activate].
func (e *Engine) Register(ctx context.Context, in RegisterInput) (string, error) {
	if e == nil || e.identities == nil || e.mailer == nil {
		return "", ErrEngineNotReady
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" {
		return "", fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if err := e.checkPasswordPolicy(in.Password); err != nil {
		return "", err
	}

	if err := e.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return "", err
	}

	hash, err := e.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ticket, code, err := e.IssueActivationTicket(ctx, Candidate{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"user":           map[string]string{"name": in.Name},
		"activationCode": code,
	}
	if err := e.mailer.Send(ctx, in.Email, activationSubject, activationTemplate, data); err != nil {
		e.emitAudit(ctx, auditEventRegistration, false, "", ErrMailDelivery, nil)
		return "", fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	e.emitAudit(ctx, auditEventRegistration, true, "", nil, func() map[string]string {
		return map[string]string{"email": in.Email}
	})
	return ticket, nil
}

// Activate redeems ticket with code and creates the account with role
// [RoleUser]. The email is checked again since it may have been taken
// while the ticket was outstanding.
func (e *Engine) Activate(ctx context.Context, ticket, code string) (*Identity, error) {
	if e == nil || e.identities == nil {
		return nil, ErrEngineNotReady
	}

	candidate, err := e.RedeemActivationTicket(ctx, ticket, code)
	if err != nil {
		return nil, err
	}

	if err := e.ensureEmailFree(ctx, candidate.Email, ""); err != nil {
		e.emitAudit(ctx, auditEventActivationFailure, false, "", err, nil)
		return nil, err
	}

	now := e.now().UTC()
	identity := &Identity{
		ID:           uuid.NewString(),
		Name:         candidate.Name,
		Email:        candidate.Email,
		PasswordHash: candidate.PasswordHash,
		Role:         RoleUser,
		Courses:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.identities.CreateIdentity(ctx, identity); err != nil {
		e.emitAudit(ctx, auditEventActivationFailure, false, "", err, nil)
		return nil, err
	}

	e.metricInc(MetricActivationSuccess)
	e.metricInc(MetricAccountCreated)
	e.recache(ctx, identity)
	e.emitAudit(ctx, auditEventActivationSuccess, true, identity.ID, nil, nil)
	return identity, nil
}
