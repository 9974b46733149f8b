package learnhub

import (
	"context"
	"errors"
)

const (
	auditEventLoginSuccess          = "login_success"
	auditEventLoginFailure          = "login_failure"
	auditEventLoginRateLimited      = "login_rate_limited"
	auditEventRefreshSuccess        = "refresh_success"
	auditEventRefreshInvalid        = "refresh_invalid"
	auditEventRefreshRevoked        = "refresh_session_revoked"
	auditEventAuthorizeDenied       = "authorize_denied"
	auditEventLogout                = "logout"
	auditEventRegistration          = "registration"
	auditEventActivationSuccess     = "activation_success"
	auditEventActivationFailure     = "activation_failure"
	auditEventActivationRateLimited = "activation_rate_limited"
	auditEventSocialLogin           = "social_login"
	auditEventProfileUpdate         = "profile_update"
	auditEventPasswordChangeSuccess = "password_change_success"
	auditEventPasswordChangeFailure = "password_change_failure"
	auditEventAvatarUpdate          = "avatar_update"
	auditEventCourseGranted         = "course_granted"
	auditEventCacheWriteFailure     = "cache_write_failure"
)

// AuditErrorCode is the stable error classification carried by audit events.
type AuditErrorCode string

const (
	auditErrUnauthenticated    AuditErrorCode = "unauthenticated"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrSessionRevoked     AuditErrorCode = "session_revoked"
	auditErrForbidden          AuditErrorCode = "forbidden"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrCodeMismatch       AuditErrorCode = "code_mismatch"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrNotFound           AuditErrorCode = "not_found"
	auditErrInvalidInput       AuditErrorCode = "invalid_input"
	auditErrMailDelivery       AuditErrorCode = "mail_delivery"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identityID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  e.now().UTC(),
		EventType:  eventType,
		IdentityID: identityID,
		IP:         clientIPFromContext(ctx),
		UserAgent:  userAgentFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrInvalidTicket):
		return auditErrInvalidToken
	case errors.Is(err, ErrSessionRevoked):
		return auditErrSessionRevoked
	case errors.Is(err, ErrUnauthenticated):
		return auditErrUnauthenticated
	case errors.Is(err, ErrForbidden):
		return auditErrForbidden
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginRateLimited),
		errors.Is(err, ErrActivationRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrCodeMismatch):
		return auditErrCodeMismatch
	case errors.Is(err, ErrConflict):
		return auditErrDuplicate
	case errors.Is(err, ErrNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrInvalidInput):
		return auditErrInvalidInput
	case errors.Is(err, ErrMailDelivery):
		return auditErrMailDelivery
	case errors.Is(err, ErrCacheUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
