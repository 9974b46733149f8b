package learnhub

import "errors"

var (
	// ErrUnauthenticated is returned by the gate when no valid session backs
	// the presented access token.
	ErrUnauthenticated = errors.New("please login to access this resource")
	// ErrTokenInvalid is returned for malformed, tampered, or wrongly signed tokens.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned for correctly signed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrRefreshInvalid is returned when a refresh token fails verification.
	ErrRefreshInvalid = errors.New("could not refresh token")
	// ErrSessionRevoked is returned when a refresh token is valid but the
	// cached snapshot for its identity is gone.
	ErrSessionRevoked = errors.New("please login to access this resource")
	// ErrForbidden is returned when the identity's role is not allowed.
	ErrForbidden = errors.New("you are not allowed to access this resource")

	// ErrInvalidTicket is returned when an activation ticket fails verification.
	ErrInvalidTicket = errors.New("invalid activation ticket")
	// ErrCodeMismatch is returned when the activation code does not match the ticket.
	ErrCodeMismatch = errors.New("invalid activation code")
	// ErrActivationRateLimited is returned once a ticket has seen too many wrong codes.
	ErrActivationRateLimited = errors.New("too many activation attempts")
	// ErrInvalidCredentials is returned by Login for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrLoginRateLimited is returned once the failed-login budget is spent.
	ErrLoginRateLimited = errors.New("too many login attempts")
	// ErrConflict is returned when a unique value (email, layout type) already exists.
	ErrConflict = errors.New("already exists")
	// ErrNotFound is returned by stores and services for missing records.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for requests that fail domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyPurchased is returned when ordering a course the identity owns.
	ErrAlreadyPurchased = errors.New("you have already purchased this course")
	// ErrMailDelivery wraps transactional mail failures; the request is aborted.
	ErrMailDelivery = errors.New("mail delivery failed")

	// ErrEngineNotReady is returned by methods called on a nil or partially built engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrCacheUnavailable wraps credential store failures other than a miss.
	ErrCacheUnavailable = errors.New("credential store unavailable")
)
