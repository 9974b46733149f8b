package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/internal/rate"
)

// ErrorBody is the envelope written for every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, learnhub.ErrRefreshInvalid),
		errors.Is(err, learnhub.ErrSessionRevoked):
		return http.StatusBadRequest
	case errors.Is(err, learnhub.ErrUnauthenticated),
		errors.Is(err, learnhub.ErrTokenInvalid),
		errors.Is(err, learnhub.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, learnhub.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, learnhub.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, learnhub.ErrLoginRateLimited),
		errors.Is(err, learnhub.ErrActivationRateLimited),
		errors.Is(err, rate.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, learnhub.ErrInvalidTicket),
		errors.Is(err, learnhub.ErrCodeMismatch),
		errors.Is(err, learnhub.ErrInvalidCredentials),
		errors.Is(err, learnhub.ErrConflict),
		errors.Is(err, learnhub.ErrInvalidInput),
		errors.Is(err, learnhub.ErrAlreadyPurchased),
		errors.Is(err, learnhub.ErrMailDelivery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// opaque errors are reported by their sentinel message alone, so token
// parsing details never reach the client.
var opaque = []error{
	learnhub.ErrUnauthenticated,
	learnhub.ErrSessionRevoked,
	learnhub.ErrRefreshInvalid,
	learnhub.ErrForbidden,
	learnhub.ErrInvalidTicket,
	learnhub.ErrTokenExpired,
	learnhub.ErrTokenInvalid,
}

// Message returns the client-facing message for err. Internal failures are
// not described to the client.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	for _, sentinel := range opaque {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// WriteError writes err as a JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Success: false, Message: Message(err)})
}
