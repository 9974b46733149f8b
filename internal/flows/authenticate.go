package flows

import (
	"context"
	"errors"
	"time"
)

// AuthenticateFailureKind classifies authenticate failures for root-level mapping.
type AuthenticateFailureKind int

const (
	AuthenticateFailureNone AuthenticateFailureKind = iota
	AuthenticateFailureToken
	AuthenticateFailureSnapshotMissing
	AuthenticateFailureStore
)

// AuthenticateResult carries the loaded identity or failure metadata.
type AuthenticateResult[T any] struct {
	Failure    AuthenticateFailureKind
	Err        error
	IdentityID string
	Identity   *T
}

// AuthenticateDeps captures authenticate flow dependencies.
type AuthenticateDeps[T any] struct {
	ParseAccess      func(string) (string, error)
	Snapshots        SnapshotReader[T]
	SnapshotNotFound error
	Now              func() time.Time
	Observe          func(time.Duration)
}

// RunAuthenticate verifies an access token and loads the identity snapshot
// it names. It never falls back to a refresh.
func RunAuthenticate[T any](ctx context.Context, token string, deps AuthenticateDeps[T]) AuthenticateResult[T] {
	var start time.Time
	if deps.Observe != nil {
		if deps.Now != nil {
			start = deps.Now()
		} else {
			start = time.Now()
		}
		defer func() { deps.Observe(elapsed(deps.Now, start)) }()
	}

	id, err := deps.ParseAccess(token)
	if err != nil {
		return AuthenticateResult[T]{Failure: AuthenticateFailureToken, Err: err}
	}

	identity, err := deps.Snapshots.Get(ctx, id)
	if err != nil {
		if deps.SnapshotNotFound != nil && errors.Is(err, deps.SnapshotNotFound) {
			return AuthenticateResult[T]{Failure: AuthenticateFailureSnapshotMissing, Err: err, IdentityID: id}
		}
		return AuthenticateResult[T]{Failure: AuthenticateFailureStore, Err: err, IdentityID: id}
	}

	return AuthenticateResult[T]{IdentityID: id, Identity: identity}
}
