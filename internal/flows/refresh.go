package flows

import (
	"context"
	"errors"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureToken
	RefreshFailureSnapshotMissing
	RefreshFailureStore
	RefreshFailureIssue
)

// RefreshResult carries either the issued pair or failure metadata.
type RefreshResult[T, P any] struct {
	Failure    RefreshFailureKind
	Err        error
	IdentityID string
	Identity   *T
	Tokens     P
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps[T, P any] struct {
	ParseRefresh     func(string) (string, error)
	Snapshots        SnapshotReader[T]
	SnapshotNotFound error
	IssueTokens      func(id string) (P, error)
}

// RunRefresh verifies a refresh token, requires the identity snapshot to
// still be cached, and issues a new pair. The presented refresh token is not
// consumed and stays valid until it expires or the snapshot is removed.
func RunRefresh[T, P any](ctx context.Context, refreshToken string, deps RefreshDeps[T, P]) RefreshResult[T, P] {
	id, err := deps.ParseRefresh(refreshToken)
	if err != nil {
		return RefreshResult[T, P]{Failure: RefreshFailureToken, Err: err}
	}

	identity, err := deps.Snapshots.Get(ctx, id)
	if err != nil {
		if deps.SnapshotNotFound != nil && errors.Is(err, deps.SnapshotNotFound) {
			return RefreshResult[T, P]{Failure: RefreshFailureSnapshotMissing, Err: err, IdentityID: id}
		}
		return RefreshResult[T, P]{Failure: RefreshFailureStore, Err: err, IdentityID: id}
	}

	tokens, err := deps.IssueTokens(id)
	if err != nil {
		return RefreshResult[T, P]{Failure: RefreshFailureIssue, Err: err, IdentityID: id}
	}

	return RefreshResult[T, P]{IdentityID: id, Identity: identity, Tokens: tokens}
}
