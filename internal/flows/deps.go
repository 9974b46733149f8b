package flows

import (
	"context"
	"time"
)

// SnapshotReader loads the cached identity snapshot for an id.
type SnapshotReader[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
}

// SnapshotDeleter removes the cached identity snapshot for an id.
type SnapshotDeleter interface {
	Delete(ctx context.Context, id string) error
}

// Deps groups flow dependency sets. The engine builds this once and
// delegates request methods to the matching flow.
type Deps[T, P any] struct {
	Authenticate AuthenticateDeps[T]
	Refresh      RefreshDeps[T, P]
	Logout       LogoutDeps
}

func elapsed(now func() time.Time, start time.Time) time.Duration {
	if now == nil {
		return time.Since(start)
	}
	return now().Sub(start)
}
