package flows

import "context"

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Snapshots SnapshotDeleter
}

// RunLogout removes the cached snapshot for id. Tokens already issued for id
// stop authenticating immediately and refresh reports a revoked session.
func RunLogout(ctx context.Context, id string, deps LogoutDeps) error {
	if id == "" {
		return nil
	}
	return deps.Snapshots.Delete(ctx, id)
}
