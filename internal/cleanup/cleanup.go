package cleanup

import "context"

// Client removes uploaded images that no post references.
type Client interface {
	// Sweep deletes unreferenced objects older than the grace period and
	// returns how many were removed
	Sweep(ctx context.Context) (int, error)

	// Schedule runs Sweep daily until ctx is done. It does nothing when
	// cleanup is disabled.
	Schedule(ctx context.Context) error
}
