package realtime

import "context"

// WithConnection runs fn with a started manager and guarantees Stop on
// every exit path, including handshake failures and errors inside fn.
//
// It replaces mount/unmount-style cleanup conventions with an explicit
// resource scope: acquisition and release live in one place.
func WithConnection(ctx context.Context, endpoint Endpoint, opts Options, fn func(*Manager) error) error {
	manager := NewManager(opts)
	defer manager.Stop()

	if err := manager.Start(ctx, endpoint); err != nil {
		return err
	}
	if fn == nil {
		return nil
	}
	return fn(manager)
}
