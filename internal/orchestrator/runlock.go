package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// RunLock serializes publisher invocations against one checkout. The
// external CI trigger is assumed to serialize runs already; the lock turns
// that assumption into a guarantee.
type RunLock struct {
	lock *flock.Flock
}

// NewRunLock creates the lock file under dir on the real filesystem; file
// locks cannot live on an in-memory one.
func NewRunLock(dir string) (*RunLock, error) {
	if err := os.MkdirAll(dir, DirPermissionsSecure); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	return &RunLock{lock: flock.New(filepath.Join(dir, "publish.lock"))}, nil
}

// Acquire blocks until the lock is held, the context is canceled or
// RunLockTimeout passes.
func (l *RunLock) Acquire(ctx context.Context) error {
	lockCtx, cancel := context.WithTimeout(ctx, RunLockTimeout)
	defer cancel()
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		locked, err := l.lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to acquire run lock: %w", err)
		}
		if locked {
			return nil
		}
		select {
		case <-lockCtx.Done():
			return fmt.Errorf("another publish run holds the lock: %w", lockCtx.Err())
		case <-ticker.C:
		}
	}
}

// Release lets the next invocation proceed.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
