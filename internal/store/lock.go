package store

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryInterval = 10 * time.Millisecond

// FileLock provides advisory file locking for cross-process synchronization,
// so a scheduler firing a run while the previous one is still going does not
// interleave writes. The lock file is created at path + ".lock".
type FileLock struct {
	path string
	fl   *flock.Flock
}

// NewFileLock creates a file lock. The lock is not acquired until Lock() is called.
func NewFileLock(path string) *FileLock {
	lockPath := path + ".lock"
	return &FileLock{path: lockPath, fl: flock.New(lockPath)}
}

// Lock acquires an exclusive lock with the specified timeout.
// Returns ErrLockTimeout if the lock cannot be acquired within the timeout.
func (l *FileLock) Lock(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := l.fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return &StorageError{Op: "lock", Entity: "file", ID: l.path, Err: err}
	}
	if !locked {
		return ErrLockTimeout
	}
	return nil
}

// Unlock releases the lock and removes the lock file.
func (l *FileLock) Unlock() error {
	err := l.fl.Unlock()
	os.Remove(l.path)
	return err
}
