package credstore

import (
	"fmt"
	"os"
	"time"
)

// Lock tuning. Variables so tests can shorten the wait.
var (
	lockAttempts   = 50
	lockRetryDelay = 100 * time.Millisecond
	staleLockAge   = 30 * time.Second
)

// fileLock is an exclusive advisory lock held through a sibling ".lock" file.
type fileLock struct {
	file *os.File
	path string
}

// acquireFileLock takes the lock guarding target. The lock file is created with O_EXCL,
// so only one process (or goroutine) can hold it; a lock older than staleLockAge is
// considered abandoned and removed.
func acquireFileLock(target string) (*fileLock, error) {
	lockPath := target + ".lock"

	for attempt := 0; attempt < lockAttempts; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			// PID helps when debugging a stuck lock by hand.
			fmt.Fprintf(f, "%d", os.Getpid())
			return &fileLock{file: f, path: lockPath}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire file lock: %w", err)
		}

		if info, statErr := os.Stat(lockPath); statErr == nil &&
			time.Since(info.ModTime()) > staleLockAge {
			if remErr := os.Remove(lockPath); remErr != nil && !os.IsNotExist(remErr) {
				return nil, fmt.Errorf("failed to remove stale lock file %s: %w", lockPath, remErr)
			}
			continue
		}

		time.Sleep(lockRetryDelay)
	}

	return nil, fmt.Errorf(
		"timeout waiting for file lock %s after %v",
		lockPath,
		time.Duration(lockAttempts)*lockRetryDelay,
	)
}

// release drops the lock. Releasing twice returns the os.Remove error of the second call.
func (l *fileLock) release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	return os.Remove(l.path)
}
