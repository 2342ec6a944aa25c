package collect

import (
	"fmt"
	"os"
	"path/filepath"

	"adscout/internal/types"
)

const lockFile = "run.lock"

// runLock prevents two collection runs from sharing one state dir. The
// lock is a file created with O_EXCL; a leftover lock from a crashed
// run has to be removed manually (or via the reset command).
type runLock struct {
	path string
}

// acquireLock takes the run lock or returns ErrRunInProgress.
func acquireLock(stateDir string) (*runLock, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(stateDir, lockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, types.ErrRunInProgress
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return &runLock{path: path}, nil
}

// Release removes the lock file.
func (l *runLock) Release() error {
	return os.Remove(l.path)
}

// ClearLock force-removes a stale lock file.
func ClearLock(stateDir string) error {
	err := os.Remove(filepath.Join(stateDir, lockFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
