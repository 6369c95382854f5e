package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another TUI holds the instance lock.
var ErrAlreadyRunning = errors.New("another vidjob session is already running")

// InstanceLock keeps a single interactive session per config directory.
type InstanceLock struct {
	lock *flock.Flock
}

// AcquireInstanceLock takes the lock without blocking.
func AcquireInstanceLock(configDir string) (*InstanceLock, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	l := flock.New(filepath.Join(configDir, "vidjob.lock"))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return &InstanceLock{lock: l}, nil
}

// Release unlocks. It is safe to call on a nil lock.
func (l *InstanceLock) Release() error {
	if l == nil {
		return nil
	}
	return l.lock.Unlock()
}
