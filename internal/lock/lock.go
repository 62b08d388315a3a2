// Package lock implements the cross-process single-instance guard. The
// persisted state is single-writer; the guard keeps a second process out
// of the same data directory for the first one's lifetime.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
)

const lockFile = "tallypad.lock"

// ErrHeld is returned when another live process holds the lock.
var ErrHeld = errors.New("data directory is locked by another instance")

// Lock is a held single-instance guard. Release it when the process is
// done with the data directory.
type Lock struct {
	path  string
	token string
}

// lockInfo is the lock file payload: enough to identify the holder and
// detect staleness.
type lockInfo struct {
	PID   int    `json:"pid"`
	Token string `json:"token"`
}

// Acquire takes the lock for dataDir. A leftover lock from a dead
// process is broken and re-acquired once; a lock held by a live process
// yields ErrHeld.
func Acquire(dataDir string) (*Lock, error) {
	path := filepath.Join(dataDir, lockFile)
	token := uuid.NewString()

	if err := tryCreate(path, token); err == nil {
		return &Lock{path: path, token: token}, nil
	} else if !os.IsExist(err) {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	stale, err := isStale(path)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !stale {
		return nil, ErrHeld
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("acquire lock: break stale lock: %w", err)
	}
	if err := tryCreate(path, token); err != nil {
		if os.IsExist(err) {
			// Someone else won the race for the freed lock.
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return &Lock{path: path, token: token}, nil
}

// tryCreate writes the lock file exclusively; O_EXCL makes creation the
// atomic claim.
func tryCreate(path, token string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info := lockInfo{PID: os.Getpid(), Token: token}
	data, err := json.Marshal(info)
	if err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// isStale reports whether the lock's recorded process is gone. An
// unreadable or unparseable lock file counts as stale.
func isStale(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil || info.PID <= 0 {
		return true, nil
	}
	return !processAlive(info.PID), nil
}

// processAlive probes a pid with signal 0.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to someone else.
	return errors.Is(err, syscall.EPERM)
}

// Release removes the lock file. Safe to call once per acquired lock.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// Token returns the instance token recorded in the lock file.
func (l *Lock) Token() string {
	return l.token
}
