// Package lock prevents overlapping runs on the same host with a lock file.
// A lock left behind by a crashed run is taken over once it looks abandoned.
package lock

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vitalviral/newsbot/internal/logger"
)

// DefaultStaleAfter is how old a lock file may be before it is treated as
// abandoned by a dead run.
const DefaultStaleAfter = 10 * time.Minute

// ErrHeld is returned when another live run holds the lock.
var ErrHeld = fmt.Errorf("run lock held by another process")

// Lock is an acquired run lock. Release removes the file.
type Lock struct {
	path string
}

// Acquire takes the run lock, stealing it when the existing file is older
// than staleAfter.
func Acquire(path string, staleAfter time.Duration) (*Lock, error) {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	if err := tryCreate(path); err == nil {
		return &Lock{path: path}, nil
	} else if !os.IsExist(err) {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		// Raced with the holder releasing; one retry.
		if os.IsNotExist(err) {
			if err := tryCreate(path); err != nil {
				return nil, ErrHeld
			}
			return &Lock{path: path}, nil
		}
		return nil, fmt.Errorf("stat lock file: %w", err)
	}

	if time.Since(info.ModTime()) < staleAfter {
		return nil, ErrHeld
	}

	logger.Warn("taking over stale run lock", "path", path, "age", time.Since(info.ModTime()))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale lock: %w", err)
	}
	if err := tryCreate(path); err != nil {
		return nil, ErrHeld
	}
	return &Lock{path: path}, nil
}

func tryCreate(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	return err
}

// Release removes the lock file. Safe to call once per acquired lock.
func (l *Lock) Release() {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove run lock", "path", l.path, "err", err)
	}
}
