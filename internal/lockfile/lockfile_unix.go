//go:build unix

package lockfile

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Lock is a held advisory lock.
type Lock struct {
	fd   int
	path string
}

// Acquire takes an exclusive lock for archivePath without blocking.
// The lock file is created if needed and left in place on Release.
func Acquire(archivePath string) (*Lock, error) {
	path := PathFor(archivePath)
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", archivePath, ErrLocked)
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Lock{fd: fd, path: path}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.fd < 0 {
		return nil
	}
	fd := l.fd
	l.fd = -1
	unlockErr := unix.Flock(fd, unix.LOCK_UN)
	closeErr := unix.Close(fd)
	return errors.Join(unlockErr, closeErr)
}
