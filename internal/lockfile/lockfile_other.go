//go:build !unix

package lockfile

// Lock is a no-op lock on platforms without flock.
type Lock struct {
	path string
}

// Acquire returns a lock that does not exclude other processes.
func Acquire(archivePath string) (*Lock, error) {
	return &Lock{path: PathFor(archivePath)}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release is a no-op.
func (l *Lock) Release() error {
	return nil
}
