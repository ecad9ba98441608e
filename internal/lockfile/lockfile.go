// Package lockfile serializes sar invocations on the same archive across
// processes with an advisory lock on a sidecar file.
//
// The in-process registry in the archive package already rejects a second
// handle on the same file; the lock extends that to other processes that
// cooperate by taking it too.
package lockfile

import "errors"

// Suffix is appended to the archive path to name its lock file.
const Suffix = ".lock"

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("lockfile: archive is locked by another process")

// PathFor returns the lock file path for an archive.
func PathFor(archivePath string) string {
	return archivePath + Suffix
}
