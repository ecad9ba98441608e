package shoko

import (
	"fmt"
	"path/filepath"
	"sync"
)

// openArchives tracks files held by a live Archive in this process.
var openArchives = struct {
	sync.Mutex
	paths map[string]struct{}
}{paths: make(map[string]struct{})}

// registryKey returns the canonical key for path.
func registryKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	return abs, nil
}

// acquire claims path for one Archive.
func acquire(path string) error {
	openArchives.Lock()
	defer openArchives.Unlock()
	if _, ok := openArchives.paths[path]; ok {
		return fmt.Errorf("%s: %w", path, ErrAlreadyOpen)
	}
	openArchives.paths[path] = struct{}{}
	return nil
}

// release gives up the claim taken by acquire.
func release(path string) {
	openArchives.Lock()
	defer openArchives.Unlock()
	delete(openArchives.paths, path)
}
