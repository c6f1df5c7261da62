package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"scribe/internal/services"
)

// ErrBusy reports that another run holds the project lock.
var ErrBusy = errors.New("project is in use by another run")

// Lock takes an exclusive advisory lock for the project folder. The returned
// function releases it. Lock never blocks: a held lock yields ErrBusy.
func (s *Store) Lock(folder string) (func() error, error) {
	dir := filepath.Join(s.baseDir, locksDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "project", "lock", "create lock directory", err)
	}
	lock := flock.New(filepath.Join(dir, folder+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "project", "lock", folder, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, folder)
	}
	s.logger.Debug("project lock acquired", "project", folder, "lock_path", lock.Path())
	return lock.Unlock, nil
}
