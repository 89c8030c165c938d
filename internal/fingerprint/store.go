package fingerprint

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
)

// Store records the fingerprint of the last applied feed on disk, one
// decimal string, so operators can tell after a restart whether the feed
// the shop is serving is the one it served before. Nothing reads it back
// at runtime; losing the file costs nothing.
type Store struct {
	fs   afero.Fs
	path string
}

// New creates a Store backed by the OS filesystem.
func New(path string) *Store {
	return NewWithFs(afero.NewOsFs(), path)
}

// NewWithFs creates a Store on an arbitrary filesystem, used by tests with
// an in-memory fs.
func NewWithFs(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Save writes the fingerprint. A write failure is reported but is safe to
// ignore beyond logging it.
func (s *Store) Save(fp uint64) error {
	data := []byte(strconv.FormatUint(fp, 10) + "\n")
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save feed fingerprint: %w", err)
	}
	return nil
}
