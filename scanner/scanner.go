package scanner

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/nrtkbb/dupscan/models"
)

// ErrEnumeration is returned when the scanned directory cannot be listed.
var ErrEnumeration = errors.New("cannot list directory")

// Open returns a filesystem bound to dir. Names handed to it by the
// scanner are relative to dir.
func Open(dir string) (billy.Filesystem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEnumeration, dir, err)
	}
	return osfs.New(abs, osfs.WithBoundOS()), nil
}

// ListFiles returns every non-directory entry directly under dir, in
// listing order. It does not descend into subdirectories.
func ListFiles(fsys billy.Filesystem, dir string) ([]models.FileRecord, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEnumeration, dir, err)
	}

	files := make([]models.FileRecord, 0, len(entries))
	for _, info := range entries {
		if info.IsDir() {
			continue
		}
		size := info.Size()
		if size < 0 {
			size = 0
		}
		files = append(files, models.FileRecord{
			Name: joinName(dir, info.Name()),
			Size: uint64(size),
		})
	}
	return files, nil
}

func joinName(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}
