package storage

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FileStore reads and writes whole files on a billy filesystem.
type FileStore struct {
	fs       billy.Filesystem
	absolute bool
}

// NewFileStore returns a store over fs. Paths are passed to fs unchanged.
func NewFileStore(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

// NewOSFileStore returns a store over the local filesystem. Relative paths
// are resolved against the working directory.
func NewOSFileStore() *FileStore {
	return &FileStore{fs: osfs.New("/"), absolute: true}
}

// Read returns the full contents of path.
func (s *FileStore) Read(path string) ([]byte, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := util.ReadFile(s.fs, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the contents of path with data, creating it if needed.
func (s *FileStore) Write(path string, data []byte) error {
	resolved, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := util.WriteFile(s.fs, resolved, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path can be stat'ed. Any stat failure, not only a
// missing file, counts as absent.
func (s *FileStore) Exists(path string) bool {
	resolved, err := s.resolve(path)
	if err != nil {
		return false
	}
	_, err = s.fs.Stat(resolved)
	return err == nil
}

func (s *FileStore) resolve(path string) (string, error) {
	if !s.absolute {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", path, err)
	}
	return abs, nil
}
