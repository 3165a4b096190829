package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage resolves media files on the local filesystem.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

// Path returns the absolute location of a media-relative path, or "" when the
// path would escape the base directory.
func (s *LocalStorage) Path(rel string) string {
	if strings.Contains(rel, "..") {
		return ""
	}
	return filepath.Join(s.basePath, filepath.Clean("/"+filepath.FromSlash(rel)))
}

// Exists reports whether rel names a regular file under the base directory.
func (s *LocalStorage) Exists(rel string) bool {
	p := s.Path(rel)
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
