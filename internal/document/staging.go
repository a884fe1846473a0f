package document

import (
	"os"
	"path/filepath"
	"strings"
)

// stagingDirName is the stable authority under which staged and derived
// documents live inside the user cache directory.
const stagingDirName = "exif-eraser"

// modifiedMarker tags cache-staged outputs as derived copies.
const modifiedMarker = "-modified"

// Staging is the app-private cache area used both for camera imports and as
// the fallback output location when no user-writable destination exists.
type Staging struct {
	root string
}

// NewStaging returns the staging area rooted in the user cache directory.
func NewStaging() (*Staging, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewStagingAt(filepath.Join(cache, stagingDirName)), nil
}

// NewStagingAt roots the staging area at an explicit directory.
func NewStagingAt(root string) *Staging {
	return &Staging{root: root}
}

// Root returns the staging directory, creating it when missing.
func (s *Staging) Root() (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", err
	}
	return s.root, nil
}

// Contains reports whether uri refers to a cache-staged document.
func (s *Staging) Contains(uri string) bool {
	rel, err := filepath.Rel(s.root, uri)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CreateDerived creates an empty document in the staging area, marked as a
// modified copy.
func (s *Staging) CreateDerived(store Store, mimeType, displayName string) (string, error) {
	root, err := s.Root()
	if err != nil {
		return "", err
	}
	return store.CreateDocument(root, mimeType, displayName+modifiedMarker)
}
