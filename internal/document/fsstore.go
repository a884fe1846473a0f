package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/imgutil"
)

// FSStore is the filesystem-backed Store. URIs are absolute paths.
type FSStore struct{}

// NewFSStore returns a Store over the local filesystem.
func NewFSStore() *FSStore {
	return &FSStore{}
}

func (s *FSStore) Query(uri string) (Info, error) {
	info, err := os.Stat(uri)
	if err != nil {
		return Info{}, err
	}
	if info.IsDir() {
		return Info{DisplayName: filepath.Base(uri)}, nil
	}
	return Info{
		DisplayName: filepath.Base(uri),
		MimeType:    s.MimeType(uri),
	}, nil
}

func (s *FSStore) OpenInput(uri string) (io.ReadSeekCloser, error) {
	return os.Open(uri)
}

func (s *FSStore) OpenOutput(uri string) (io.WriteCloser, error) {
	return os.OpenFile(uri, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (s *FSStore) CreateDocument(parentURI, mimeType, displayName string) (string, error) {
	info, err := os.Stat(parentURI)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", parentURI)
	}

	ext := imgutil.KindForMimeType(mimeType).Extension()
	path, err := uniquePath(parentURI, displayName, ext)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FSStore) ListChildren(treeURI string) ([]string, error) {
	var children []string
	err := godirwalk.Walk(treeURI, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsRegular() {
				children = append(children, path)
			}
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (s *FSStore) Delete(uri string) error {
	return os.Remove(uri)
}

func (s *FSStore) MimeType(uri string) string {
	kind, err := imgutil.SniffFile(uri)
	if err != nil {
		return ""
	}
	return kind.MimeType()
}

func (s *FSStore) Parent(uri string) (string, error) {
	parent := filepath.Dir(uri)
	info, err := os.Stat(parent)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", parent)
	}
	return parent, nil
}

func (s *FSStore) IsTree(uri string) bool {
	info, err := os.Stat(uri)
	return err == nil && info.IsDir()
}

// uniquePath appends " (n)" before the extension until the name is free,
// matching how document providers dedupe display names.
func uniquePath(dir, displayName, ext string) (string, error) {
	for n := 0; n <= 1000; n++ {
		candidate := displayName
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)", displayName, n)
		}
		if ext != "" {
			candidate += "." + ext
		}

		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no free name for %s in %s", displayName, dir)
}
