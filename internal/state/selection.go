// Package state persists the current selection and image-source order so a
// batch can resume across process death. Writes are atomic replaces of small
// versioned YAML files.
package state

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"sigs.k8s.io/yaml"
)

// ErrEmptySelection reports that nothing was supplied, or nothing is
// persisted, to process.
var ErrEmptySelection = errors.New("empty selection")

const (
	configDirName    = "exif-eraser"
	selectionFile    = "selection.yaml"
	selectionVersion = 1
)

// SelectionItem is one image reference in a batch. Immutable once created.
type SelectionItem struct {
	SourceURI  string `json:"sourceUri"`
	FromCamera bool   `json:"fromCamera,omitempty"`
}

// either exactly one item or a non-empty list, never both
type selectionRecord struct {
	Version int             `json:"version"`
	Single  *SelectionItem  `json:"single,omitempty"`
	Multi   []SelectionItem `json:"multi,omitempty"`
}

// SelectionStore durably holds the current single or multiple selection.
// Single-writer, multi-reader; every write atomically replaces the file.
type SelectionStore struct {
	mu   sync.Mutex
	path string
}

// NewSelectionStore places the selection file in the user config directory.
func NewSelectionStore() (*SelectionStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewSelectionStoreAt(filepath.Join(dir, configDirName)), nil
}

// NewSelectionStoreAt uses an explicit state directory.
func NewSelectionStoreAt(dir string) *SelectionStore {
	return &SelectionStore{path: filepath.Join(dir, selectionFile)}
}

// PutSingle persists a one-item selection, clearing any multi selection.
func (s *SelectionStore) PutSingle(uri string, fromCamera bool) error {
	if uri == "" {
		return ErrEmptySelection
	}
	return s.write(selectionRecord{
		Version: selectionVersion,
		Single:  &SelectionItem{SourceURI: uri, FromCamera: fromCamera},
	})
}

// PutMulti persists an ordered multi-item selection, clearing any single
// selection. Items with empty URIs are dropped; an all-empty list fails.
func (s *SelectionStore) PutMulti(items []SelectionItem) error {
	kept := make([]SelectionItem, 0, len(items))
	for _, item := range items {
		if item.SourceURI != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return ErrEmptySelection
	}
	return s.write(selectionRecord{Version: selectionVersion, Multi: kept})
}

// Selection returns the persisted selection as an ordered list starting at
// fromIndex, supporting batch resume without re-prompting the user.
func (s *SelectionStore) Selection(fromIndex int) ([]SelectionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEmptySelection
		}
		return nil, err
	}

	var record selectionRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	var items []SelectionItem
	switch {
	case record.Single != nil:
		items = []SelectionItem{*record.Single}
	case len(record.Multi) > 0:
		items = record.Multi
	default:
		return nil, ErrEmptySelection
	}

	if fromIndex < 0 {
		fromIndex = 0
	}
	if fromIndex >= len(items) {
		return nil, ErrEmptySelection
	}
	return items[fromIndex:], nil
}

// Clear removes the persisted selection.
func (s *SelectionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *SelectionStore) write(record selectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return atomicWriteYAML(s.path, record)
}

func atomicWriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
