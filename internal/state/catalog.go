package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sigs.k8s.io/yaml"
)

// Source is one of the four image acquisition methods.
type Source int

const (
	SourceImageFile Source = iota
	SourceImageFiles
	SourceImageDirectory
	SourceCamera

	sourceCount = 4
)

func (s Source) String() string {
	switch s {
	case SourceImageFile:
		return "image file"
	case SourceImageFiles:
		return "image files"
	case SourceImageDirectory:
		return "image directory"
	case SourceCamera:
		return "camera"
	default:
		return "unknown"
	}
}

const (
	catalogFile    = "sources.yaml"
	catalogVersion = 1
)

type catalogRecord struct {
	Version int      `json:"version"`
	Order   []Source `json:"order"`
}

// Catalog durably holds the user's preferred ordering of the four image
// sources. The persisted order is always a permutation of {0,1,2,3}.
type Catalog struct {
	mu   sync.Mutex
	path string
}

// NewCatalog places the catalog file in the user config directory.
func NewCatalog() (*Catalog, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewCatalogAt(filepath.Join(dir, configDirName)), nil
}

// NewCatalogAt uses an explicit state directory.
func NewCatalogAt(dir string) *Catalog {
	return &Catalog{path: filepath.Join(dir, catalogFile)}
}

// DefaultOrder is the catalog ordering before the user reorders anything.
func DefaultOrder() []Source {
	return []Source{SourceImageFile, SourceImageFiles, SourceImageDirectory, SourceCamera}
}

// Put persists order after validating it is a permutation of the four
// source indices.
func (c *Catalog) Put(order []Source) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return atomicWriteYAML(c.path, catalogRecord{Version: catalogVersion, Order: order})
}

// Order returns the persisted ordering, or the default when none is stored
// or the stored record is invalid.
func (c *Catalog) Order() []Source {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return DefaultOrder()
	}

	var record catalogRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return DefaultOrder()
	}
	if validateOrder(record.Order) != nil {
		return DefaultOrder()
	}
	return record.Order
}

// Reorder swaps two positions and returns the updated order without
// persisting it; Put is the separate, explicit persistence step.
func Reorder(order []Source, oldIndex, newIndex int) ([]Source, error) {
	if oldIndex < 0 || oldIndex >= len(order) || newIndex < 0 || newIndex >= len(order) {
		return nil, fmt.Errorf("reorder indices out of range: %d, %d", oldIndex, newIndex)
	}

	updated := make([]Source, len(order))
	copy(updated, order)
	updated[oldIndex], updated[newIndex] = updated[newIndex], updated[oldIndex]
	return updated, nil
}

func validateOrder(order []Source) error {
	if len(order) != sourceCount {
		return fmt.Errorf("source order must have %d entries, got %d", sourceCount, len(order))
	}
	var seen [sourceCount]bool
	for _, s := range order {
		if s < 0 || s >= sourceCount {
			return fmt.Errorf("source index %d out of range", s)
		}
		if seen[s] {
			return fmt.Errorf("source index %d repeated", s)
		}
		seen[s] = true
	}
	return nil
}
