// Package document translates opaque selection references into concrete,
// readable and writable documents.
package document

import (
	"errors"
	"io"
)

var (
	// ErrResolutionFailure reports that a document's display name, mime type
	// or child listing could not be resolved.
	ErrResolutionFailure = errors.New("document resolution failed")

	// ErrEmptyDirectory reports a tree with no supported image children.
	ErrEmptyDirectory = errors.New("directory contains no supported images")

	// ErrDestinationUnresolved reports that no writable output location
	// could be found for an item.
	ErrDestinationUnresolved = errors.New("no destination for sanitized copy")
)

// Info is the queried row for a document.
type Info struct {
	DisplayName string
	MimeType    string
}

// Store is the narrow document-store capability the pipeline runs against.
// URIs are opaque to callers; the built-in implementation uses absolute
// filesystem paths.
type Store interface {
	// Query resolves a document's display name and mime type.
	Query(uri string) (Info, error)

	// OpenInput opens a document for reading.
	OpenInput(uri string) (io.ReadSeekCloser, error)

	// OpenOutput opens a document for writing, truncating existing content.
	OpenOutput(uri string) (io.WriteCloser, error)

	// CreateDocument creates a new, empty document inside parentURI with a
	// collision-resistant name derived from displayName and mimeType, and
	// returns its URI.
	CreateDocument(parentURI, mimeType, displayName string) (string, error)

	// ListChildren enumerates the document children of a tree, recursively.
	ListChildren(treeURI string) ([]string, error)

	// Delete removes a document.
	Delete(uri string) error

	// MimeType reports a document's mime type, or "" when unknown.
	MimeType(uri string) string

	// Parent returns the enclosing tree of a singleton document.
	Parent(uri string) (string, error)

	// IsTree reports whether uri refers to an enumerable tree.
	IsTree(uri string) bool
}
