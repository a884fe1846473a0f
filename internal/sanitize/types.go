// Package sanitize runs the batch sanitization pipeline: one sequential
// worker per batch, per-item failure isolation, and an ordered stream of
// step events ending in exactly one terminal bulk event.
package sanitize

import (
	"errors"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/metadata"
)

// ErrIoFailure reports a failed stream copy or write.
var ErrIoFailure = errors.New("i/o failure")

// Summary is the outcome for one input item. Produced exactly once per item,
// never mutated after emission. When Saved is false no destructive write
// occurred and OutputURI equals the source.
type Summary struct {
	DisplayName string
	Extension   string
	MimeType    string
	OutputURI   string
	Saved       bool
	Metadata    metadata.Snapshot
}

// Step is a sealed batch event: FinishedSingle or FinishedBulk.
type Step interface {
	isStep()
}

// FinishedSingle carries one item's summary and the batch progress after it.
type FinishedSingle struct {
	Summary  Summary
	Progress int
}

// FinishedBulk terminates a batch. Emitted exactly once, always last.
type FinishedBulk struct{}

func (FinishedSingle) isStep() {}
func (FinishedBulk) isStep()   {}

// Options configure one batch run.
type Options struct {
	// DefaultTreeURI is the user-chosen destination tree, or "".
	DefaultTreeURI string

	// DisplayNameSuffix is appended to output names when valid.
	DisplayNameSuffix string

	// AutoDelete removes originals after a successful sanitized write.
	AutoDelete bool

	// PreserveOrientation re-embeds the original EXIF orientation.
	PreserveOrientation bool

	// RandomizeNames replaces output names with random identifiers.
	RandomizeNames bool
}
