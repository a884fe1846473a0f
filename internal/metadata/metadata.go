// Package metadata detects and removes embedded image metadata (EXIF,
// XMP/Extended XMP, ICC profiles, Photoshop image resources) at the
// container level. Pixels are never decoded.
package metadata

import (
	"fmt"
	"io"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/imgutil"
)

// Snapshot records which metadata attributes an image carries.
type Snapshot struct {
	HasICCProfile         bool
	HasEXIF               bool
	HasPhotoshopResources bool
	HasXMP                bool
	HasExtendedXMP        bool
}

// MetadataPresent reports whether any attribute is set.
func (s Snapshot) MetadataPresent() bool {
	return s.HasICCProfile || s.HasEXIF || s.HasPhotoshopResources || s.HasXMP || s.HasExtendedXMP
}

// Engine is the metadata detection/removal capability consumed by the
// sanitization pipeline.
type Engine interface {
	// Inspect reads src and reports which metadata attributes are present.
	Inspect(src io.ReadSeeker) (Snapshot, error)

	// SaveExclusive writes a sanitized copy of src to dst, excluding all
	// supported metadata. With preserveOrientation, a minimal EXIF block
	// holding only the original orientation is re-embedded.
	SaveExclusive(src io.ReadSeeker, dst io.Writer, preserveOrientation bool) error
}

// NewEngine returns the built-in container-level engine for JPEG, PNG and
// WEBP images.
func NewEngine() Engine {
	return engine{}
}

type engine struct{}

func (engine) Inspect(src io.ReadSeeker) (Snapshot, error) {
	kind, err := sniff(src)
	if err != nil {
		return Snapshot{}, err
	}

	switch kind {
	case imgutil.KindJPEG:
		return inspectJPEG(src)
	case imgutil.KindPNG:
		return inspectPNG(src)
	case imgutil.KindWEBP:
		return inspectWEBP(src)
	default:
		return Snapshot{}, fmt.Errorf("unsupported image type %q", kind)
	}
}

func (engine) SaveExclusive(src io.ReadSeeker, dst io.Writer, preserveOrientation bool) error {
	kind, err := sniff(src)
	if err != nil {
		return err
	}

	orientation := orientationTopLeft
	if preserveOrientation {
		orientation = readOrientation(src)
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	switch kind {
	case imgutil.KindJPEG:
		return sanitizeJPEG(src, dst, orientation)
	case imgutil.KindPNG:
		return sanitizePNG(src, dst, orientation)
	case imgutil.KindWEBP:
		return sanitizeWEBP(src, dst, orientation)
	default:
		return fmt.Errorf("unsupported image type %q", kind)
	}
}

func sniff(src io.ReadSeeker) (imgutil.Kind, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return imgutil.KindUnknown, err
	}
	kind, err := imgutil.SniffReader(src)
	if err != nil {
		return imgutil.KindUnknown, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return imgutil.KindUnknown, err
	}
	return kind, nil
}
