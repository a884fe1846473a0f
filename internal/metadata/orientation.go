package metadata

import (
	"bytes"
	"encoding/binary"
	"io"
	"strconv"

	exif "github.com/dsoprea/go-exif/v3"
)

// orientationTopLeft is the identity EXIF orientation; anything above it is
// worth preserving.
const orientationTopLeft uint16 = 1

// readOrientation extracts the EXIF orientation from src, returning the
// identity orientation when none is found. The raw TIFF block is located by
// signature search, so it is found wherever the container buries it (JPEG
// APP1, PNG eXIf, WEBP EXIF chunk).
func readOrientation(src io.ReadSeeker) uint16 {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return orientationTopLeft
	}

	rawExif, err := exif.SearchAndExtractExifWithReader(src)
	if err != nil {
		return orientationTopLeft
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return orientationTopLeft
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		if values, ok := tag.Value.([]uint16); ok && len(values) > 0 {
			return values[0]
		}
		if v, err := strconv.Atoi(tag.FormattedFirst); err == nil && v > 0 {
			return uint16(v)
		}
	}

	return orientationTopLeft
}

// orientationTIFF builds a minimal little-endian TIFF block whose single IFD
// entry is the orientation tag.
func orientationTIFF(orientation uint16) []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))  // IFD0 offset
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))  // entry count
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3)) // SHORT
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, orientation)
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0)) // value padding
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0)) // next IFD
	return tiff.Bytes()
}
