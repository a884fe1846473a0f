package metadata

import (
	"bufio"
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/imgutil"
)

// Detail is one category of metadata found during a scan, with the values
// that were read.
type Detail struct {
	Category string
	Values   []string
}

// Details reports human-readable metadata findings for src. Scanning is
// best-effort: images without parseable EXIF simply contribute no EXIF
// details.
func Details(src io.ReadSeeker) ([]Detail, error) {
	kind, err := sniff(src)
	if err != nil {
		return nil, err
	}

	details := exifDetails(src)

	if kind == imgutil.KindPNG {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return details, err
		}
		details = append(details, pngTextDetails(src)...)
	}

	return details, nil
}

func exifDetails(src io.ReadSeeker) []Detail {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil
	}

	rawExif, err := exif.SearchAndExtractExifWithReader(src)
	if err != nil {
		return nil
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var location, device, timestamp, identifier []string
	for _, tag := range tags {
		name := tag.TagName
		entry := name + " = " + tag.FormattedFirst

		switch {
		case strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS"):
			location = append(location, entry)
		case name == "Make" || name == "Model" || name == "CameraModelName" || name == "Software":
			device = append(device, entry)
		case name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime":
			timestamp = append(timestamp, entry)
		case strings.Contains(strings.ToLower(name), "serial"):
			identifier = append(identifier, entry)
		}
	}

	var details []Detail
	if len(location) > 0 {
		details = append(details, Detail{Category: "Location", Values: location})
	}
	if len(device) > 0 {
		details = append(details, Detail{Category: "Device", Values: device})
	}
	if len(timestamp) > 0 {
		details = append(details, Detail{Category: "Timestamp", Values: timestamp})
	}
	if len(identifier) > 0 {
		details = append(details, Detail{Category: "Identifier", Values: identifier})
	}
	return details
}

func pngTextDetails(src io.Reader) []Detail {
	br := bufio.NewReader(src)
	if err := readPNGSignature(br); err != nil {
		return nil
	}

	var keys []string
	for {
		length, chunkName, err := readPNGChunkHeader(br)
		if err != nil {
			break
		}

		switch chunkName {
		case "tEXt", "zTXt", "iTXt":
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return nil
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return nil
			}
			if key := pngTextKeyword(data); key != "" {
				keys = append(keys, key)
			}
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return nil
			}
		}

		if chunkName == "IEND" {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}
	return []Detail{{Category: "Text", Values: keys}}
}
