package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// VP8X feature flags.
const (
	webpFlagICC  = 0x20
	webpFlagEXIF = 0x08
	webpFlagXMP  = 0x04
)

func inspectWEBP(r io.ReadSeeker) (Snapshot, error) {
	snapshot := Snapshot{}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return snapshot, err
	}

	err := walkWEBP(r, func(fourCC string, data []byte) error {
		switch fourCC {
		case "EXIF":
			snapshot.HasEXIF = true
		case "XMP ":
			snapshot.HasXMP = true
		case "ICCP":
			snapshot.HasICCProfile = true
		}
		return nil
	})

	return snapshot, err
}

// sanitizeWEBP rewrites the RIFF container without metadata chunks. Output
// chunks are staged in memory because the RIFF header carries the total size.
func sanitizeWEBP(r io.Reader, w io.Writer, orientation uint16) error {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return fmt.Errorf("invalid WEBP header")
	}

	var body bytes.Buffer
	hasVP8X := false

	err := walkWEBPChunks(r, func(fourCC string, data []byte) error {
		switch fourCC {
		case "EXIF", "XMP ", "ICCP":
			return nil
		case "VP8X":
			hasVP8X = true
			if len(data) > 0 {
				flags := data[0] &^ (webpFlagICC | webpFlagEXIF | webpFlagXMP)
				if orientation > orientationTopLeft {
					flags |= webpFlagEXIF
				}
				data = append([]byte{flags}, data[1:]...)
			}
		}
		return writeWEBPChunk(&body, fourCC, data)
	})
	if err != nil {
		return err
	}

	// An orientation block needs a VP8X chunk to announce it; simple lossy
	// files without one lose their orientation hint.
	if orientation > orientationTopLeft && hasVP8X {
		if err := writeWEBPChunk(&body, "EXIF", orientationTIFF(orientation)); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(header[4:8], uint32(body.Len()+4))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = io.Copy(w, &body)
	return err
}

func walkWEBP(r io.Reader, visit func(fourCC string, data []byte) error) error {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return fmt.Errorf("invalid WEBP header")
	}
	return walkWEBPChunks(r, visit)
}

func walkWEBPChunks(r io.Reader, visit func(fourCC string, data []byte) error) error {
	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(r, chunkHeader); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		fourCC := string(chunkHeader[:4])
		length := binary.LittleEndian.Uint32(chunkHeader[4:8])

		padded := int64(length)
		if length%2 == 1 {
			padded++
		}

		data := make([]byte, padded)
		if _, err := io.ReadFull(r, data); err != nil {
			return err
		}

		if err := visit(fourCC, data[:length]); err != nil {
			return err
		}
	}
}

func writeWEBPChunk(w io.Writer, fourCC string, data []byte) error {
	chunkHeader := make([]byte, 8)
	copy(chunkHeader, fourCC)
	binary.LittleEndian.PutUint32(chunkHeader[4:8], uint32(len(data)))
	if _, err := w.Write(chunkHeader); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data)%2 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
	}
	return nil
}
