package metadata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

const pngXmpKeyword = "XML:com.adobe.xmp"

func inspectPNG(r io.ReadSeeker) (Snapshot, error) {
	snapshot := Snapshot{}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return snapshot, err
	}
	br := bufio.NewReader(r)

	if err := readPNGSignature(br); err != nil {
		return snapshot, err
	}

	for {
		length, chunkName, err := readPNGChunkHeader(br)
		if err != nil {
			if err == io.EOF {
				return snapshot, nil
			}
			return snapshot, err
		}

		switch chunkName {
		case "eXIf":
			snapshot.HasEXIF = true
		case "iCCP":
			snapshot.HasICCProfile = true
		case "iTXt":
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return snapshot, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return snapshot, err
			}
			if pngTextKeyword(data) == pngXmpKeyword {
				snapshot.HasXMP = true
			}
			continue
		}

		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return snapshot, err
		}
		if chunkName == "IEND" {
			return snapshot, nil
		}
	}
}

func sanitizePNG(r io.Reader, w io.Writer, orientation uint16) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	sigErr := readPNGSignature(br)
	if sigErr != nil {
		return sigErr
	}
	if _, err := bw.Write(pngSignature); err != nil {
		return err
	}

	wroteOrientation := false
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		typeBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, typeBuf); err != nil {
			return err
		}
		chunkName := string(typeBuf)

		if shouldDropPNGChunk(chunkName) {
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return err
			}
			continue
		}

		if _, err := bw.Write(lenBuf); err != nil {
			return err
		}
		if _, err := bw.Write(typeBuf); err != nil {
			return err
		}
		if _, err := io.CopyN(bw, br, int64(length)+4); err != nil {
			return err
		}

		// The orientation chunk goes right after IHDR so readers see it
		// before image data.
		if chunkName == "IHDR" && orientation > orientationTopLeft && !wroteOrientation {
			if err := writePNGChunk(bw, "eXIf", orientationTIFF(orientation)); err != nil {
				return err
			}
			wroteOrientation = true
		}

		if chunkName == "IEND" {
			break
		}
	}

	return bw.Flush()
}

func shouldDropPNGChunk(chunkName string) bool {
	switch chunkName {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME", "iCCP":
		return true
	default:
		return false
	}
}

func readPNGSignature(br *bufio.Reader) error {
	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return err
	}
	if !bytes.Equal(sig, pngSignature) {
		return fmt.Errorf("invalid PNG signature")
	}
	return nil
}

func readPNGChunkHeader(br *bufio.Reader) (uint32, string, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(br, lenBuf); err != nil {
		return 0, "", err
	}

	typeBuf := make([]byte, 4)
	if _, err := io.ReadFull(br, typeBuf); err != nil {
		return 0, "", err
	}

	return binary.BigEndian.Uint32(lenBuf), string(typeBuf), nil
}

func writePNGChunk(w io.Writer, chunkName string, data []byte) error {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(data)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}

	typeBytes := []byte(chunkName)
	if _, err := w.Write(typeBytes); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	crc := crc32.ChecksumIEEE(append(typeBytes, data...))
	crcBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBuf, crc)
	_, err := w.Write(crcBuf)
	return err
}

func pngTextKeyword(data []byte) string {
	idx := bytes.IndexByte(data, 0)
	if idx <= 0 {
		return ""
	}
	return string(data[:idx])
}
