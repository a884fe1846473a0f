package metadata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	markerSOI  = 0xd8
	markerEOI  = 0xd9
	markerSOS  = 0xda
	markerAPP1 = 0xe1
	markerAPP2 = 0xe2
	markerAPPD = 0xed
)

var (
	jpegExifHeader        = []byte("Exif\x00\x00")
	jpegXmpHeader         = []byte("http://ns.adobe.com/xap/1.0/\x00")
	jpegExtendedXmpHeader = []byte("http://ns.adobe.com/xmp/extension/\x00")
	jpegPhotoshopHeader   = []byte("Photoshop 3.0\x00")
	jpegICCHeader         = []byte("ICC_PROFILE\x00")
)

func inspectJPEG(r io.ReadSeeker) (Snapshot, error) {
	snapshot := Snapshot{}

	err := walkJPEG(r, func(marker byte, payload []byte) error {
		switch marker {
		case markerAPP1:
			if bytes.HasPrefix(payload, jpegExifHeader) {
				snapshot.HasEXIF = true
			}
			if bytes.HasPrefix(payload, jpegXmpHeader) {
				snapshot.HasXMP = true
			}
			if bytes.HasPrefix(payload, jpegExtendedXmpHeader) {
				snapshot.HasExtendedXMP = true
			}
		case markerAPP2:
			if bytes.HasPrefix(payload, jpegICCHeader) {
				snapshot.HasICCProfile = true
			}
		case markerAPPD:
			if bytes.HasPrefix(payload, jpegPhotoshopHeader) {
				snapshot.HasPhotoshopResources = true
			}
		}
		return nil
	})

	return snapshot, err
}

// walkJPEG invokes visit for every APP1/APP2/APP13 payload up to SOS.
func walkJPEG(r io.ReadSeeker, visit func(marker byte, payload []byte) error) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	br := bufio.NewReader(r)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return err
	}
	if soi[0] != 0xff || soi[1] != markerSOI {
		return fmt.Errorf("invalid JPEG SOI")
	}

	for {
		marker, err := nextJPEGMarker(br)
		if err != nil {
			return err
		}

		if marker == markerEOI || marker == markerSOS {
			return nil
		}
		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			continue
		}

		payloadLen, _, err := readJPEGSegmentLength(br)
		if err != nil {
			return err
		}

		if marker == markerAPP1 || marker == markerAPP2 || marker == markerAPPD {
			payload := make([]byte, payloadLen)
			if _, err := io.ReadFull(br, payload); err != nil {
				return err
			}
			if err := visit(marker, payload); err != nil {
				return err
			}
			continue
		}

		if _, err := io.CopyN(io.Discard, br, int64(payloadLen)); err != nil {
			return err
		}
	}
}

func sanitizeJPEG(r io.Reader, w io.Writer, orientation uint16) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return err
	}
	if soi[0] != 0xff || soi[1] != markerSOI {
		return fmt.Errorf("invalid JPEG SOI")
	}
	if _, err := bw.Write(soi); err != nil {
		return err
	}

	if orientation > orientationTopLeft {
		if err := writeOrientationAPP1(bw, orientation); err != nil {
			return err
		}
	}

	for {
		marker, err := nextJPEGMarker(br)
		if err != nil {
			return err
		}

		if marker == markerEOI {
			_, err := bw.Write([]byte{0xff, markerEOI})
			if err != nil {
				return err
			}
			break
		}

		if marker == markerSOS {
			if _, err := bw.Write([]byte{0xff, marker}); err != nil {
				return err
			}
			if _, err := io.Copy(bw, br); err != nil {
				return err
			}
			break
		}

		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			if _, err := bw.Write([]byte{0xff, marker}); err != nil {
				return err
			}
			continue
		}

		payloadLen, lenBuf, err := readJPEGSegmentLength(br)
		if err != nil {
			return err
		}

		if marker == markerAPP1 || marker == markerAPP2 || marker == markerAPPD {
			payload := make([]byte, payloadLen)
			if _, err := io.ReadFull(br, payload); err != nil {
				return err
			}

			if shouldDropJPEGSegment(marker, payload) {
				continue
			}

			if _, err := bw.Write([]byte{0xff, marker}); err != nil {
				return err
			}
			if _, err := bw.Write(lenBuf); err != nil {
				return err
			}
			if _, err := bw.Write(payload); err != nil {
				return err
			}
			continue
		}

		if _, err := bw.Write([]byte{0xff, marker}); err != nil {
			return err
		}
		if _, err := bw.Write(lenBuf); err != nil {
			return err
		}
		if _, err := io.CopyN(bw, br, int64(payloadLen)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func nextJPEGMarker(br *bufio.Reader) (byte, error) {
	b, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	for b != 0xff {
		b, err = br.ReadByte()
		if err != nil {
			return 0, err
		}
	}

	marker, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	for marker == 0xff {
		marker, err = br.ReadByte()
		if err != nil {
			return 0, err
		}
	}
	return marker, nil
}

func readJPEGSegmentLength(br *bufio.Reader) (int, []byte, error) {
	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(br, lenBuf); err != nil {
		return 0, nil, err
	}
	segLen := int(binary.BigEndian.Uint16(lenBuf))
	if segLen < 2 {
		return 0, nil, fmt.Errorf("invalid JPEG segment length")
	}
	return segLen - 2, lenBuf, nil
}

func shouldDropJPEGSegment(marker byte, payload []byte) bool {
	switch marker {
	case markerAPP1:
		return bytes.HasPrefix(payload, jpegExifHeader) ||
			bytes.HasPrefix(payload, jpegXmpHeader) ||
			bytes.HasPrefix(payload, jpegExtendedXmpHeader)
	case markerAPP2:
		return bytes.HasPrefix(payload, jpegICCHeader)
	case markerAPPD:
		return bytes.HasPrefix(payload, jpegPhotoshopHeader)
	}
	return false
}

func writeOrientationAPP1(w io.Writer, orientation uint16) error {
	payload := append(append([]byte{}, jpegExifHeader...), orientationTIFF(orientation)...)
	if _, err := w.Write([]byte{0xff, markerAPP1}); err != nil {
		return err
	}
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(payload)+2))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
