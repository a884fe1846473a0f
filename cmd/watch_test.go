package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/document"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/metadata"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/sanitize"
)

func testPipeline(t *testing.T) *pipeline {
	t.Helper()

	store := document.NewFSStore()
	staging := document.NewStagingAt(filepath.Join(t.TempDir(), "staging"))
	resolver := document.NewResolver(store, staging)
	return &pipeline{
		store:        store,
		staging:      staging,
		resolver:     resolver,
		orchestrator: sanitize.NewOrchestrator(resolver, metadata.NewEngine()),
	}
}

// A sanitized copy with a re-embedded orientation block lands in the watched
// directory and is itself metadata-present; its watch event must be skipped
// or the watcher re-sanitizes its own outputs without end.
func TestWatchSkipsOwnOutput(t *testing.T) {
	p := testPipeline(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(src, jpegWithOrientation(t), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	produced := make(producedSet)
	watchSanitize(context.Background(), p, src, sanitize.Options{PreserveOrientation: true}, produced)

	out := filepath.Join(dir, "photo (1).jpg")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected sanitized copy beside the source: %v", err)
	}

	if !produced.skip(out) {
		t.Fatal("own output must be remembered and skipped")
	}
	if produced.skip(out) {
		t.Fatal("skip is one-shot; a later external rewrite is processed again")
	}
	if produced.skip(src) {
		t.Fatal("the source itself is never skipped")
	}
}

func jpegWithOrientation(t *testing.T) []byte {
	t.Helper()

	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(6))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))

	exif := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(exif)+2))
	buf.Write(exif)
	buf.Write([]byte{0xff, 0xdb})
	_ = binary.Write(&buf, binary.BigEndian, uint16(66))
	buf.Write(make([]byte, 64))
	buf.Write([]byte{0xff, 0xd9})
	return buf.Bytes()
}
