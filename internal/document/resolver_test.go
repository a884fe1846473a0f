package document

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()

	stagingRoot := filepath.Join(t.TempDir(), "staging")
	return NewResolver(NewFSStore(), NewStagingAt(stagingRoot)), stagingRoot
}

func TestDisplayNameAndMime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, path)

	resolver, _ := newTestResolver(t)
	info, err := resolver.DisplayNameAndMime(path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info.DisplayName != "photo.jpg" {
		t.Fatalf("display name = %q", info.DisplayName)
	}
	if info.MimeType != "image/jpeg" {
		t.Fatalf("mime type = %q", info.MimeType)
	}
}

func TestDisplayNameAndMimeMissing(t *testing.T) {
	resolver, _ := newTestResolver(t)
	_, err := resolver.DisplayNameAndMime(filepath.Join(t.TempDir(), "gone.jpg"))
	if !errors.Is(err, ErrResolutionFailure) {
		t.Fatalf("err = %v, want ErrResolutionFailure", err)
	}
}

func TestChildrenFiltersSupported(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeJPEG(t, filepath.Join(dir, "nested", "b.jpg"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver, _ := newTestResolver(t)
	children, err := resolver.Children(dir)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2: %v", len(children), children)
	}
}

func TestChildrenEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver, _ := newTestResolver(t)
	_, err := resolver.Children(dir)
	if !errors.Is(err, ErrEmptyDirectory) {
		t.Fatalf("err = %v, want ErrEmptyDirectory", err)
	}
}

func TestChildrenMissingTree(t *testing.T) {
	resolver, _ := newTestResolver(t)
	_, err := resolver.Children(filepath.Join(t.TempDir(), "gone"))
	if !errors.Is(err, ErrResolutionFailure) {
		t.Fatalf("err = %v, want ErrResolutionFailure", err)
	}
}

func TestCreateDocumentDedupes(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore()

	first, err := store.CreateDocument(dir, "image/jpeg", "photo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(first) != "photo.jpg" {
		t.Fatalf("first = %q", first)
	}

	second, err := store.CreateDocument(dir, "image/jpeg", "photo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(second) != "photo (1).jpg" {
		t.Fatalf("second = %q", second)
	}
}

func TestCreateDestinationPrefersDefaultTree(t *testing.T) {
	srcDir := t.TempDir()
	dest := t.TempDir()
	src := filepath.Join(srcDir, "photo.jpg")
	writeJPEG(t, src)

	resolver, _ := newTestResolver(t)
	uri, err := resolver.CreateDestination(src, dest, "photo", "image/jpeg")
	if err != nil {
		t.Fatalf("create destination: %v", err)
	}
	if filepath.Dir(uri) != dest {
		t.Fatalf("destination %q not in default tree", uri)
	}
}

func TestCreateDestinationUsesParentWithoutTree(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "photo.jpg")
	writeJPEG(t, src)

	resolver, _ := newTestResolver(t)
	uri, err := resolver.CreateDestination(src, "", "photo", "image/jpeg")
	if err != nil {
		t.Fatalf("create destination: %v", err)
	}
	if filepath.Dir(uri) != srcDir {
		t.Fatalf("destination %q not beside source", uri)
	}
}

func TestCreateDestinationFallsBackToStaging(t *testing.T) {
	// Source whose parent does not exist forces the cache fallback.
	src := filepath.Join(t.TempDir(), "gone", "photo.jpg")

	resolver, stagingRoot := newTestResolver(t)
	uri, err := resolver.CreateDestination(src, "", "photo", "image/jpeg")
	if err != nil {
		t.Fatalf("create destination: %v", err)
	}
	if filepath.Dir(uri) != stagingRoot {
		t.Fatalf("destination %q not in staging area", uri)
	}
	if filepath.Base(uri) != "photo-modified.jpg" {
		t.Fatalf("staged destination %q missing modified marker", uri)
	}
}

func TestStagedSourcesSkipDefaultTree(t *testing.T) {
	dest := t.TempDir()
	resolver, stagingRoot := newTestResolver(t)

	if err := os.MkdirAll(stagingRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(stagingRoot, "capture.jpg")
	writeJPEG(t, src)

	uri, err := resolver.CreateDestination(src, dest, "capture", "image/jpeg")
	if err != nil {
		t.Fatalf("create destination: %v", err)
	}
	if filepath.Dir(uri) == dest {
		t.Fatal("staged source must not resolve into the default tree")
	}
}

func TestDeleteOriginalBestEffort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, path)

	resolver, _ := newTestResolver(t)
	if !resolver.DeleteOriginal(path) {
		t.Fatal("expected delete to succeed")
	}
	if resolver.DeleteOriginal(path) {
		t.Fatal("second delete should report failure")
	}
}

func TestStagingContains(t *testing.T) {
	root := t.TempDir()
	staging := NewStagingAt(root)

	if !staging.Contains(filepath.Join(root, "a.jpg")) {
		t.Fatal("file in staging not recognized")
	}
	if !staging.Contains(filepath.Join(root, "sub", "a.jpg")) {
		t.Fatal("nested file in staging not recognized")
	}
	if staging.Contains(filepath.Join(filepath.Dir(root), "outside.jpg")) {
		t.Fatal("file outside staging recognized")
	}
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	buf.Write([]byte{0xff, 0xdb})
	_ = binary.Write(&buf, binary.BigEndian, uint16(66))
	buf.Write(make([]byte, 64))
	buf.Write([]byte{0xff, 0xd9})

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
