package state

import (
	"errors"
	"testing"
)

func TestSelectionSingleRoundTrip(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	if err := store.PutSingle("/images/a.jpg", false); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, err := store.Selection(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 1 || items[0].SourceURI != "/images/a.jpg" || items[0].FromCamera {
		t.Fatalf("items = %#v", items)
	}
}

func TestSelectionSingleClearsMulti(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	multi := []SelectionItem{{SourceURI: "/a.jpg"}, {SourceURI: "/b.jpg"}}
	if err := store.PutMulti(multi); err != nil {
		t.Fatalf("put multi: %v", err)
	}
	if err := store.PutSingle("/c.jpg", true); err != nil {
		t.Fatalf("put single: %v", err)
	}

	items, err := store.Selection(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 1 || items[0].SourceURI != "/c.jpg" || !items[0].FromCamera {
		t.Fatalf("items = %#v", items)
	}
}

func TestSelectionMultiClearsSingle(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	if err := store.PutSingle("/c.jpg", false); err != nil {
		t.Fatalf("put single: %v", err)
	}
	multi := []SelectionItem{{SourceURI: "/a.jpg"}, {SourceURI: "/b.jpg"}}
	if err := store.PutMulti(multi); err != nil {
		t.Fatalf("put multi: %v", err)
	}

	items, err := store.Selection(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 2 || items[0].SourceURI != "/a.jpg" {
		t.Fatalf("items = %#v", items)
	}
}

func TestSelectionFromIndex(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	multi := []SelectionItem{{SourceURI: "/a.jpg"}, {SourceURI: "/b.jpg"}, {SourceURI: "/c.jpg"}}
	if err := store.PutMulti(multi); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, err := store.Selection(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 2 || items[0].SourceURI != "/b.jpg" {
		t.Fatalf("items = %#v", items)
	}

	if _, err := store.Selection(3); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("out-of-range index err = %v", err)
	}
}

func TestSelectionEmptyInputs(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	if err := store.PutSingle("", false); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("empty single err = %v", err)
	}
	if err := store.PutMulti(nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("nil multi err = %v", err)
	}
	if err := store.PutMulti([]SelectionItem{{}, {}}); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("all-empty multi err = %v", err)
	}
	if _, err := store.Selection(0); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("no persisted selection err = %v", err)
	}
}

func TestSelectionDropsEmptyURIs(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	if err := store.PutMulti([]SelectionItem{{SourceURI: "/a.jpg"}, {}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	items, err := store.Selection(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %#v", items)
	}
}

func TestSelectionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	if err := NewSelectionStoreAt(dir).PutSingle("/a.jpg", true); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, err := NewSelectionStoreAt(dir).Selection(0)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if len(items) != 1 || !items[0].FromCamera {
		t.Fatalf("items = %#v", items)
	}
}

func TestSelectionClear(t *testing.T) {
	store := NewSelectionStoreAt(t.TempDir())

	if err := store.Clear(); err != nil {
		t.Fatalf("clear without selection: %v", err)
	}
	if err := store.PutSingle("/a.jpg", false); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Selection(0); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err after clear = %v", err)
	}
}

func TestCatalogDefaultOrder(t *testing.T) {
	catalog := NewCatalogAt(t.TempDir())

	order := catalog.Order()
	want := []Source{SourceImageFile, SourceImageFiles, SourceImageDirectory, SourceCamera}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestCatalogPutRoundTrip(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalogAt(dir)

	want := []Source{SourceCamera, SourceImageFile, SourceImageDirectory, SourceImageFiles}
	if err := catalog.Put(want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got := NewCatalogAt(dir).Order()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCatalogPutRejectsInvalid(t *testing.T) {
	catalog := NewCatalogAt(t.TempDir())

	cases := [][]Source{
		{SourceImageFile, SourceImageFiles, SourceImageDirectory},
		{SourceImageFile, SourceImageFile, SourceImageDirectory, SourceCamera},
		{SourceImageFile, SourceImageFiles, SourceImageDirectory, Source(7)},
	}
	for _, order := range cases {
		if err := catalog.Put(order); err == nil {
			t.Errorf("Put(%v) accepted", order)
		}
	}
}

func TestReorder(t *testing.T) {
	order := DefaultOrder()

	updated, err := Reorder(order, 0, 3)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if updated[0] != SourceCamera || updated[3] != SourceImageFile {
		t.Fatalf("updated = %v", updated)
	}
	// Reorder never mutates its input; persistence is a separate Put.
	if order[0] != SourceImageFile {
		t.Fatalf("input mutated: %v", order)
	}

	if _, err := Reorder(order, 0, 4); err == nil {
		t.Fatal("out-of-range reorder accepted")
	}
}
