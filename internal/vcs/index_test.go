package vcs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIndexSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index")

	idx := newIndex()
	idx.Set(IndexEntry{Path: "b.txt", Hash: "hb", Mode: RegularFileMode})
	idx.Set(IndexEntry{Path: "a.txt", Hash: "ha", Mode: RegularFileMode})
	if err := idx.save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := loadIndex(path)
	if err != nil {
		t.Fatalf("loadIndex: %v", err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded.Entries))
	}
	if loaded.Entries["a.txt"].Hash != "ha" || loaded.Entries["b.txt"].Hash != "hb" {
		t.Fatalf("entries did not round-trip: %+v", loaded.Entries)
	}
}

func TestLoadIndexMissingFileIsEmpty(t *testing.T) {
	idx, err := loadIndex(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected no error for a missing index file, got %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Fatalf("expected an empty index, got %+v", idx.Entries)
	}
}

func TestIndexToTree(t *testing.T) {
	idx := newIndex()
	idx.Set(IndexEntry{Path: "a", Hash: "ha", Mode: RegularFileMode})
	tree := idx.ToTree()
	if len(tree) != 1 || !tree["a"].IsFile || tree["a"].Hash != "ha" {
		t.Fatalf("unexpected tree from index: %+v", tree)
	}
}

func TestClassifyFile(t *testing.T) {
	workRoot := t.TempDir()
	idx := newIndex()

	if err := os.WriteFile(filepath.Join(workRoot, "tracked-clean"), []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}
	idx.Set(IndexEntry{Path: "tracked-clean", Hash: hashBytes([]byte("same")), Mode: RegularFileMode})

	if err := os.WriteFile(filepath.Join(workRoot, "tracked-mod"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	idx.Set(IndexEntry{Path: "tracked-mod", Hash: hashBytes([]byte("old")), Mode: RegularFileMode})

	idx.Set(IndexEntry{Path: "tracked-missing", Hash: hashBytes([]byte("gone")), Mode: RegularFileMode})

	if err := os.WriteFile(filepath.Join(workRoot, "untracked"), []byte("new-file"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		path string
		want FileState
	}{
		{"tracked-clean", StateClean},
		{"tracked-mod", StateModified},
		{"tracked-missing", StateMissing},
		{"untracked", StateUntracked},
	}
	for _, c := range cases {
		got, err := ClassifyFile(workRoot, idx, c.path)
		if err != nil {
			t.Fatalf("ClassifyFile(%s): %v", c.path, err)
		}
		if got != c.want {
			t.Errorf("ClassifyFile(%s) = %v, want %v", c.path, got, c.want)
		}
	}
}
