package vcs

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// IndexEntry is one path's staged content: the blob hash that will be
// written into the next commit's tree, and its mode.
type IndexEntry struct {
	Path string
	Hash Hash
	Mode string
}

// Index is the staging area: a mapping from path to IndexEntry, mediating
// between the working tree and the next commit.
type Index struct {
	Entries map[string]IndexEntry
}

func newIndex() *Index {
	return &Index{Entries: make(map[string]IndexEntry)}
}

// loadIndex reads metaRoot/index. A missing file is a valid empty index,
// not an error — matching a freshly initialized repository.
func loadIndex(path string) (*Index, error) {
	idx := newIndex()
	data, err := os.ReadFile(path) //nolint:gosec // fixed path under the repository's meta root
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("io: read index: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: malformed index line %q", ErrCorrupt, line)
		}
		idx.Entries[parts[2]] = IndexEntry{Hash: Hash(parts[0]), Mode: parts[1], Path: parts[2]}
	}
	return idx, nil
}

// save rewrites the index wholesale, sorted by path for a stable diff
// between successive index files.
func (idx *Index) save(path string) error {
	paths := make([]string, 0, len(idx.Entries))
	for p := range idx.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		e := idx.Entries[p]
		fmt.Fprintf(&b, "%s %s %s\n", e.Hash, e.Mode, e.Path)
	}
	return writeRefFile(path, b.String())
}

// Set inserts or replaces the entry for e.Path.
func (idx *Index) Set(e IndexEntry) { idx.Entries[e.Path] = e }

// Remove deletes the entry for path, if present.
func (idx *Index) Remove(path string) { delete(idx.Entries, path) }

// SortedPaths returns every staged path in lexicographic order.
func (idx *Index) SortedPaths() []string {
	paths := make([]string, 0, len(idx.Entries))
	for p := range idx.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ToTree builds the flat Tree the index currently describes, suitable
// for handing to ObjectStore.StoreTree when building the next commit.
func (idx *Index) ToTree() Tree {
	t := make(Tree, len(idx.Entries))
	for path, e := range idx.Entries {
		t[path] = TreeEntry{Path: path, Mode: e.Mode, Hash: e.Hash, IsFile: true}
	}
	return t
}

// FileState classifies a path's three-way relationship between the index
// and the working tree.
type FileState int

const (
	// StateClean: working tree content hashes the same as the index entry.
	StateClean FileState = iota
	// StateModified: working tree content differs from the index entry.
	StateModified
	// StateMissing: indexed, but the working-tree file is gone.
	StateMissing
	// StateUntracked: present on disk, absent from the index.
	StateUntracked
)

// ClassifyFile compares path's on-disk content (if any) against the
// index by recomputing its hash, per spec.md §4.D.
func ClassifyFile(workRoot string, idx *Index, path string) (FileState, error) {
	entry, tracked := idx.Entries[path]

	data, err := readWorkingFile(workRoot, path)
	if err != nil {
		if !tracked {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return StateMissing, nil
	}
	if !tracked {
		return StateUntracked, nil
	}
	if hashBytes(data) == entry.Hash {
		return StateClean, nil
	}
	return StateModified, nil
}
