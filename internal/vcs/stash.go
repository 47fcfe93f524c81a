package vcs

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StashEntry is one stash: a snapshot of both the index and the working
// tree at the time of `stash push`, plus the commit it was taken on top
// of. Persisted as an ordered list, most-recent (index 0) first.
type StashEntry struct {
	Message      string    `json:"message"`
	CommitHash   Hash      `json:"commit_hash"`
	ParentCommit Hash      `json:"parent_commit"`
	IndexTree    Hash      `json:"index_tree"`
	WorkingTree  Hash      `json:"working_tree"`
	Timestamp    time.Time `json:"timestamp"`
}

// loadStashList reads metaRoot/stash, a JSON array, most-recent-first.
// A missing file is an empty list.
func loadStashList(path string) ([]StashEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixed path under the repository's meta root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("io: read stash: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []StashEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: stash: %v", ErrCorrupt, err)
	}
	return entries, nil
}

func saveStashList(path string, entries []StashEntry) error {
	if entries == nil {
		entries = []StashEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("io: encode stash: %w", err)
	}
	return writeRefFile(path, string(data)+"\n")
}

// buildWorkingTreeSnapshot stores every file currently on disk (tracked
// or not) as a blob and returns the flat Tree describing them, for
// `stash push`.
func buildWorkingTreeSnapshot(store *ObjectStore, workRoot, metaRoot string) (Tree, error) {
	paths, err := ScanWorkingTree(workRoot, metaRoot)
	if err != nil {
		return nil, err
	}
	tree := make(Tree, len(paths))
	for _, path := range paths {
		data, err := readWorkingFile(workRoot, path)
		if err != nil {
			return nil, err
		}
		h, err := store.StoreBlob(data)
		if err != nil {
			return nil, err
		}
		tree[path] = TreeEntry{Path: path, Mode: RegularFileMode, Hash: h, IsFile: true}
	}
	return tree, nil
}

// stashIndexOutOfRange reports the standard error for an out-of-bounds
// stash index.
func stashIndexOutOfRange(n, length int) error {
	return fmt.Errorf("%w: stash index %d (have %d entries)", ErrNotFound, n, length)
}
