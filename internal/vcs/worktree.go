package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanWorkingTree enumerates every regular file under workRoot, excluding
// any path whose prefix is metaRoot, and returns POSIX-normalized paths
// relative to workRoot in sorted order. On platforms whose path
// separator is not "/", paths are converted with filepath.ToSlash.
func ScanWorkingTree(workRoot, metaRoot string) ([]string, error) {
	var paths []string

	err := filepath.Walk(workRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == metaRoot || strings.HasPrefix(path, metaRoot+string(filepath.Separator)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(workRoot, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("io: scan working tree: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// readWorkingFile reads path (relative, forward-slash) under workRoot.
func readWorkingFile(workRoot, path string) ([]byte, error) {
	full := filepath.Join(workRoot, filepath.FromSlash(path))
	data, err := os.ReadFile(full) //nolint:gosec // path is validated/normalized by callers before reaching here
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("io: read %s: %w", path, err)
	}
	return data, nil
}

// writeWorkingFile writes data to path under workRoot, creating parent
// directories as needed.
func writeWorkingFile(workRoot, path string, data []byte) error {
	full := filepath.Join(workRoot, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("io: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("io: write %s: %w", path, err)
	}
	return nil
}

// clearWorkingTree removes every file and now-empty directory under
// workRoot except metaRoot, used by the higher-safety checkout variants
// (push-side remote update and stash push/pop).
func clearWorkingTree(workRoot, metaRoot string) error {
	entries, err := os.ReadDir(workRoot)
	if err != nil {
		return fmt.Errorf("io: read working root: %w", err)
	}
	for _, e := range entries {
		full := filepath.Join(workRoot, e.Name())
		if full == metaRoot {
			continue
		}
		if err := os.RemoveAll(full); err != nil {
			return fmt.Errorf("io: clear %s: %w", full, err)
		}
	}
	return nil
}
