package vcs

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxDecompressedSize caps the size of any single decompressed object,
// guarding against a truncated or maliciously-crafted zlib stream
// expanding without bound.
const maxDecompressedSize = 256 * 1024 * 1024

// ObjectStore is a content-addressed persistence layer for blobs, trees,
// and commits, rooted at objectsDir (meta_root/objects). It holds no
// cache: every load re-reads and re-decompresses from disk, since an
// in-memory cache here would only ever be a dispensable accelerator (see
// spec.md §9) and this system has no workload that needs one.
type ObjectStore struct {
	objectsDir string
}

// newObjectStore returns a store rooted at objectsDir. It does not
// create the directory; callers create it as part of Init.
func newObjectStore(objectsDir string) *ObjectStore {
	return &ObjectStore{objectsDir: objectsDir}
}

func (s *ObjectStore) pathFor(h Hash) string {
	prefix, rest := h.splitPath()
	return filepath.Join(s.objectsDir, prefix, rest)
}

// writeLoose writes payload under the path derived from h, unless a file
// is already there — object writes are idempotent and immutable (P2):
// a second store of the same hash never rewrites the first file's bytes.
func (s *ObjectStore) writeLoose(h Hash, payload []byte) error {
	path := s.pathFor(h)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", ErrCorrupt, path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("io: mkdir %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-obj-*")
	if err != nil {
		return fmt.Errorf("io: create temp object: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	zw := zlib.NewWriter(tmp)
	if _, err := zw.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("io: compress object: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("io: finalize object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("io: close temp object: %w", err)
	}

	// Atomic rename; if another process raced us to the same hash, its
	// bytes are identical (content-addressed), so the rename is harmless
	// either way.
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("io: install object %s: %w", path, err)
	}
	return nil
}

// readLoose reads and decompresses the object stored at h's path.
func (s *ObjectStore) readLoose(h Hash) ([]byte, error) {
	path := s.pathFor(h)
	f, err := os.Open(path) //nolint:gosec // path derived from a validated content hash
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: object %s", ErrNotFound, h)
		}
		return nil, fmt.Errorf("io: open object %s: %w", h, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: object %s has invalid compressed data: %v", ErrCorrupt, h, err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(zr, maxDecompressedSize+1)); err != nil {
		return nil, fmt.Errorf("%w: object %s failed to decompress: %v", ErrCorrupt, h, err)
	}
	if buf.Len() > maxDecompressedSize {
		return nil, fmt.Errorf("%w: object %s exceeds maximum size", ErrCorrupt, h)
	}
	return buf.Bytes(), nil
}

// Has reports whether an object is present in the store.
func (s *ObjectStore) Has(h Hash) bool {
	_, err := os.Stat(s.pathFor(h))
	return err == nil
}

// StoreBlob persists bytes as a blob and returns its hash. Idempotent.
func (s *ObjectStore) StoreBlob(data []byte) (Hash, error) {
	h := hashBytes(data)
	if err := s.writeLoose(h, data); err != nil {
		return "", err
	}
	return h, nil
}

// LoadBlob returns the raw bytes of the blob stored at h.
func (s *ObjectStore) LoadBlob(h Hash) ([]byte, error) {
	return s.readLoose(h)
}

// StoreTree serializes t via the canonical encoding and persists it.
func (s *ObjectStore) StoreTree(t Tree) (Hash, error) {
	payload := encodeTree(t)
	h := hashBytes(payload)
	if err := s.writeLoose(h, payload); err != nil {
		return "", err
	}
	return h, nil
}

// LoadTree decodes the tree stored at h.
func (s *ObjectStore) LoadTree(h Hash) (Tree, error) {
	data, err := s.readLoose(h)
	if err != nil {
		return nil, err
	}
	return decodeTree(data)
}

// StoreCommit persists a commit's canonical encoding under c.Hash and
// returns c.Hash; it does not recompute the identity hash, so c.Hash must
// already be set from commitIdentityBytes (LoadCommit rejects a commit
// whose fields hash to something else).
func (s *ObjectStore) StoreCommit(c Commit) (Hash, error) {
	payload := encodeCommit(c)
	if err := s.writeLoose(c.Hash, payload); err != nil {
		return "", err
	}
	return c.Hash, nil
}

// LoadCommit decodes the commit stored at h.
func (s *ObjectStore) LoadCommit(h Hash) (Commit, error) {
	data, err := s.readLoose(h)
	if err != nil {
		return Commit{}, err
	}
	c, err := decodeCommit(data)
	if err != nil {
		return Commit{}, err
	}
	if c.Hash != h {
		return Commit{}, fmt.Errorf("%w: commit at %s re-hashes to %s", ErrCorrupt, h, c.Hash)
	}
	return c, nil
}

// WalkObjectFiles calls fn with the path of every loose object file under
// the store, relative to the store's objects directory (e.g. "ab/cdef...").
// Used by remote sync to enumerate what to copy.
func (s *ObjectStore) WalkObjectFiles(fn func(relPath string) error) error {
	entries, err := os.ReadDir(s.objectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, prefixEntry := range entries {
		if !prefixEntry.IsDir() {
			continue
		}
		prefixDir := filepath.Join(s.objectsDir, prefixEntry.Name())
		inner, err := os.ReadDir(prefixDir)
		if err != nil {
			return err
		}
		for _, f := range inner {
			if f.IsDir() {
				continue
			}
			rel := filepath.Join(prefixEntry.Name(), f.Name())
			if err := fn(rel); err != nil {
				return err
			}
		}
	}
	return nil
}
