package vcs

import (
	"fmt"
	"os"
	"path/filepath"
)

// MetaDirName is the fixed child of work_root that holds all repository
// metadata, per spec.md §3.
const MetaDirName = ".mini_git"

// DefaultBranch is the branch name a fresh repository's HEAD points at.
const DefaultBranch = "main"

// Repository is the (work_root, meta_root) pair every component receives
// by borrow; it holds no cached state of its own beyond the paths and
// the stateless component handles.
type Repository struct {
	WorkRoot string
	MetaRoot string

	Store *ObjectStore
	Refs  *RefStore
}

func metaRootFor(workRoot string) string {
	return filepath.Join(workRoot, MetaDirName)
}

func newRepository(workRoot string) *Repository {
	meta := metaRootFor(workRoot)
	return &Repository{
		WorkRoot: workRoot,
		MetaRoot: meta,
		Store:    newObjectStore(filepath.Join(meta, "objects")),
		Refs:     newRefStore(meta),
	}
}

// Init creates a new repository rooted at workRoot. It fails with
// ErrAlreadyExists if workRoot already contains a meta root.
func Init(workRoot string) (*Repository, error) {
	meta := metaRootFor(workRoot)
	if _, err := os.Stat(meta); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, meta)
	}

	dirs := []string{
		meta,
		filepath.Join(meta, "objects"),
		filepath.Join(meta, "refs", "heads"),
		filepath.Join(meta, "refs", "remotes"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("io: init %s: %w", d, err)
		}
	}

	repo := newRepository(workRoot)
	if err := repo.Refs.SetHeadSymbolic(DefaultBranch); err != nil {
		return nil, err
	}
	if err := newConfig().save(filepath.Join(meta, "config")); err != nil {
		return nil, err
	}
	if err := newIndex().save(filepath.Join(meta, "index")); err != nil {
		return nil, err
	}
	return repo, nil
}

// Open returns a Repository for an existing meta root at workRoot.
func Open(workRoot string) (*Repository, error) {
	meta := metaRootFor(workRoot)
	if info, err := os.Stat(meta); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, workRoot)
	}
	return newRepository(workRoot), nil
}

// Discover walks upward from startPath looking for a meta root, the way
// a user invoking a subcommand from inside a subdirectory expects.
func Discover(startPath string) (*Repository, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("io: resolve %s: %w", startPath, err)
	}

	cur := abs
	for {
		if info, err := os.Stat(metaRootFor(cur)); err == nil && info.IsDir() {
			return newRepository(cur), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("%w: %s (or any parent directory)", ErrNotARepository, startPath)
		}
		cur = parent
	}
}

func (r *Repository) indexPath() string  { return filepath.Join(r.MetaRoot, "index") }
func (r *Repository) stashPath() string  { return filepath.Join(r.MetaRoot, "stash") }
func (r *Repository) configPath() string { return filepath.Join(r.MetaRoot, "config") }

// LoadIndex reads the current staging area.
func (r *Repository) LoadIndex() (*Index, error) {
	return loadIndex(r.indexPath())
}

// SaveIndex rewrites the staging area wholesale.
func (r *Repository) SaveIndex(idx *Index) error {
	return idx.save(r.indexPath())
}

// LoadConfig reads meta_root/config.
func (r *Repository) LoadConfig() (*Config, error) {
	return loadConfig(r.configPath())
}

// SaveConfig rewrites meta_root/config wholesale.
func (r *Repository) SaveConfig(cfg *Config) error {
	return cfg.save(r.configPath())
}
