package vcs

import (
	"errors"
	"fmt"
	"time"
)

// StatusEntry is one path's classification for `status`.
type StatusEntry struct {
	Path  string
	State FileState
}

// Status reports every tracked path's state plus every untracked file
// currently on disk, sorted by path.
func (r *Repository) Status() ([]StatusEntry, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return nil, err
	}
	paths, err := ScanWorkingTree(r.WorkRoot, r.MetaRoot)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(paths))
	var entries []StatusEntry
	for _, p := range paths {
		seen[p] = true
		state, err := ClassifyFile(r.WorkRoot, idx, p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, StatusEntry{Path: p, State: state})
	}
	for p := range idx.Entries {
		if !seen[p] {
			entries = append(entries, StatusEntry{Path: p, State: StateMissing})
		}
	}
	sortStatusEntries(entries)
	return entries, nil
}

func sortStatusEntries(entries []StatusEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].Path > entries[j].Path; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

// Add stages path: it reads the file's current content, stores it as a
// blob, and records the resulting entry in the index.
func (r *Repository) Add(path string) error {
	idx, err := r.LoadIndex()
	if err != nil {
		return err
	}
	data, err := readWorkingFile(r.WorkRoot, path)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	h, err := r.Store.StoreBlob(data)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	idx.Set(IndexEntry{Path: path, Hash: h, Mode: RegularFileMode})
	return r.SaveIndex(idx)
}

// AddAll stages every file currently on disk (the working-tree scan),
// matching `add .`.
func (r *Repository) AddAll() error {
	paths, err := ScanWorkingTree(r.WorkRoot, r.MetaRoot)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := r.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Commit builds a tree from the current index, creates a commit whose
// parent is HEAD's current commit (ZeroHash for a root commit), stores
// it, and advances the current branch (or detached HEAD) to point at it.
// It refuses an empty commit: an identical tree to the parent's is a
// no-op, reported as ErrInvalidArgument.
func (r *Repository) Commit(author, message string) (Hash, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return "", err
	}
	tree := idx.ToTree()
	treeHash, err := r.Store.StoreTree(tree)
	if err != nil {
		return "", err
	}

	parent, err := r.Refs.ResolveHead()
	if err != nil {
		if !isErrNotFound(err) {
			return "", err
		}
		parent = ZeroHash
	}

	if parent != ZeroHash {
		parentCommit, err := r.Store.LoadCommit(parent)
		if err != nil {
			return "", err
		}
		if parentCommit.Tree == treeHash {
			return "", fmt.Errorf("%w: nothing to commit, working tree matches HEAD", ErrInvalidArgument)
		}
	}

	c := Commit{
		Tree:      treeHash,
		Parent:    parent,
		Author:    author,
		Message:   message,
		Timestamp: time.Now(),
	}
	c.Hash = hashBytes(commitIdentityBytes(c.Tree, c.Parent, c.Author, c.Message))
	if _, err := r.Store.StoreCommit(c); err != nil {
		return "", err
	}

	symbolic, branch, _, err := r.Refs.HeadTarget()
	if err != nil {
		return "", err
	}
	if symbolic {
		if err := r.Refs.WriteBranch(branch, c.Hash); err != nil {
			return "", err
		}
	} else {
		if err := r.Refs.SetHeadDetached(c.Hash); err != nil {
			return "", err
		}
	}
	return c.Hash, nil
}

func isErrNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// Log returns the commit history reachable from HEAD, most recent first.
func (r *Repository) Log() ([]Commit, error) {
	head, err := r.Refs.ResolveHead()
	if err != nil {
		if isErrNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var commits []Commit
	err = WalkHistory(r.Store, head, func(c Commit) bool {
		commits = append(commits, c)
		return true
	})
	return commits, err
}

// CreateBranch points a new branch name at HEAD's current commit.
func (r *Repository) CreateBranch(name string) error {
	if _, err := r.Refs.ReadBranch(name); err == nil {
		return fmt.Errorf("%w: branch %q", ErrAlreadyExists, name)
	}
	head, err := r.Refs.ResolveHead()
	if err != nil {
		return err
	}
	return r.Refs.WriteBranch(name, head)
}

// ListBranches returns every local branch name, sorted.
func (r *Repository) ListBranches() ([]string, error) {
	return r.Refs.ListBranches()
}

// Checkout switches the working tree and HEAD to target (a branch name
// or a commit hash).
func (r *Repository) Checkout(target string) error {
	return CheckoutTarget(r.Store, r.Refs, r.WorkRoot, target)
}

// DiffWorkingTree renders the unified patch between the index and the
// current on-disk content for paths (or every staged path, if paths is
// empty), matching the bare `diff [files…]` CLI surface of spec.md §6.
// An explicitly named path that is untracked is diffed against an empty
// "old" side; an untracked path is otherwise silently skipped when no
// paths are given, matching the convention that a bare diff reports
// changes to what is already staged.
func (r *Repository) DiffWorkingTree(paths []string) (string, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return "", err
	}
	explicit := len(paths) > 0
	if !explicit {
		paths = idx.SortedPaths()
	}

	var out string
	for _, path := range paths {
		entry, tracked := idx.Entries[path]
		data, err := readWorkingFile(r.WorkRoot, path)
		missing := err != nil && isErrNotFound(err)
		if err != nil && !missing {
			return "", err
		}

		switch {
		case tracked && missing:
			oldData, lerr := r.Store.LoadBlob(entry.Hash)
			if lerr != nil {
				return "", lerr
			}
			out += DeletedFileDiff(path, entry.Hash, entry.Mode, oldData)
		case tracked && !missing:
			newHash := hashBytes(data)
			if newHash == entry.Hash {
				continue
			}
			oldData, lerr := r.Store.LoadBlob(entry.Hash)
			if lerr != nil {
				return "", lerr
			}
			out += UnifiedPatch(path, entry.Hash, newHash, entry.Mode, oldData, data)
		case !tracked && !missing && explicit:
			newHash := hashBytes(data)
			out += UnifiedPatch(path, ZeroHash, newHash, RegularFileMode, nil, data)
		}
	}
	return out, nil
}

// Diff renders the unified patch between two trees' versions of every
// path touched by either side.
func (r *Repository) Diff(oldTree, newTree Tree) (string, error) {
	var out string
	paths := unionPaths(oldTree, newTree)
	for _, path := range paths {
		oldEntry, hasOld := oldTree[path]
		newEntry, hasNew := newTree[path]

		switch {
		case hasOld && !hasNew:
			data, err := r.Store.LoadBlob(oldEntry.Hash)
			if err != nil {
				return "", err
			}
			out += DeletedFileDiff(path, oldEntry.Hash, oldEntry.Mode, data)
		case !hasOld && hasNew:
			data, err := r.Store.LoadBlob(newEntry.Hash)
			if err != nil {
				return "", err
			}
			out += UnifiedPatch(path, ZeroHash, newEntry.Hash, newEntry.Mode, nil, data)
		case hasOld && hasNew && oldEntry.Hash != newEntry.Hash:
			oldData, err := r.Store.LoadBlob(oldEntry.Hash)
			if err != nil {
				return "", err
			}
			newData, err := r.Store.LoadBlob(newEntry.Hash)
			if err != nil {
				return "", err
			}
			out += UnifiedPatch(path, oldEntry.Hash, newEntry.Hash, newEntry.Mode, oldData, newData)
		}
	}
	return out, nil
}

func unionPaths(a, b Tree) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var paths []string
	for _, p := range a.SortedPaths() {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, p := range b.SortedPaths() {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sortStrings(paths)
	return paths
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// mergeCommitMessage names the merged-in tip, since a Commit only ever
// records one parent.
func mergeCommitMessage(base string, theirs Hash) string {
	if base != "" {
		return base
	}
	return fmt.Sprintf("Merge commit %s", theirs.Short())
}

// MergeCommits three-way-merges ours and theirs (finding their nearest
// common ancestor as base), stores the merged tree, and commits it with
// ours as the recorded parent. It returns the new commit's hash and the
// list of conflicting paths (the merge always completes; conflicts are
// reported, not fatal, per spec.md §4.H).
func MergeCommits(store *ObjectStore, ours, theirs Hash, author, message string) (Hash, []MergeConflict, error) {
	baseHash, found, err := FindCommonAncestor(store, ours, theirs)
	if err != nil {
		return "", nil, err
	}
	var baseTree Tree
	if found {
		baseCommit, err := store.LoadCommit(baseHash)
		if err != nil {
			return "", nil, err
		}
		baseTree, err = store.LoadTree(baseCommit.Tree)
		if err != nil {
			return "", nil, err
		}
	}

	oursCommit, err := store.LoadCommit(ours)
	if err != nil {
		return "", nil, err
	}
	theirsCommit, err := store.LoadCommit(theirs)
	if err != nil {
		return "", nil, err
	}
	oursTree, err := store.LoadTree(oursCommit.Tree)
	if err != nil {
		return "", nil, err
	}
	theirsTree, err := store.LoadTree(theirsCommit.Tree)
	if err != nil {
		return "", nil, err
	}

	mergedTree, conflicts := ThreeWayMergeTree(baseTree, oursTree, theirsTree)
	mergedTreeHash, err := store.StoreTree(mergedTree)
	if err != nil {
		return "", nil, err
	}

	c := Commit{
		Tree:      mergedTreeHash,
		Parent:    ours,
		Author:    author,
		Message:   mergeCommitMessage(message, theirs),
		Timestamp: time.Now(),
	}
	c.Hash = hashBytes(commitIdentityBytes(c.Tree, c.Parent, c.Author, c.Message))
	if _, err := store.StoreCommit(c); err != nil {
		return "", nil, err
	}
	return c.Hash, conflicts, nil
}

// Merge merges branchName into the current branch, fast-forwarding
// instead of creating a merge commit when the current tip is an
// ancestor of branchName's tip.
func (r *Repository) Merge(branchName, author string) (fastForward bool, conflicts []MergeConflict, err error) {
	theirs, err := r.Refs.ReadBranch(branchName)
	if err != nil {
		return false, nil, fmt.Errorf("merge: branch %q: %w", branchName, err)
	}
	symbolic, currentBranch, _, err := r.Refs.HeadTarget()
	if err != nil {
		return false, nil, err
	}
	if !symbolic {
		return false, nil, fmt.Errorf("%w: cannot merge with a detached HEAD", ErrInvalidArgument)
	}
	if branchName == currentBranch {
		return false, nil, fmt.Errorf("%w: cannot merge branch %q into itself", ErrInvalidArgument, branchName)
	}
	ours, err := r.Refs.ResolveHead()
	if err != nil {
		return false, nil, err
	}

	isFF, err := IsAncestor(r.Store, ours, theirs)
	if err != nil {
		return false, nil, err
	}
	if isFF {
		if err := r.Refs.WriteBranch(currentBranch, theirs); err != nil {
			return false, nil, err
		}
		if err := r.checkoutBranchTip(currentBranch, theirs); err != nil {
			return false, nil, err
		}
		return true, nil, nil
	}

	mergedHash, conflicts, err := MergeCommits(r.Store, ours, theirs, author,
		fmt.Sprintf("Merge branch '%s'", branchName))
	if err != nil {
		return false, nil, err
	}
	if err := r.Refs.WriteBranch(currentBranch, mergedHash); err != nil {
		return false, nil, err
	}
	if err := r.checkoutBranchTip(currentBranch, mergedHash); err != nil {
		return false, nil, err
	}
	return false, conflicts, nil
}

// StashPush snapshots the index and working tree, records the snapshot
// at the front of the stash list, then resets the working tree back to
// HEAD's committed content, discarding the staged and unstaged changes
// it just captured.
func (r *Repository) StashPush(message string) error {
	idx, err := r.LoadIndex()
	if err != nil {
		return err
	}
	indexTreeHash, err := r.Store.StoreTree(idx.ToTree())
	if err != nil {
		return err
	}
	workingTree, err := buildWorkingTreeSnapshot(r.Store, r.WorkRoot, r.MetaRoot)
	if err != nil {
		return err
	}
	workingTreeHash, err := r.Store.StoreTree(workingTree)
	if err != nil {
		return err
	}

	head, err := r.Refs.ResolveHead()
	if err != nil && !isErrNotFound(err) {
		return err
	}

	entries, err := loadStashList(r.stashPath())
	if err != nil {
		return err
	}
	entry := StashEntry{
		Message:      message,
		CommitHash:   head,
		ParentCommit: head,
		IndexTree:    indexTreeHash,
		WorkingTree:  workingTreeHash,
		Timestamp:    time.Now(),
	}
	entries = append([]StashEntry{entry}, entries...)
	if err := saveStashList(r.stashPath(), entries); err != nil {
		return err
	}

	if head == ZeroHash {
		if err := clearWorkingTree(r.WorkRoot, r.MetaRoot); err != nil {
			return err
		}
		return newIndex().save(r.indexPath())
	}
	headCommit, err := r.Store.LoadCommit(head)
	if err != nil {
		return err
	}
	headTree, err := r.Store.LoadTree(headCommit.Tree)
	if err != nil {
		return err
	}
	if err := ClearAndMaterializeTree(r.Store, r.WorkRoot, r.MetaRoot, headTree); err != nil {
		return err
	}
	return newIndex().save(r.indexPath())
}

// StashPop restores the most recent stash entry's index and working tree
// and removes it from the list.
func (r *Repository) StashPop() error {
	entries, err := loadStashList(r.stashPath())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no stash entries", ErrNotFound)
	}
	entry := entries[0]

	workingTree, err := r.Store.LoadTree(entry.WorkingTree)
	if err != nil {
		return err
	}
	if err := ClearAndMaterializeTree(r.Store, r.WorkRoot, r.MetaRoot, workingTree); err != nil {
		return err
	}

	indexTree, err := r.Store.LoadTree(entry.IndexTree)
	if err != nil {
		return err
	}
	idx := newIndex()
	for path, e := range indexTree {
		idx.Set(IndexEntry{Path: path, Hash: e.Hash, Mode: e.Mode})
	}
	if err := r.SaveIndex(idx); err != nil {
		return err
	}

	return saveStashList(r.stashPath(), entries[1:])
}

// StashList returns every stash entry, most recent first.
func (r *Repository) StashList() ([]StashEntry, error) {
	return loadStashList(r.stashPath())
}

// StashDrop removes the stash entry at n (0 = most recent) without
// applying it.
func (r *Repository) StashDrop(n int) error {
	entries, err := loadStashList(r.stashPath())
	if err != nil {
		return err
	}
	if n < 0 || n >= len(entries) {
		return stashIndexOutOfRange(n, len(entries))
	}
	entries = append(entries[:n], entries[n+1:]...)
	return saveStashList(r.stashPath(), entries)
}

// Clone copies an existing local repository at srcWorkRoot wholesale
// into a fresh repository at dstWorkRoot: every object, every branch
// ref, and the source's current HEAD target, then checks out HEAD.
func Clone(srcWorkRoot, dstWorkRoot string) (*Repository, error) {
	src, err := Open(srcWorkRoot)
	if err != nil {
		return nil, fmt.Errorf("clone: source: %w", err)
	}
	dst, err := Init(dstWorkRoot)
	if err != nil {
		return nil, fmt.Errorf("clone: destination: %w", err)
	}

	if err := copyObjects(src.Store, dst.Store); err != nil {
		return nil, fmt.Errorf("clone: copying objects: %w", err)
	}

	branches, err := src.Refs.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("clone: listing branches: %w", err)
	}
	for _, b := range branches {
		h, err := src.Refs.ReadBranch(b)
		if err != nil {
			return nil, fmt.Errorf("clone: reading branch %q: %w", b, err)
		}
		if err := dst.Refs.WriteBranch(b, h); err != nil {
			return nil, fmt.Errorf("clone: writing branch %q: %w", b, err)
		}
	}

	if err := dst.AddRemote("origin", srcWorkRoot); err != nil {
		return nil, fmt.Errorf("clone: recording origin: %w", err)
	}

	symbolic, branch, hash, err := src.Refs.HeadTarget()
	if err != nil {
		return nil, fmt.Errorf("clone: reading source HEAD: %w", err)
	}
	if symbolic {
		if _, err := dst.Refs.ReadBranch(branch); err != nil {
			return dst, nil // unborn branch: nothing to check out yet
		}
		if err := dst.Checkout(branch); err != nil {
			return nil, fmt.Errorf("clone: checkout: %w", err)
		}
	} else if hash != ZeroHash {
		if err := dst.Checkout(string(hash)); err != nil {
			return nil, fmt.Errorf("clone: checkout: %w", err)
		}
	}
	return dst, nil
}
