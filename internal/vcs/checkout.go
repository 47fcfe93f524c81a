package vcs

import "fmt"

// ResolveTarget turns a checkout/restore target into a commit hash: a
// branch name resolves to its tip, anything else is parsed as a hash.
// isBranch reports which of the two it was, so the caller can decide
// whether HEAD should become symbolic or detached.
func ResolveTarget(refs *RefStore, target string) (hash Hash, isBranch bool, err error) {
	if h, err := refs.ReadBranch(target); err == nil {
		return h, true, nil
	}
	h, err := ParseHash(target)
	if err != nil {
		return "", false, fmt.Errorf("%w: %q is neither a branch nor a valid hash", ErrNotFound, target)
	}
	return h, false, nil
}

// MaterializeTree writes every file entry of tree into workRoot, creating
// parent directories as needed. It does not remove files absent from
// tree — see ClearAndMaterializeTree for the higher-safety variant.
func MaterializeTree(store *ObjectStore, workRoot string, tree Tree) error {
	for _, path := range tree.SortedPaths() {
		e := tree[path]
		if !e.IsFile {
			continue
		}
		data, err := store.LoadBlob(e.Hash)
		if err != nil {
			return fmt.Errorf("checkout: load blob for %s: %w", path, err)
		}
		if err := writeWorkingFile(workRoot, path, data); err != nil {
			return fmt.Errorf("checkout: write %s: %w", path, err)
		}
	}
	return nil
}

// ClearAndMaterializeTree clears workRoot (except metaRoot) before
// writing tree, the higher-safety variant spec.md §4.I reserves for the
// push-side remote update and for stash push/pop.
func ClearAndMaterializeTree(store *ObjectStore, workRoot, metaRoot string, tree Tree) error {
	if err := clearWorkingTree(workRoot, metaRoot); err != nil {
		return fmt.Errorf("checkout: clear working tree: %w", err)
	}
	return MaterializeTree(store, workRoot, tree)
}

// CheckoutTarget performs a checkout/restore: it resolves target to a
// commit, materializes that commit's tree onto workRoot (without
// deleting files outside the target tree — an intentional limitation,
// see spec.md §9), and updates HEAD to reflect whether target was a
// branch (symbolic) or a raw hash (detached).
func CheckoutTarget(store *ObjectStore, refs *RefStore, workRoot string, target string) error {
	hash, isBranch, err := ResolveTarget(refs, target)
	if err != nil {
		return err
	}
	commit, err := store.LoadCommit(hash)
	if err != nil {
		return fmt.Errorf("checkout: load commit %s: %w", hash, err)
	}
	tree, err := store.LoadTree(commit.Tree)
	if err != nil {
		return fmt.Errorf("checkout: load tree %s: %w", commit.Tree, err)
	}
	if err := MaterializeTree(store, workRoot, tree); err != nil {
		return err
	}

	if isBranch {
		return refs.SetHeadSymbolic(target)
	}
	return refs.SetHeadDetached(hash)
}
