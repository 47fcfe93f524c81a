package vcs

import "fmt"

// IsAncestor reports whether a is reachable by walking parent pointers
// from d, inclusive of d itself. Because commits are single-parent, this
// walk is a straight line, not a graph traversal.
func IsAncestor(store *ObjectStore, a, d Hash) (bool, error) {
	cur := d
	for cur != ZeroHash {
		if cur == a {
			return true, nil
		}
		c, err := store.LoadCommit(cur)
		if err != nil {
			return false, fmt.Errorf("is_ancestor: walking from %s: %w", d, err)
		}
		cur = c.Parent
	}
	return false, nil
}

// ancestorSet collects every commit reachable by walking parent pointers
// from start, inclusive.
func ancestorSet(store *ObjectStore, start Hash) (map[Hash]bool, error) {
	set := make(map[Hash]bool)
	cur := start
	for cur != ZeroHash {
		set[cur] = true
		c, err := store.LoadCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("ancestor walk from %s: %w", start, err)
		}
		cur = c.Parent
	}
	return set, nil
}

// FindCommonAncestor returns the lowest common ancestor of x and y. Since
// history here is strictly single-parent, the two ancestries are linear
// chains and any shared commit is *the* unique common ancestor nearest
// both tips; found is false if the histories never meet (e.g. they come
// from unrelated root commits).
func FindCommonAncestor(store *ObjectStore, x, y Hash) (ancestor Hash, found bool, err error) {
	xAncestors, err := ancestorSet(store, x)
	if err != nil {
		return "", false, err
	}

	cur := y
	for cur != ZeroHash {
		if xAncestors[cur] {
			return cur, true, nil
		}
		c, err := store.LoadCommit(cur)
		if err != nil {
			return "", false, fmt.Errorf("lca walk from %s: %w", y, err)
		}
		cur = c.Parent
	}
	return "", false, nil
}

// WalkHistory calls fn with every commit reachable from start, in
// parent-chain order (start first), stopping early if fn returns false.
func WalkHistory(store *ObjectStore, start Hash, fn func(Commit) bool) error {
	cur := start
	for cur != ZeroHash {
		c, err := store.LoadCommit(cur)
		if err != nil {
			return fmt.Errorf("walk history from %s: %w", start, err)
		}
		if !fn(c) {
			return nil
		}
		cur = c.Parent
	}
	return nil
}
