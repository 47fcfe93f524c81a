package vcs

// MergeConflict names one path where both sides changed content
// differently; the reporting channel for §7's "Conflict" in-band
// warning. The merge still completes using the documented resolution
// (keep ours) even when conflicts are reported.
type MergeConflict struct {
	Path string
}

// entriesEqual compares two TreeEntry values by hash, per spec.md §4.H:
// "Comparison of entries is by hash."
func entriesEqual(a, b TreeEntry) bool { return a.Hash == b.Hash }

// ThreeWayMergeTree merges ours and theirs against their common base,
// applying the deterministic per-path policy documented in spec.md
// §4.H's table. It returns the merged flat Tree and the list of paths
// classified as conflicting (both sides changed a path to different,
// non-base content) — those paths are resolved by keeping ours, but are
// still reported.
func ThreeWayMergeTree(base, ours, theirs Tree) (Tree, []MergeConflict) {
	merged := make(Tree)
	var conflicts []MergeConflict

	paths := make(map[string]bool)
	for p := range base {
		paths[p] = true
	}
	for p := range ours {
		paths[p] = true
	}
	for p := range theirs {
		paths[p] = true
	}

	for path := range paths {
		b, hasB := base[path]
		o, hasO := ours[path]
		t, hasT := theirs[path]

		keep, isConflict := classifyPath(hasB, hasO, hasT, b, o, t)
		if isConflict {
			conflicts = append(conflicts, MergeConflict{Path: path})
		}
		if keep != nil {
			merged[path] = *keep
		}
	}

	return merged, conflicts
}

// classifyPath implements spec.md §4.H's per-path table. keep is nil when
// the path should be absent from the merged tree (deleted on one side,
// unchanged on the other).
func classifyPath(hasB, hasO, hasT bool, b, o, t TreeEntry) (keep *TreeEntry, conflict bool) {
	switch {
	case hasB && hasO && hasT:
		oEqB := entriesEqual(o, b)
		tEqB := entriesEqual(t, b)
		oEqT := entriesEqual(o, t)
		switch {
		case oEqB && tEqB:
			return &b, false // unchanged on both sides
		case tEqB && !oEqB:
			return &o, false // only ours changed
		case oEqB && !tEqB:
			return &t, false // only theirs changed
		case !oEqB && !tEqB && !oEqT:
			return &o, true // both changed, differently: conflict, keep ours
		default:
			// oEqT (both sides converged to the same non-base content):
			// no real conflict, either side's entry is equivalent.
			return &o, false
		}

	case hasB && hasO && !hasT:
		if entriesEqual(o, b) {
			return nil, false // unchanged by us, removed by them
		}
		return &o, false // we modified, they deleted: keep ours (present)

	case hasB && !hasO && hasT:
		if entriesEqual(t, b) {
			return nil, false // unchanged by them, removed by us
		}
		return &t, false // we deleted, they modified: ours absent, keep theirs

	case !hasB && hasO && !hasT:
		return &o, false // added only on our side

	case !hasB && !hasO && hasT:
		return &t, false // added only on their side

	case !hasB && hasO && hasT:
		return &o, false // added on both sides: prefer ours

	default: // !hasB && !hasO && !hasT: unreachable, path wouldn't be in the union
		return nil, false
	}
}
