package vcs

import (
	"testing"
	"time"
)

// chainCommits stores n commits, each a child of the previous, and
// returns their hashes oldest first.
func chainCommits(t *testing.T, store *ObjectStore, n int) []Hash {
	t.Helper()
	var hashes []Hash
	parent := ZeroHash
	for i := 0; i < n; i++ {
		c := Commit{
			Tree:      hashBytes([]byte{byte(i)}),
			Parent:    parent,
			Author:    "tester",
			Message:   "commit",
			Timestamp: time.Unix(int64(i), 0),
		}
		c.Hash = hashBytes(commitIdentityBytes(c.Tree, c.Parent, c.Author, c.Message))
		if _, err := store.StoreCommit(c); err != nil {
			t.Fatalf("StoreCommit: %v", err)
		}
		hashes = append(hashes, c.Hash)
		parent = c.Hash
	}
	return hashes
}

func TestIsAncestor(t *testing.T) {
	store := newTestStore(t)
	chain := chainCommits(t, store, 3)

	ok, err := IsAncestor(store, chain[0], chain[2])
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if !ok {
		t.Fatal("expected chain[0] to be an ancestor of chain[2]")
	}

	ok, err = IsAncestor(store, chain[2], chain[0])
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if ok {
		t.Fatal("expected chain[2] not to be an ancestor of chain[0]")
	}

	ok, err = IsAncestor(store, chain[1], chain[1])
	if err != nil {
		t.Fatalf("IsAncestor: %v", err)
	}
	if !ok {
		t.Fatal("expected IsAncestor to be reflexive (inclusive of d itself)")
	}
}

// TestIsAncestorTriangle covers P4: ancestry is transitive.
func TestIsAncestorTriangle(t *testing.T) {
	store := newTestStore(t)
	chain := chainCommits(t, store, 4)
	a, b, c := chain[0], chain[1], chain[3]

	ab, err := IsAncestor(store, a, b)
	if err != nil {
		t.Fatal(err)
	}
	bc, err := IsAncestor(store, b, c)
	if err != nil {
		t.Fatal(err)
	}
	ac, err := IsAncestor(store, a, c)
	if err != nil {
		t.Fatal(err)
	}
	if ab && bc && !ac {
		t.Fatal("ancestry triangle violated: is_ancestor(a,b) ∧ is_ancestor(b,c) ⇒ is_ancestor(a,c)")
	}
}

// TestFindCommonAncestorLinearHistory covers P3: when one commit is an
// ancestor of the other, the LCA is that commit.
func TestFindCommonAncestorLinearHistory(t *testing.T) {
	store := newTestStore(t)
	chain := chainCommits(t, store, 3)

	anc, found, err := FindCommonAncestor(store, chain[0], chain[2])
	if err != nil {
		t.Fatalf("FindCommonAncestor: %v", err)
	}
	if !found || anc != chain[0] {
		t.Fatalf("expected LCA %s, got %s (found=%v)", chain[0], anc, found)
	}
}

func TestFindCommonAncestorDivergedBranches(t *testing.T) {
	store := newTestStore(t)
	base := chainCommits(t, store, 2) // base[0] -> base[1]

	// Branch A: base[1] -> a1
	a1 := Commit{Tree: hashBytes([]byte("a1")), Parent: base[1], Author: "t", Message: "a1", Timestamp: time.Unix(10, 0)}
	a1.Hash = hashBytes(commitIdentityBytes(a1.Tree, a1.Parent, a1.Author, a1.Message))
	if _, err := store.StoreCommit(a1); err != nil {
		t.Fatal(err)
	}

	// Branch B: base[1] -> b1
	b1 := Commit{Tree: hashBytes([]byte("b1")), Parent: base[1], Author: "t", Message: "b1", Timestamp: time.Unix(11, 0)}
	b1.Hash = hashBytes(commitIdentityBytes(b1.Tree, b1.Parent, b1.Author, b1.Message))
	if _, err := store.StoreCommit(b1); err != nil {
		t.Fatal(err)
	}

	anc, found, err := FindCommonAncestor(store, a1.Hash, b1.Hash)
	if err != nil {
		t.Fatalf("FindCommonAncestor: %v", err)
	}
	if !found || anc != base[1] {
		t.Fatalf("expected LCA %s, got %s (found=%v)", base[1], anc, found)
	}
}

func TestFindCommonAncestorUnrelatedHistories(t *testing.T) {
	store := newTestStore(t)
	chainA := chainCommits(t, store, 2)

	b := Commit{Tree: hashBytes([]byte("unrelated")), Parent: ZeroHash, Author: "t", Message: "root2", Timestamp: time.Unix(0, 0)}
	b.Hash = hashBytes(commitIdentityBytes(b.Tree, b.Parent, b.Author, b.Message))
	if _, err := store.StoreCommit(b); err != nil {
		t.Fatal(err)
	}

	_, found, err := FindCommonAncestor(store, chainA[1], b.Hash)
	if err != nil {
		t.Fatalf("FindCommonAncestor: %v", err)
	}
	if found {
		t.Fatal("expected no common ancestor for unrelated root commits")
	}
}

func TestWalkHistoryOrderAndEarlyStop(t *testing.T) {
	store := newTestStore(t)
	chain := chainCommits(t, store, 3)

	var seen []Hash
	err := WalkHistory(store, chain[2], func(c Commit) bool {
		seen = append(seen, c.Hash)
		return true
	})
	if err != nil {
		t.Fatalf("WalkHistory: %v", err)
	}
	want := []Hash{chain[2], chain[1], chain[0]}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected walk order %v, got %v", want, seen)
		}
	}

	var stopped []Hash
	err = WalkHistory(store, chain[2], func(c Commit) bool {
		stopped = append(stopped, c.Hash)
		return false
	})
	if err != nil {
		t.Fatalf("WalkHistory: %v", err)
	}
	if len(stopped) != 1 {
		t.Fatalf("expected early stop after 1 commit, got %d", len(stopped))
	}
}
