//go:build e2e

package e2e

import (
	"strings"
	"testing"
)

// TestInitAndFirstCommit covers spec.md §8 scenario 1: init, stage a
// file, commit, and check that the commit output names branch main,
// status reports a clean tree, and log lists the new commit.
func TestInitAndFirstCommit(t *testing.T) {
	dir := t.TempDir()
	mustMinigit(t, dir, "init")

	writeFile(t, dir, "hello.txt", "hi\n")
	mustMinigit(t, dir, "add", "hello.txt")
	out := mustMinigit(t, dir, "commit", "-m", "a")
	if !strings.Contains(out, "main") {
		t.Fatalf("expected commit output to mention branch main, got %q", out)
	}

	status := mustMinigit(t, dir, "status")
	if !strings.Contains(status, "clean") {
		t.Fatalf("expected clean status after commit, got %q", status)
	}

	log := mustMinigit(t, dir, "log")
	if !strings.Contains(log, "commit ") || !strings.Contains(log, "a\n") {
		t.Fatalf("expected log to show the new commit, got %q", log)
	}
}

// TestDiffModification covers scenario 2: a tracked file is modified on
// disk and `diff` reports a line-level hunk.
func TestDiffModification(t *testing.T) {
	dir := t.TempDir()
	mustMinigit(t, dir, "init")
	writeFile(t, dir, "f", "one\ntwo\nthree\n")
	mustMinigit(t, dir, "add", "f")
	mustMinigit(t, dir, "commit", "-m", "one")

	writeFile(t, dir, "f", "one\nTWO\nthree\n")
	out := mustMinigit(t, dir, "diff")
	if !strings.Contains(out, "-two") {
		t.Fatalf("expected diff to delete 'two', got %q", out)
	}
	if !strings.Contains(out, "+TWO") {
		t.Fatalf("expected diff to insert 'TWO', got %q", out)
	}
}

// TestFastForwardMerge covers scenario 3: merging a descendant branch
// advances the current branch without a new commit.
func TestFastForwardMerge(t *testing.T) {
	dir := t.TempDir()
	mustMinigit(t, dir, "init")
	writeFile(t, dir, "a", "A\n")
	mustMinigit(t, dir, "add", "a")
	mustMinigit(t, dir, "commit", "-m", "A")

	mustMinigit(t, dir, "branch", "b")
	mustMinigit(t, dir, "checkout", "b")
	writeFile(t, dir, "b", "B\n")
	mustMinigit(t, dir, "add", "b")
	mustMinigit(t, dir, "commit", "-m", "B")

	mustMinigit(t, dir, "checkout", "main")
	out := mustMinigit(t, dir, "merge", "b")
	if !strings.Contains(out, "Fast-forward") {
		t.Fatalf("expected a fast-forward merge, got %q", out)
	}
	if readFile(t, dir, "b") != "B\n" {
		t.Fatalf("expected working tree to contain b's content after fast-forward")
	}
}

// TestThreeWayMergeDisjointEdits covers scenario 4: both branches touch
// different files and the merge combines both without conflict.
func TestThreeWayMergeDisjointEdits(t *testing.T) {
	dir := t.TempDir()
	mustMinigit(t, dir, "init")
	writeFile(t, dir, "x", "base-x\n")
	writeFile(t, dir, "y", "base-y\n")
	mustMinigit(t, dir, "add", ".")
	mustMinigit(t, dir, "commit", "-m", "base")

	mustMinigit(t, dir, "branch", "theirs")

	writeFile(t, dir, "x", "ours-x\n")
	mustMinigit(t, dir, "add", "x")
	mustMinigit(t, dir, "commit", "-m", "ours edits x")

	mustMinigit(t, dir, "checkout", "theirs")
	writeFile(t, dir, "y", "theirs-y\n")
	mustMinigit(t, dir, "add", "y")
	mustMinigit(t, dir, "commit", "-m", "theirs edits y")

	mustMinigit(t, dir, "checkout", "main")
	out := mustMinigit(t, dir, "merge", "theirs")
	if strings.Contains(out, "CONFLICT") {
		t.Fatalf("expected no conflicts for disjoint edits, got %q", out)
	}
	if readFile(t, dir, "x") != "ours-x\n" {
		t.Fatalf("expected our edit to x to survive the merge")
	}
	if readFile(t, dir, "y") != "theirs-y\n" {
		t.Fatalf("expected their edit to y to be picked up by the merge")
	}
}

// TestMergeConflict covers scenario 5: both branches edit the same path
// differently; the merge reports a conflict, keeps our content, and
// still produces a merge commit.
func TestMergeConflict(t *testing.T) {
	dir := t.TempDir()
	mustMinigit(t, dir, "init")
	writeFile(t, dir, "x", "base\n")
	mustMinigit(t, dir, "add", "x")
	mustMinigit(t, dir, "commit", "-m", "base")

	mustMinigit(t, dir, "branch", "theirs")

	writeFile(t, dir, "x", "ours\n")
	mustMinigit(t, dir, "add", "x")
	mustMinigit(t, dir, "commit", "-m", "ours")

	mustMinigit(t, dir, "checkout", "theirs")
	writeFile(t, dir, "x", "theirs\n")
	mustMinigit(t, dir, "add", "x")
	mustMinigit(t, dir, "commit", "-m", "theirs")

	mustMinigit(t, dir, "checkout", "main")
	out := mustMinigit(t, dir, "merge", "theirs")
	if !strings.Contains(out, "CONFLICT") || !strings.Contains(out, "x") {
		t.Fatalf("expected a reported conflict for x, got %q", out)
	}
	if readFile(t, dir, "x") != "ours\n" {
		t.Fatalf("expected conflicting path to keep our content, got %q", readFile(t, dir, "x"))
	}
	log := mustMinigit(t, dir, "log")
	if !strings.Contains(log, "Merge branch") {
		t.Fatalf("expected a merge commit to be recorded, got %q", log)
	}
}

// TestStashRoundTrip covers scenario 6: staged and untracked changes
// survive a stash push followed by a pop.
func TestStashRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mustMinigit(t, dir, "init")
	writeFile(t, dir, "tracked", "v1\n")
	mustMinigit(t, dir, "add", "tracked")
	mustMinigit(t, dir, "commit", "-m", "base")

	writeFile(t, dir, "tracked", "v2\n")
	mustMinigit(t, dir, "add", "tracked")
	writeFile(t, dir, "scratch", "untracked\n")

	mustMinigit(t, dir, "stash", "push", "-m", "wip")
	if readFile(t, dir, "tracked") != "v1\n" {
		t.Fatalf("expected stash push to restore HEAD's content")
	}

	mustMinigit(t, dir, "stash", "pop")
	if readFile(t, dir, "tracked") != "v2\n" {
		t.Fatalf("expected stash pop to restore the staged edit")
	}
	if readFile(t, dir, "scratch") != "untracked\n" {
		t.Fatalf("expected stash pop to restore the untracked file")
	}
}

// TestPushToCleanRemote covers P9 (remote parity): pushing to a clean
// remote updates its branch ref and materializes the pushed tree.
func TestPushToCleanRemote(t *testing.T) {
	remoteDir := t.TempDir()
	mustMinigit(t, remoteDir, "init")

	localDir := t.TempDir()
	mustMinigit(t, localDir, "init")
	mustMinigit(t, localDir, "remote", "add", "origin", remoteDir)

	writeFile(t, localDir, "f", "content\n")
	mustMinigit(t, localDir, "add", "f")
	mustMinigit(t, localDir, "commit", "-m", "c1")

	mustMinigit(t, localDir, "push", "origin", "main")

	if readFile(t, remoteDir, "f") != "content\n" {
		t.Fatalf("expected push to materialize f on the remote")
	}
}
