package vcs

import (
	"strings"
	"testing"
)

func TestComputeEditsNoChange(t *testing.T) {
	lines := []string{"a", "b", "c"}
	edits := computeEdits(lines, lines)
	for _, e := range edits {
		if e.Type != EditEqual {
			t.Fatalf("expected all edits Equal for identical input, got %+v", edits)
		}
	}
	if len(edits) != len(lines) {
		t.Fatalf("expected %d edits, got %d", len(lines), len(edits))
	}
}

func TestComputeEditsPureInsertion(t *testing.T) {
	old := []string{"a"}
	new := []string{"a", "b"}
	edits := computeEdits(old, new)
	if len(edits) != 2 || edits[0].Type != EditEqual || edits[1].Type != EditInsert || edits[1].Text != "b" {
		t.Fatalf("unexpected edit script: %+v", edits)
	}
}

func TestComputeEditsPureDeletion(t *testing.T) {
	old := []string{"a", "b"}
	new := []string{"a"}
	edits := computeEdits(old, new)
	if len(edits) != 2 || edits[0].Type != EditEqual || edits[1].Type != EditDelete || edits[1].Text != "b" {
		t.Fatalf("unexpected edit script: %+v", edits)
	}
}

// TestComputeEditsTieBreakFavorsDeletionBeforeInsertion pins the
// documented backtrack tie-break: when a line is replaced, the delete
// edit appears before the insert edit.
func TestComputeEditsTieBreakFavorsDeletionBeforeInsertion(t *testing.T) {
	old := []string{"x"}
	new := []string{"y"}
	edits := computeEdits(old, new)
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits for a single-line replacement, got %+v", edits)
	}
	if edits[0].Type != EditDelete || edits[1].Type != EditInsert {
		t.Fatalf("expected delete before insert, got %+v", edits)
	}
}

func TestBuildHunksGroupsContiguousChanges(t *testing.T) {
	edits := []Edit{
		{Type: EditEqual, Text: "1"},
		{Type: EditDelete, Text: "2"},
		{Type: EditInsert, Text: "2b"},
		{Type: EditEqual, Text: "3"},
		{Type: EditInsert, Text: "4"},
	}
	hunks := buildHunks(edits)
	if len(hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d: %+v", len(hunks), hunks)
	}
	if hunks[0].OldStart != 2 || hunks[0].OldCount != 1 || hunks[0].NewStart != 2 || hunks[0].NewCount != 1 {
		t.Fatalf("unexpected first hunk: %+v", hunks[0])
	}
	if hunks[1].OldStart != 4 || hunks[1].OldCount != 0 || hunks[1].NewStart != 4 || hunks[1].NewCount != 1 {
		t.Fatalf("unexpected second hunk: %+v", hunks[1])
	}
}

func TestBuildHunksNoChangesProducesNoHunks(t *testing.T) {
	edits := []Edit{{Type: EditEqual, Text: "1"}, {Type: EditEqual, Text: "2"}}
	if hunks := buildHunks(edits); len(hunks) != 0 {
		t.Fatalf("expected no hunks, got %+v", hunks)
	}
}

func TestSplitLinesDropsTrailingNewline(t *testing.T) {
	got := splitLines([]byte("a\nb\n"))
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitLinesKeepsPartialFinalLine(t *testing.T) {
	got := splitLines([]byte("a\nb"))
	want := []string{"a", "b"}
	if len(got) != len(want) || got[1] != "b" {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitLinesEmptyContent(t *testing.T) {
	if got := splitLines(nil); got != nil {
		t.Fatalf("expected nil for empty content, got %v", got)
	}
}

func TestIsBinaryDetectsNUL(t *testing.T) {
	if !IsBinary([]byte("abc\x00def")) {
		t.Fatal("expected content containing a NUL byte to be detected as binary")
	}
	if IsBinary([]byte("plain text\n")) {
		t.Fatal("expected plain text not to be detected as binary")
	}
}

func TestUnifiedPatchRendersHeaderAndHunk(t *testing.T) {
	old := []byte("line1\nline2\n")
	new := []byte("line1\nline2-changed\n")
	oldHash := hashBytes(old)
	newHash := hashBytes(new)

	patch := UnifiedPatch("file.txt", oldHash, newHash, RegularFileMode, old, new)
	if !strings.Contains(patch, "diff --git a/file.txt b/file.txt") {
		t.Fatalf("missing diff header: %s", patch)
	}
	if !strings.Contains(patch, "--- a/file.txt") || !strings.Contains(patch, "+++ b/file.txt") {
		t.Fatalf("missing file markers: %s", patch)
	}
	if !strings.Contains(patch, "-line2") || !strings.Contains(patch, "+line2-changed") {
		t.Fatalf("missing hunk content: %s", patch)
	}
}

func TestUnifiedPatchNoChangeProducesNoHunk(t *testing.T) {
	content := []byte("same\n")
	h := hashBytes(content)
	patch := UnifiedPatch("file.txt", h, h, RegularFileMode, content, content)
	if strings.Contains(patch, "@@") {
		t.Fatalf("expected no hunk for unchanged content: %s", patch)
	}
}

func TestUnifiedPatchBinaryContent(t *testing.T) {
	old := []byte("a\x00b")
	new := []byte("a\x00c")
	patch := UnifiedPatch("bin.dat", hashBytes(old), hashBytes(new), RegularFileMode, old, new)
	if !strings.Contains(patch, "Binary files a/bin.dat and b/bin.dat differ") {
		t.Fatalf("expected binary marker: %s", patch)
	}
	if strings.Contains(patch, "@@") {
		t.Fatalf("expected no line hunk for binary content: %s", patch)
	}
}

func TestUnifiedPatchOversizeContent(t *testing.T) {
	big := make([]byte, maxDiffBlobSize+1)
	patch := UnifiedPatch("huge.txt", hashBytes(big), hashBytes([]byte("small")), RegularFileMode, big, []byte("small"))
	if !strings.Contains(patch, "too large to diff") {
		t.Fatalf("expected oversize guard message: %s", patch)
	}
}

func TestDeletedFileDiffRendersAllLinesRemoved(t *testing.T) {
	content := []byte("a\nb\n")
	patch := DeletedFileDiff("gone.txt", hashBytes(content), RegularFileMode, content)
	if !strings.Contains(patch, "deleted file mode") {
		t.Fatalf("missing deleted file header: %s", patch)
	}
	if !strings.Contains(patch, "+++ /dev/null") {
		t.Fatalf("missing /dev/null marker: %s", patch)
	}
	if !strings.Contains(patch, "-a") || !strings.Contains(patch, "-b") {
		t.Fatalf("expected every line rendered as removed: %s", patch)
	}
}

func TestDeletedFileDiffBinary(t *testing.T) {
	content := []byte("a\x00b")
	patch := DeletedFileDiff("gone.bin", hashBytes(content), RegularFileMode, content)
	if !strings.Contains(patch, "Binary file a/gone.bin differs") {
		t.Fatalf("expected binary deletion marker: %s", patch)
	}
}
