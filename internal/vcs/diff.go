package vcs

import (
	"bytes"
	"fmt"
	"strings"
)

// maxDiffBlobSize caps the size of content fed to the line-diff engine;
// larger files are reported as binary-equivalent "too large" rather than
// diffed line by line.
const maxDiffBlobSize = 4 * 1024 * 1024

// EditType is the classification of one step in an edit script.
type EditType int

const (
	EditEqual EditType = iota
	EditDelete
	EditInsert
)

// Edit is a single step of the edit sequence between two line arrays.
type Edit struct {
	Type EditType
	Text string
}

// computeEdits computes the longest common subsequence of oldLines and
// newLines via the classic O(mn)-time, O(mn)-space dynamic-programming
// table, then backtracks it into an Equal/Delete/Insert edit script.
//
// Tie-break: when backtracking reaches a cell where neither
// dp[i-1][j] nor dp[i][j-1] is strictly larger, the walk moves left
// (toward treating the step as an insertion). Because the backtrack
// walks from the end of both sequences toward the start, this choice is
// what makes deletions land before insertions once the script is
// reversed into forward order — this exact placement must be preserved
// for byte-identical patch output, so do not "simplify" the tie branch.
func computeEdits(oldLines, newLines []string) []Edit {
	m, n := len(oldLines), len(newLines)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldLines[i-1] == newLines[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backward-order accumulation; reversed once at the end.
	edits := make([]Edit, 0, m+n)
	i, j := m, n
	for i > 0 && j > 0 {
		if oldLines[i-1] == newLines[j-1] {
			edits = append(edits, Edit{Type: EditEqual, Text: oldLines[i-1]})
			i--
			j--
			continue
		}
		if dp[i-1][j] > dp[i][j-1] {
			edits = append(edits, Edit{Type: EditDelete, Text: oldLines[i-1]})
			i--
		} else {
			// Strictly-left-greater and tied cases both take this branch;
			// see tie-break note above.
			edits = append(edits, Edit{Type: EditInsert, Text: newLines[j-1]})
			j--
		}
	}
	for i > 0 {
		edits = append(edits, Edit{Type: EditDelete, Text: oldLines[i-1]})
		i--
	}
	for j > 0 {
		edits = append(edits, Edit{Type: EditInsert, Text: newLines[j-1]})
		j--
	}

	reverseEdits(edits)
	return edits
}

func reverseEdits(edits []Edit) {
	for l, r := 0, len(edits)-1; l < r; l, r = l+1, r-1 {
		edits[l], edits[r] = edits[r], edits[l]
	}
}

// Hunk is one contiguous run of changes rendered without context lines.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Edits    []Edit // Delete and Insert only, in script order
}

// buildHunks groups an edit script into maximal non-Equal runs. Because
// this system's unified-patch rendering omits context lines (spec.md
// §4.F), a hunk never contains an Equal edit; Equal edits only advance
// the old/new line counters between hunks.
func buildHunks(edits []Edit) []Hunk {
	var hunks []Hunk
	oldLine, newLine := 1, 1
	i := 0
	for i < len(edits) {
		if edits[i].Type == EditEqual {
			oldLine++
			newLine++
			i++
			continue
		}

		h := Hunk{OldStart: oldLine, NewStart: newLine}
		for i < len(edits) && edits[i].Type != EditEqual {
			switch edits[i].Type {
			case EditDelete:
				h.OldCount++
				oldLine++
			case EditInsert:
				h.NewCount++
				newLine++
			}
			h.Edits = append(h.Edits, edits[i])
			i++
		}
		hunks = append(hunks, h)
	}
	return hunks
}

// splitLines splits content on "\n". A trailing empty element (content
// ending in a newline) is dropped so that line count matches the visual
// line count; content with no trailing newline keeps its final partial
// line as a line like any other.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	s := string(content)
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// IsBinary sniffs content for a NUL byte in its first 8000 bytes, the
// same heuristic real git uses to decide whether to suppress line diffs.
func IsBinary(content []byte) bool {
	probe := content
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// UnifiedPatch renders the diff between oldContent and newContent for
// path as a minimal (context-free) unified patch, per spec.md §6.
func UnifiedPatch(path string, oldHash, newHash Hash, mode string, oldContent, newContent []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)

	if len(oldContent) > maxDiffBlobSize || len(newContent) > maxDiffBlobSize {
		fmt.Fprintf(&b, "index %s..%s %s\n", oldHash.Short(), newHash.Short(), mode)
		fmt.Fprintf(&b, "%s: file too large to diff\n", path)
		return b.String()
	}
	if IsBinary(oldContent) || IsBinary(newContent) {
		fmt.Fprintf(&b, "index %s..%s %s\n", oldHash.Short(), newHash.Short(), mode)
		fmt.Fprintf(&b, "Binary files a/%s and b/%s differ\n", path, path)
		return b.String()
	}

	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)
	edits := computeEdits(oldLines, newLines)
	hunks := buildHunks(edits)

	fmt.Fprintf(&b, "index %s..%s %s\n", oldHash.Short(), newHash.Short(), mode)
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	writeHunks(&b, hunks)
	return b.String()
}

func writeHunks(b *strings.Builder, hunks []Hunk) {
	for _, h := range hunks {
		fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, e := range h.Edits {
			switch e.Type {
			case EditDelete:
				fmt.Fprintf(b, "-%s\n", e.Text)
			case EditInsert:
				fmt.Fprintf(b, "+%s\n", e.Text)
			}
		}
	}
}

// DeletedFileDiff renders the dedicated shape for a file removed
// entirely: a "deleted file mode" header, a "---"/"+++ /dev/null" pair,
// and every line of the old content rendered as removed under a single
// hunk spanning the whole file.
func DeletedFileDiff(path string, oldHash Hash, mode string, oldContent []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(&b, "deleted file mode %s\n", mode)
	fmt.Fprintf(&b, "index %s..0000000 %s\n", oldHash.Short(), mode)
	fmt.Fprintf(&b, "--- a/%s\n", path)
	b.WriteString("+++ /dev/null\n")

	if IsBinary(oldContent) {
		fmt.Fprintf(&b, "Binary file a/%s differs\n", path)
		return b.String()
	}

	lines := splitLines(oldContent)
	if len(lines) > 0 {
		fmt.Fprintf(&b, "@@ -1,%d +0,0 @@\n", len(lines))
		for _, l := range lines {
			fmt.Fprintf(&b, "-%s\n", l)
		}
	}
	return b.String()
}
