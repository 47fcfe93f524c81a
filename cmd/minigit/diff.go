package main

import (
	"fmt"

	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

func runDiff(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	patch, err := repo.DiffWorkingTree(args)
	if err != nil {
		return errorf("diff: %v", err)
	}
	for _, line := range splitKeepEmpty(patch, '\n') {
		switch {
		case len(line) > 0 && line[0] == '+' && !isHunkOrHeader(line):
			fmt.Println(cw.Added(line))
		case len(line) > 0 && line[0] == '-' && !isHunkOrHeader(line):
			fmt.Println(cw.Removed(line))
		case len(line) > 0 && line[0] == '@':
			fmt.Println(cw.HunkHeader(line))
		default:
			fmt.Println(line)
		}
	}
	return 0
}

func isHunkOrHeader(line string) bool {
	return len(line) >= 3 && (line[:3] == "---" || line[:3] == "+++")
}

// splitKeepEmpty splits s on sep, dropping a single trailing empty
// element produced by a trailing separator (so callers don't print a
// spurious blank line after the final patch line).
func splitKeepEmpty(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
