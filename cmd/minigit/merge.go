package main

import (
	"fmt"

	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

func runMerge(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	var branch, author string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a", "--author":
			if i+1 >= len(args) {
				return errorf("merge: -a requires a value")
			}
			i++
			author = args[i]
		default:
			if branch == "" {
				branch = args[i]
			}
		}
	}
	if branch == "" {
		return errorf("merge: a branch name is required")
	}
	if author == "" {
		author = commitAuthor()
	}

	ff, conflicts, err := repo.Merge(branch, author)
	if err != nil {
		return errorf("merge: %v", err)
	}

	if ff {
		fmt.Printf("Fast-forward merge: now at %s\n", branch)
		return 0
	}
	for _, c := range conflicts {
		fmt.Println(cw.Conflict("CONFLICT: " + c.Path + " (keeping our version)"))
	}
	fmt.Printf("Merged branch %q\n", branch)
	return 0
}
