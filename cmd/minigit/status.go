package main

import (
	"fmt"

	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

func runStatus(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	branch, err := repo.Refs.CurrentBranch()
	if err != nil {
		return errorf("status: %v", err)
	}
	if symbolic, b, _, herr := repo.Refs.HeadTarget(); herr == nil && symbolic {
		fmt.Printf("On branch %s\n", b)
	} else {
		fmt.Printf("HEAD detached at %s\n", vcs.Hash(branch).Short())
	}

	entries, err := repo.Status()
	if err != nil {
		return errorf("status: %v", err)
	}

	var modified, missing, untracked []vcs.StatusEntry
	for _, e := range entries {
		switch e.State {
		case vcs.StateModified:
			modified = append(modified, e)
		case vcs.StateMissing:
			missing = append(missing, e)
		case vcs.StateUntracked:
			untracked = append(untracked, e)
		}
	}

	if len(modified) > 0 || len(missing) > 0 {
		fmt.Println("Changes not staged for commit:")
		for _, e := range modified {
			fmt.Printf("\t%s\n", cw.Modified("modified:   "+e.Path))
		}
		for _, e := range missing {
			fmt.Printf("\t%s\n", cw.Missing("deleted:    "+e.Path))
		}
		fmt.Println()
	}

	if len(untracked) > 0 {
		fmt.Println("Untracked files:")
		for _, e := range untracked {
			fmt.Printf("\t%s\n", cw.Missing(e.Path))
		}
		fmt.Println()
	}

	if len(modified) == 0 && len(missing) == 0 && len(untracked) == 0 {
		fmt.Println("nothing to commit, working tree clean")
	}
	return 0
}
