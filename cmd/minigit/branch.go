package main

import (
	"fmt"

	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

func runBranch(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	var del bool
	var name string
	for _, a := range args {
		if a == "-d" || a == "--delete" {
			del = true
			continue
		}
		name = a
	}

	if name == "" {
		names, err := repo.ListBranches()
		if err != nil {
			return errorf("branch: %v", err)
		}
		current, _ := repo.Refs.CurrentBranch()
		for _, n := range names {
			if n == current {
				fmt.Printf("* %s\n", cw.CurrentRef(n))
			} else {
				fmt.Printf("  %s\n", n)
			}
		}
		return 0
	}

	if del {
		current, err := repo.Refs.CurrentBranch()
		if err != nil {
			return errorf("branch: %v", err)
		}
		if current == name {
			return errorf("branch: cannot delete the current branch %q", name)
		}
		if err := repo.Refs.DeleteBranch(name); err != nil {
			return errorf("branch: %v", err)
		}
		fmt.Printf("Deleted branch %s\n", name)
		return 0
	}

	if err := repo.CreateBranch(name); err != nil {
		return errorf("branch: %v", err)
	}
	fmt.Printf("Created branch %s\n", name)
	return 0
}
