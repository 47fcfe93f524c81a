package main

import (
	"fmt"
	"strconv"

	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

func runLog(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	limit := -1
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			if i+1 >= len(args) {
				return errorf("log: -n requires a value")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return errorf("log: invalid -n value %q", args[i])
			}
			limit = n
		}
	}

	commits, err := repo.Log()
	if err != nil {
		return errorf("log: %v", err)
	}

	for i, c := range commits {
		if limit >= 0 && i >= limit {
			break
		}
		fmt.Printf("%s\n", cw.Notice("commit "+string(c.Hash)))
		fmt.Printf("Author: %s\n", c.Author)
		fmt.Printf("Date:   %s\n", c.Timestamp.Format("Mon Jan 2 15:04:05 2006 -0700"))
		fmt.Println()
		fmt.Printf("    %s\n\n", c.Message)
	}
	return 0
}
