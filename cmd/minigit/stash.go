package main

import (
	"fmt"

	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

func runStash(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	sub := "push"
	rest := args
	if len(args) > 0 && !isStashFlag(args[0]) {
		sub = args[0]
		rest = args[1:]
	}

	message := ""
	index := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "-m":
			if i+1 >= len(rest) {
				return errorf("stash: -m requires a value")
			}
			i++
			message = rest[i]
		case "-i":
			if i+1 >= len(rest) {
				return errorf("stash: -i requires a value")
			}
			i++
			n, err := parseStashIndex(rest[i])
			if err != nil {
				return errorf("stash: %v", err)
			}
			index = n
		}
	}

	switch sub {
	case "push":
		if err := repo.StashPush(message); err != nil {
			return errorf("stash: %v", err)
		}
		fmt.Println("Saved working directory and index state")
		return 0
	case "pop":
		if err := repo.StashPop(); err != nil {
			return errorf("stash: %v", err)
		}
		fmt.Println("Restored working directory and index state")
		return 0
	case "list":
		entries, err := repo.StashList()
		if err != nil {
			return errorf("stash: %v", err)
		}
		for i, e := range entries {
			fmt.Printf("stash@{%d}: %s\n", i, e.Message)
		}
		return 0
	case "show":
		entries, err := repo.StashList()
		if err != nil {
			return errorf("stash: %v", err)
		}
		if index < 0 || index >= len(entries) {
			return errorf("stash: no stash entry at index %d", index)
		}
		e := entries[index]
		fmt.Printf("%s\n", cw.Notice(fmt.Sprintf("stash@{%d}: %s", index, e.Message)))
		fmt.Printf("working tree: %s\n", e.WorkingTree)
		fmt.Printf("index tree:   %s\n", e.IndexTree)
		return 0
	case "drop":
		if err := repo.StashDrop(index); err != nil {
			return errorf("stash: %v", err)
		}
		fmt.Printf("Dropped stash@{%d}\n", index)
		return 0
	case "clear":
		entries, err := repo.StashList()
		if err != nil {
			return errorf("stash: %v", err)
		}
		for range entries {
			if err := repo.StashDrop(0); err != nil {
				return errorf("stash: %v", err)
			}
		}
		return 0
	default:
		return errorf("stash: unknown subcommand %q", sub)
	}
}

func isStashFlag(s string) bool {
	return s == "-m" || s == "-i"
}

func parseStashIndex(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid stash index %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
