package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kodekeep/minigit/internal/progress"
	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

// remoteAndBranch resolves the implicit [remote]
// [branch] arguments every sync command accepts, per spec.md §6:
// remote defaults to "origin", branch to the current branch (or "main").
func remoteAndBranch(repo *vcs.Repository, args []string) (remote, branch string) {
	remote = "origin"
	if len(args) > 0 {
		remote = args[0]
	}
	branch = vcs.DefaultBranch
	if cur, err := repo.Refs.CurrentBranch(); err == nil && cur != "" {
		branch = cur
	}
	if len(args) > 1 {
		branch = args[1]
	}
	return remote, branch
}

func runPush(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	remote, branch := remoteAndBranch(repo, args)

	sp := progress.NewRemoteSync(progress.Pushing, remote)
	sp.Start()
	err := repo.Push(remote, branch)
	sp.Stop()

	if err != nil {
		if errors.Is(err, vcs.ErrUncommittedChanges) {
			fmt.Println(cw.Notice(fmt.Sprintf("warning: %v", err)))
			return 0
		}
		return errorf("push: %v", err)
	}
	fmt.Printf("Pushed %s to %s\n", branch, remote)
	return 0
}

func runFetch(args []string, repo *vcs.Repository) int {
	remote, branch := remoteAndBranch(repo, args)

	sp := progress.NewRemoteSync(progress.Fetching, remote)
	sp.Start()
	err := repo.Fetch(remote, branch)
	sp.Stop()

	if err != nil {
		return errorf("fetch: %v", err)
	}
	fmt.Printf("Fetched %s from %s\n", branch, remote)
	return 0
}

func runPull(args []string, repo *vcs.Repository, cw *termcolor.Writer) int {
	remote, branch := remoteAndBranch(repo, args)

	sp := progress.NewRemoteSync(progress.Pulling, remote)
	sp.Start()
	ff, err := repo.Pull(remote, branch)
	sp.Stop()

	if err != nil {
		return errorf("pull: %v", err)
	}
	if !ff {
		fmt.Println(cw.Notice(fmt.Sprintf(
			"fetch complete; %s/%s has diverged from %s, run `minigit merge %s/%s` to combine them",
			remote, branch, branch, remote, branch)))
		return 0
	}
	fmt.Printf("Updated %s from %s\n", branch, remote)
	return 0
}

func runRemote(args []string, repo *vcs.Repository) int {
	if len(args) == 0 {
		return errorf("remote: expected a subcommand (add, remove, rm, set-url, get-url, -v)")
	}

	if args[0] == "-v" {
		cfg, err := repo.LoadConfig()
		if err != nil {
			return errorf("remote: %v", err)
		}
		names := make([]string, 0, len(cfg.Remotes))
		for n := range cfg.Remotes {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			r := cfg.Remotes[n]
			fmt.Printf("%s\t%s (fetch)\n", n, r.URL)
			fmt.Printf("%s\t%s (push)\n", n, r.URL)
		}
		return 0
	}

	action := args[0]
	rest := args[1:]
	switch action {
	case "add":
		if len(rest) != 2 {
			return errorf("remote: add requires <name> <url>")
		}
		if err := repo.AddRemote(rest[0], rest[1]); err != nil {
			return errorf("remote: %v", err)
		}
		return 0
	case "remove", "rm":
		if len(rest) != 1 {
			return errorf("remote: %s requires <name>", action)
		}
		if err := repo.RemoveRemote(rest[0]); err != nil {
			return errorf("remote: %v", err)
		}
		return 0
	case "set-url":
		if len(rest) != 2 {
			return errorf("remote: set-url requires <name> <url>")
		}
		if err := repo.RemoveRemote(rest[0]); err != nil && !errors.Is(err, vcs.ErrNotFound) {
			return errorf("remote: %v", err)
		}
		if err := repo.AddRemote(rest[0], rest[1]); err != nil {
			return errorf("remote: %v", err)
		}
		return 0
	case "get-url":
		if len(rest) != 1 {
			return errorf("remote: get-url requires <name>")
		}
		cfg, err := repo.LoadConfig()
		if err != nil {
			return errorf("remote: %v", err)
		}
		rc, ok := cfg.Remotes[rest[0]]
		if !ok {
			return errorf("remote: %v", vcs.ErrNotFound)
		}
		fmt.Println(rc.URL)
		return 0
	default:
		return errorf("remote: unknown action %q", action)
	}
}
