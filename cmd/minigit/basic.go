package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kodekeep/minigit/internal/vcs"
)

func runInit(args []string, _ *vcs.Repository) int {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	repo, err := vcs.Init(path)
	if err != nil {
		return errorf("init: %v", err)
	}
	abs, err := filepath.Abs(repo.MetaRoot)
	if err != nil {
		abs = repo.MetaRoot
	}
	fmt.Printf("Initialized empty mini_git repository in %s\n", abs)
	return 0
}

func runAdd(args []string, repo *vcs.Repository) int {
	if len(args) == 0 {
		return errorf("add: nothing specified, nothing added")
	}
	for _, p := range args {
		if err := stagePath(repo, p); err != nil {
			return errorf("add: %v", err)
		}
	}
	return 0
}

// stagePath stages p, recursing into directories (excluding the meta
// root) per spec.md §4.D.
func stagePath(repo *vcs.Repository, p string) error {
	if p == "." {
		return repo.AddAll()
	}

	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(repo.WorkRoot, p)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	if !info.IsDir() {
		rel, err := filepath.Rel(repo.WorkRoot, abs)
		if err != nil {
			return err
		}
		return repo.Add(filepath.ToSlash(rel))
	}

	return filepath.Walk(abs, func(walked string, wi os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if walked == repo.MetaRoot {
			return filepath.SkipDir
		}
		if wi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(repo.WorkRoot, walked)
		if err != nil {
			return err
		}
		return repo.Add(filepath.ToSlash(rel))
	})
}

func runCommit(args []string, repo *vcs.Repository) int {
	var message, author string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-m", "--message":
			if i+1 >= len(args) {
				return errorf("commit: -m requires a value")
			}
			i++
			message = args[i]
		case "-a", "--author":
			if i+1 >= len(args) {
				return errorf("commit: -a requires a value")
			}
			i++
			author = args[i]
		}
	}
	if message == "" {
		return errorf("commit: a message is required (-m)")
	}
	if author == "" {
		author = commitAuthor()
	}

	hash, err := repo.Commit(author, message)
	if err != nil {
		return errorf("commit: %v", err)
	}
	branch, err := repo.Refs.CurrentBranch()
	if err != nil {
		return errorf("commit: %v", err)
	}
	fmt.Printf("[%s %s] %s\n", branch, hash.Short(), message)
	return 0
}

func runCheckout(args []string, repo *vcs.Repository) int {
	if len(args) != 1 {
		return errorf("checkout: expected exactly one target")
	}
	if err := repo.Checkout(args[0]); err != nil {
		return errorf("checkout: %v", err)
	}
	fmt.Printf("Switched to %s\n", args[0])
	return 0
}

func runClone(args []string, _ *vcs.Repository) int {
	if len(args) < 1 {
		return errorf("clone: a source path is required")
	}
	src := args[0]
	dst := filepath.Base(filepath.Clean(src))
	if len(args) >= 2 {
		dst = args[1]
	}
	if _, err := vcs.Clone(src, dst); err != nil {
		return errorf("clone: %v", err)
	}
	fmt.Printf("Cloning into %q...\n", dst)
	return 0
}
