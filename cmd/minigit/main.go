package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/kodekeep/minigit/internal/cliapp"
	"github.com/kodekeep/minigit/internal/termcolor"
	"github.com/kodekeep/minigit/internal/vcs"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	// --version is handled before app.Run because "--" prefixed args
	// would be treated as unknown commands by the dispatcher.
	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cliapp.NewApp("minigit", version)
	app.Stderr = os.Stderr

	app.Register(&cliapp.Command{
		Name:    "init",
		Summary: "Create an empty repository",
		Usage:   "minigit init [path]",
		Run:     runInit,
	})
	app.Register(&cliapp.Command{
		Name:      "add",
		Summary:   "Stage files for the next commit",
		Usage:     "minigit add <files...>",
		Examples:  []string{"minigit add hello.txt", "minigit add ."},
		NeedsRepo: true,
		Run:       runAdd,
	})
	app.Register(&cliapp.Command{
		Name:      "commit",
		Summary:   "Record staged changes as a new commit",
		Usage:     "minigit commit -m <message> [-a <author>]",
		Examples:  []string{`minigit commit -m "first commit"`},
		NeedsRepo: true,
		Run:       runCommit,
	})
	app.Register(&cliapp.Command{
		Name:      "status",
		Summary:   "Show the working tree status",
		Usage:     "minigit status",
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runStatus(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "log",
		Summary:   "Show commit history",
		Usage:     "minigit log [-n <count>]",
		Examples:  []string{"minigit log", "minigit log -n 5"},
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runLog(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "branch",
		Summary:   "List or create branches",
		Usage:     "minigit branch [name] [-d]",
		Examples:  []string{"minigit branch", "minigit branch feature", "minigit branch -d feature"},
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runBranch(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "checkout",
		Summary:   "Switch the working tree to a branch or commit",
		Usage:     "minigit checkout <target>",
		NeedsRepo: true,
		Run:       runCheckout,
	})
	app.Register(&cliapp.Command{
		Name:     "clone",
		Summary:  "Copy a local repository into a new directory",
		Usage:    "minigit clone <path> [dir]",
		Examples: []string{"minigit clone ../upstream myclone"},
		Run:      runClone,
	})
	app.Register(&cliapp.Command{
		Name:      "diff",
		Summary:   "Show changes between the working tree and the index",
		Usage:     "minigit diff [files...]",
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runDiff(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "merge",
		Summary:   "Merge a branch into the current branch",
		Usage:     "minigit merge <branch> [-a <author>]",
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runMerge(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "push",
		Summary:   "Update a remote repository from the current branch",
		Usage:     "minigit push [remote] [branch]",
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runPush(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "pull",
		Summary:   "Fetch a remote branch and fast-forward if possible",
		Usage:     "minigit pull [remote] [branch]",
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runPull(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:      "fetch",
		Summary:   "Download objects and refs from a remote",
		Usage:     "minigit fetch [remote] [branch]",
		NeedsRepo: true,
		Run:       runFetch,
	})
	app.Register(&cliapp.Command{
		Name:      "remote",
		Summary:   "Manage remote repository entries",
		Usage:     "minigit remote [add|remove|rm|set-url|get-url|-v] [name] [url]",
		Examples:  []string{"minigit remote add origin ../upstream", "minigit remote -v"},
		NeedsRepo: true,
		Run:       runRemote,
	})
	app.Register(&cliapp.Command{
		Name:      "stash",
		Summary:   "Stash working tree and index changes",
		Usage:     "minigit stash [push|pop|list|show|drop|clear] [-m <msg>] [-i <n>]",
		NeedsRepo: true,
		Run:       func(args []string, repo *vcs.Repository) int { return runStash(args, repo, cw) },
	})
	app.Register(&cliapp.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "minigit version",
		Run:     func([]string, *vcs.Repository) int { printVersion(); return 0 },
	})

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("minigit %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
