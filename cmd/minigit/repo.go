package main

import (
	"fmt"
	"os"
)

// errorf prints a "minigit: ..." message to stderr and returns 1 for the
// caller to use as the command's exit code, for errors that are a
// command's final action rather than a hard abort.
func errorf(format string, a ...any) int {
	fmt.Fprintf(os.Stderr, "minigit: "+format+"\n", a...)
	return 1
}
