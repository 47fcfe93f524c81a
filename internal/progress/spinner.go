// Package progress renders terminal feedback for minigit's remote-sync
// commands (push, fetch, pull), which can run long enough over the local
// directory-copy transport to warrant some sign of life on stderr.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kodekeep/minigit/internal/termcolor"
)

// Operation identifies which remote-sync command a Spinner reports
// progress for, so its message is phrased the way that command's own
// output is ("pushing to", "fetching from", "pulling from") instead of
// being assembled ad hoc at each call site.
type Operation int

const (
	Pushing Operation = iota
	Fetching
	Pulling
)

func (o Operation) verb() string {
	switch o {
	case Pushing:
		return "pushing to"
	case Fetching:
		return "fetching from"
	case Pulling:
		return "pulling from"
	default:
		return "syncing with"
	}
}

// Spinner displays an animated braille spinner on stderr while a remote
// sync operation is in progress. It is only displayed when stderr is a
// TTY; in non-interactive environments (piped output, CI, scripted use)
// it is silent so it never pollutes the command's result on stdout.
type Spinner struct {
	msg  string
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{
		msg:  msg,
		done: make(chan struct{}),
	}
}

// NewRemoteSync creates a Spinner for a push, fetch, or pull against
// remote, phrasing its message from op rather than a free-form string.
func NewRemoteSync(op Operation, remote string) *Spinner {
	return New(fmt.Sprintf("%s %s", op.verb(), remote))
}

// Start begins the spinner animation in a background goroutine.
// It writes to stderr so it never pollutes stdout.
func (s *Spinner) Start() {
	if !termcolor.IsTerminal(os.Stderr.Fd()) {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-s.done:
				// Clear the spinner line.
				fmt.Fprintf(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", frames[i%len(frames)], s.msg)
				i++
			}
		}
	}()
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	select {
	case <-s.done:
		// Already stopped.
	default:
		close(s.done)
	}
	s.wg.Wait()
}
