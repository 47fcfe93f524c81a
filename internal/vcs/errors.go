// Package vcs implements the content-addressed object store, index,
// reference store, commit-graph algorithms, diff engine, merge engine,
// checkout, stash, and directory-copy remote sync of a miniature
// version-control system modeled on Git.
package vcs

import "errors"

// Sentinel errors returned at component boundaries. Callers should use
// errors.Is against these values; wrapped context is added with %w.
var (
	// ErrNotARepository is returned when an operation targets a directory
	// that has no meta root (".mini_git" by convention).
	ErrNotARepository = errors.New("not a mini_git repository")

	// ErrAlreadyExists is returned by Init/Clone when the target already
	// contains a repository.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound covers a missing branch, remote, object, stash index,
	// or working-tree path.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument covers malformed or self-contradictory requests:
	// a malformed hash, a network remote URL, merging with a detached
	// HEAD, merging a branch into itself, etc.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorrupt is returned when stored bytes cannot be decoded, or an
	// invariant is found violated while loading an object.
	ErrCorrupt = errors.New("corrupt object")

	// ErrUncommittedChanges is returned by the push-side remote-update
	// check when the remote's working tree is not clean.
	ErrUncommittedChanges = errors.New("uncommitted changes")
)
