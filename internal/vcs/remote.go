package vcs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// rejectedURLPrefixes are the network transports spec.md §4.K explicitly
// puts out of scope; remote sync only ever copies a local directory.
var rejectedURLPrefixes = []string{
	"http://", "https://", "git://", "ssh://", "git@",
}

// ValidateRemoteURL rejects any URL that looks like it names a network
// transport instead of a local filesystem path.
func ValidateRemoteURL(url string) error {
	lower := strings.ToLower(url)
	for _, prefix := range rejectedURLPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return fmt.Errorf("%w: remote sync only supports local directories, not %q", ErrInvalidArgument, url)
		}
	}
	return nil
}

// AddRemote records name -> url in the repository's config, after
// validating the URL.
func (r *Repository) AddRemote(name, url string) error {
	if err := ValidateRemoteURL(url); err != nil {
		return err
	}
	cfg, err := r.LoadConfig()
	if err != nil {
		return err
	}
	if _, exists := cfg.Remotes[name]; exists {
		return fmt.Errorf("%w: remote %q", ErrAlreadyExists, name)
	}
	cfg.Remotes[name] = RemoteConfig{Name: name, URL: url}
	return r.SaveConfig(cfg)
}

// RemoveRemote deletes a remote entry from config.
func (r *Repository) RemoveRemote(name string) error {
	cfg, err := r.LoadConfig()
	if err != nil {
		return err
	}
	if _, exists := cfg.Remotes[name]; !exists {
		return fmt.Errorf("%w: remote %q", ErrNotFound, name)
	}
	delete(cfg.Remotes, name)
	return r.SaveConfig(cfg)
}

// remoteRepository resolves name to its configured local path and opens
// it as a Repository (it need not have been `vcs.Init`-ed at that path;
// a bare meta root copy is enough).
func (r *Repository) remoteRepository(name string) (*Repository, RemoteConfig, error) {
	cfg, err := r.LoadConfig()
	if err != nil {
		return nil, RemoteConfig{}, err
	}
	rc, exists := cfg.Remotes[name]
	if !exists {
		return nil, RemoteConfig{}, fmt.Errorf("%w: remote %q", ErrNotFound, name)
	}
	remote, err := Open(rc.URL)
	if err != nil {
		return nil, RemoteConfig{}, fmt.Errorf("remote %q: %w", name, err)
	}
	return remote, rc, nil
}

// copyObjects copies every loose object file src has that dst lacks.
// Objects are content-addressed and immutable (P2), so a byte-for-byte
// copy keyed on relative path is always safe.
func copyObjects(src, dst *ObjectStore) error {
	return src.WalkObjectFiles(func(rel string) error {
		srcPath := filepath.Join(src.objectsDir, rel)
		dstPath := filepath.Join(dst.objectsDir, rel)
		if _, err := os.Stat(dstPath); err == nil {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return fmt.Errorf("io: mkdir %s: %w", filepath.Dir(dstPath), err)
		}
		in, err := os.Open(srcPath) //nolint:gosec // enumerated from the source store itself
		if err != nil {
			return fmt.Errorf("io: open %s: %w", srcPath, err)
		}
		defer in.Close()

		tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".tmp-copy-*")
		if err != nil {
			return fmt.Errorf("io: create temp object: %w", err)
		}
		tmpName := tmp.Name()
		defer func() { _ = os.Remove(tmpName) }()

		if _, err := io.Copy(tmp, in); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("io: copy object %s: %w", rel, err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("io: close temp object: %w", err)
		}
		return os.Rename(tmpName, dstPath)
	})
}

// isWorkingTreeClean reports whether every tracked path matches the index
// and no untracked files are present, the precondition spec.md §4.K
// requires before a push rewrites a remote's working tree.
func isWorkingTreeClean(repo *Repository) (bool, error) {
	idx, err := repo.LoadIndex()
	if err != nil {
		return false, err
	}
	paths, err := ScanWorkingTree(repo.WorkRoot, repo.MetaRoot)
	if err != nil {
		return false, err
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p] = true
		state, err := ClassifyFile(repo.WorkRoot, idx, p)
		if err != nil {
			return false, err
		}
		if state != StateClean {
			return false, nil
		}
	}
	for p := range idx.Entries {
		if !seen[p] {
			return false, nil // tracked but missing from disk
		}
	}
	return true, nil
}

// Push copies every object reachable from the local branch's tip, along
// with the branch ref itself, into remoteName's meta root, then
// materializes the result onto the remote's working tree. It refuses to
// touch the remote's working tree if that tree is not clean.
func (r *Repository) Push(remoteName, branch string) error {
	remote, _, err := r.remoteRepository(remoteName)
	if err != nil {
		return err
	}

	localHash, err := r.Refs.ReadBranch(branch)
	if err != nil {
		return fmt.Errorf("push: local branch %q: %w", branch, err)
	}

	if err := copyObjects(r.Store, remote.Store); err != nil {
		return fmt.Errorf("push: copying objects: %w", err)
	}
	if err := remote.Refs.WriteBranch(branch, localHash); err != nil {
		return fmt.Errorf("push: updating remote branch %q: %w", branch, err)
	}

	clean, err := isWorkingTreeClean(remote)
	if err != nil {
		return fmt.Errorf("push: checking remote working tree: %w", err)
	}
	if !clean {
		return fmt.Errorf("push: %w: remote working tree has uncommitted changes, ref updated but not checked out", ErrUncommittedChanges)
	}

	commit, err := remote.Store.LoadCommit(localHash)
	if err != nil {
		return fmt.Errorf("push: loading pushed commit: %w", err)
	}
	tree, err := remote.Store.LoadTree(commit.Tree)
	if err != nil {
		return fmt.Errorf("push: loading pushed tree: %w", err)
	}
	if err := ClearAndMaterializeTree(remote.Store, remote.WorkRoot, remote.MetaRoot, tree); err != nil {
		return fmt.Errorf("push: materializing remote working tree: %w", err)
	}
	return nil
}

// Fetch copies every object reachable from remoteName's branch, along
// with updating the corresponding remote-tracking ref, but never touches
// the local working tree or local branch.
func (r *Repository) Fetch(remoteName, branch string) error {
	remote, _, err := r.remoteRepository(remoteName)
	if err != nil {
		return err
	}

	remoteHash, err := remote.Refs.ReadBranch(branch)
	if err != nil {
		return fmt.Errorf("fetch: remote branch %q: %w", branch, err)
	}
	if err := copyObjects(remote.Store, r.Store); err != nil {
		return fmt.Errorf("fetch: copying objects: %w", err)
	}
	return r.Refs.WriteRemoteBranch(remoteName, branch, remoteHash)
}

// Pull fetches remoteName's branch and fast-forwards the local branch
// when possible (local is an ancestor of the fetched tip). Per spec.md
// §4.K, pull never merges on its own: when the fetched tip and the local
// tip have diverged, Pull leaves the local branch untouched and reports
// fastForward=false so the caller can instruct the user to run `merge`
// explicitly.
func (r *Repository) Pull(remoteName, branch string) (fastForward bool, err error) {
	if err := r.Fetch(remoteName, branch); err != nil {
		return false, err
	}
	remoteHash, err := r.Refs.ReadRemoteBranch(remoteName, branch)
	if err != nil {
		return false, err
	}

	localHash, err := r.Refs.ReadBranch(branch)
	if err != nil {
		// Unborn local branch: fast-forward trivially.
		if err := r.Refs.WriteBranch(branch, remoteHash); err != nil {
			return false, err
		}
		if err := r.checkoutBranchTip(branch, remoteHash); err != nil {
			return false, err
		}
		return true, nil
	}
	if localHash == remoteHash {
		return true, nil
	}

	isFF, err := IsAncestor(r.Store, localHash, remoteHash)
	if err != nil {
		return false, err
	}
	if !isFF {
		return false, nil
	}
	if err := r.Refs.WriteBranch(branch, remoteHash); err != nil {
		return false, err
	}
	if err := r.checkoutBranchTip(branch, remoteHash); err != nil {
		return false, err
	}
	return true, nil
}

// checkoutBranchTip materializes hash's tree onto the working tree and
// leaves HEAD symbolic at branch, used after pull updates branch in
// place so the working tree reflects the new tip immediately.
func (r *Repository) checkoutBranchTip(branch string, hash Hash) error {
	commit, err := r.Store.LoadCommit(hash)
	if err != nil {
		return err
	}
	tree, err := r.Store.LoadTree(commit.Tree)
	if err != nil {
		return err
	}
	if err := MaterializeTree(r.Store, r.WorkRoot, tree); err != nil {
		return err
	}
	return r.Refs.SetHeadSymbolic(branch)
}
