// internal/repository/checkout.go
package repository

import (
	stderrors "errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"gitlet/internal/commit"
	"gitlet/internal/errors"

	"go.uber.org/zap"
)

// CheckoutFile restores name from the head of the active branch.
func (r *Repository) CheckoutFile(name string) error {
	head, err := r.head()
	if err != nil {
		return err
	}
	return r.restoreFile(head, name)
}

// CheckoutFileAt restores name from the commit identified by id, which may
// be abbreviated.
func (r *Repository) CheckoutFileAt(id, name string) error {
	c, err := r.resolve(id)
	if err != nil {
		return err
	}
	return r.restoreFile(c, name)
}

// CheckoutBranch makes name the active branch and replaces the working
// tree with its head snapshot.
func (r *Repository) CheckoutBranch(name string) error {
	headID, ok := r.State.Branches[name]
	if !ok {
		return errors.State(errors.MsgNoSuchBranch)
	}
	if name == r.State.CurrentBranch {
		return errors.NoOp(errors.MsgCurrentBranch)
	}

	target, err := r.Graph.Get(headID)
	if err != nil {
		return err
	}
	if err := r.checkUntracked(target); err != nil {
		return err
	}
	if err := r.replaceTree(target); err != nil {
		return err
	}

	r.State.CurrentBranch = name
	r.Logger.Debug("switched branch",
		zap.String("branch", name),
		zap.String("commit", target.ID))
	return nil
}

// Reset checks out every file of the given commit and moves the active
// branch head to it.
func (r *Repository) Reset(id string) error {
	target, err := r.resolve(id)
	if err != nil {
		return err
	}
	if err := r.checkUntracked(target); err != nil {
		return err
	}
	if err := r.replaceTree(target); err != nil {
		return err
	}

	r.State.Branches[r.State.CurrentBranch] = target.ID
	r.Logger.Debug("reset branch",
		zap.String("branch", r.State.CurrentBranch),
		zap.String("commit", target.ID))
	return nil
}

// Branch creates name at the current head without switching to it.
func (r *Repository) Branch(name string) error {
	if _, ok := r.State.Branches[name]; ok {
		return errors.State(errors.MsgBranchExists)
	}
	r.State.Branches[name] = r.State.Head()
	return nil
}

// RemoveBranch deletes the pointer name. Commits are kept.
func (r *Repository) RemoveBranch(name string) error {
	if _, ok := r.State.Branches[name]; !ok {
		return errors.State(errors.MsgBranchMissing)
	}
	if name == r.State.CurrentBranch {
		return errors.State(errors.MsgRemoveCurrent)
	}
	delete(r.State.Branches, name)
	return nil
}

// Merge validates that name could be merged into the active branch.
// Combining snapshots is not supported; when every check passes nothing
// changes.
func (r *Repository) Merge(name string) error {
	if !r.State.Clean() {
		return errors.State(errors.MsgUncommitted)
	}
	if _, ok := r.State.Branches[name]; !ok {
		return errors.State(errors.MsgBranchMissing)
	}
	if name == r.State.CurrentBranch {
		return errors.State(errors.MsgMergeWithSelf)
	}

	head, err := r.head()
	if err != nil {
		return err
	}
	if err := r.checkUntracked(head); err != nil {
		return err
	}

	r.Logger.Debug("merge preconditions passed", zap.String("branch", name))
	return nil
}

func (r *Repository) resolve(id string) (*commit.Commit, error) {
	c, err := r.Graph.Resolve(id)
	switch {
	case err == nil:
		return c, nil
	case stderrors.Is(err, commit.ErrNotFound):
		return nil, errors.State(errors.MsgNoSuchCommit)
	case stderrors.Is(err, commit.ErrAmbiguous):
		return nil, errors.State(errors.MsgAmbiguousCommit)
	default:
		return nil, err
	}
}

func (r *Repository) restoreFile(c *commit.Commit, name string) error {
	name = filepath.ToSlash(filepath.Clean(name))

	blob, ok := c.Tracks(name)
	if !ok {
		return errors.State(errors.MsgFileNotInCommit)
	}
	data, err := r.Safe.Get(blob.Digest)
	if err != nil {
		return fmt.Errorf("reading %s at %s: %w", name, c.ID, err)
	}
	return r.Workspace.Write(name, data)
}

// checkUntracked fails if target would overwrite a working file that is
// neither staged nor tracked.
func (r *Repository) checkUntracked(target *commit.Commit) error {
	files, err := r.Workspace.Files()
	if err != nil {
		return err
	}
	for _, name := range files {
		if _, ok := r.State.Staged[name]; ok {
			continue
		}
		if _, ok := r.State.Tracked[name]; ok {
			continue
		}
		if _, ok := target.Tracks(name); ok {
			r.Logger.Debug("untracked file in the way",
				zap.String("file", name),
				zap.String("commit", target.ID))
			return errors.Safety(errors.MsgUntrackedInTheWay)
		}
	}
	return nil
}

// replaceTree writes every file of target, deletes tracked files target
// lacks, and clears the staging area. All content is read before the
// first write.
func (r *Repository) replaceTree(target *commit.Commit) error {
	names := slices.Sorted(maps.Keys(target.Snapshot))
	digests := make([]string, len(names))
	for i, name := range names {
		digests[i] = target.Snapshot[name].Digest
	}
	contents, err := r.Safe.GetBatch(digests)
	if err != nil {
		return fmt.Errorf("reading snapshot of %s: %w", target.ID, err)
	}

	for i, name := range names {
		if err := r.Workspace.Write(name, contents[i]); err != nil {
			return err
		}
	}
	for name := range r.State.Tracked {
		if _, ok := target.Snapshot[name]; ok {
			continue
		}
		if err := r.Workspace.Remove(name); err != nil {
			return err
		}
	}

	r.State.track(target.Snapshot)
	r.State.clearStaging()
	if err := r.Stage.Clear(); err != nil {
		return fmt.Errorf("clearing stage: %w", err)
	}
	return nil
}
