// internal/repository/staging.go
package repository

import (
	"fmt"
	"maps"
	"path/filepath"

	"gitlet/internal/commit"
	"gitlet/internal/content"
	"gitlet/internal/errors"
	"gitlet/shared/utils"

	"go.uber.org/zap"
)

// Add stages the working copy of name for the next commit.
func (r *Repository) Add(name string) error {
	name = filepath.ToSlash(filepath.Clean(name))

	ok, err := r.Workspace.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.State(errors.MsgFileDoesNotExist)
	}

	data, err := r.Workspace.Read(name)
	if err != nil {
		return err
	}
	blob := content.NewBlob(name, utils.HashContent(data), len(data))
	delete(r.State.PreviouslyStaged, name)

	// Adding a file marked for removal only cancels the removal.
	if r.State.Removed[name] {
		delete(r.State.Removed, name)
		r.Logger.Debug("unmarked removal", zap.String("file", name))
		return nil
	}

	head, err := r.head()
	if err != nil {
		return err
	}
	if tracked, ok := head.Tracks(name); ok && tracked.Digest == blob.Digest {
		if err := r.unstage(name); err != nil {
			return err
		}
		r.Logger.Debug("file matches head", zap.String("file", name))
		return nil
	}

	committed, err := r.committedOnBranch(blob)
	if err != nil {
		return err
	}
	if committed {
		r.Logger.Debug("content already committed", zap.String("file", name))
		return nil
	}

	if err := r.unstage(name); err != nil {
		return err
	}
	if _, err := r.Safe.Put(data); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	if _, err := r.Stage.Put(data); err != nil {
		return fmt.Errorf("staging %s: %w", name, err)
	}
	r.State.Staged[name] = blob

	r.Logger.Debug("staged file",
		zap.String("file", name),
		zap.String("digest", blob.Digest))
	return nil
}

// Commit records the head snapshot with staged additions and removals
// applied, and advances the active branch to it.
func (r *Repository) Commit(message string) (*commit.Commit, error) {
	if message == "" {
		return nil, errors.Usage(errors.MsgNoCommitMessage)
	}
	if r.State.Clean() {
		return nil, errors.NoOp(errors.MsgNoChanges)
	}

	head, err := r.head()
	if err != nil {
		return nil, err
	}

	snapshot := maps.Clone(head.Snapshot)
	if snapshot == nil {
		snapshot = map[string]content.Blob{}
	}
	for name, blob := range r.State.Staged {
		snapshot[name] = blob
	}
	for name := range r.State.Removed {
		delete(snapshot, name)
	}

	c, err := r.Graph.Create(message, head.ID, snapshot)
	if err != nil {
		return nil, fmt.Errorf("creating commit: %w", err)
	}
	if c.ID == head.ID {
		return nil, errors.NoOp(errors.MsgNoChanges)
	}

	if err := r.Graph.Put(c); err != nil {
		return nil, err
	}

	r.State.Branches[r.State.CurrentBranch] = c.ID
	r.State.clearStaging()
	r.State.track(c.Snapshot)
	if err := r.Stage.Clear(); err != nil {
		return nil, fmt.Errorf("clearing stage: %w", err)
	}

	r.Logger.Debug("committed",
		zap.String("commit", c.ID),
		zap.String("branch", r.State.CurrentBranch))
	return c, nil
}

// Remove un-stages name and, if the head commit tracks it, marks it for
// removal and deletes it from the working tree.
func (r *Repository) Remove(name string) error {
	name = filepath.ToSlash(filepath.Clean(name))

	head, err := r.head()
	if err != nil {
		return err
	}

	staged, isStaged := r.State.Staged[name]
	_, isTracked := head.Tracks(name)
	if !isStaged && !isTracked {
		return errors.NoOp(errors.MsgNoReasonToRemove)
	}

	delete(r.State.PreviouslyStaged, name)
	if isStaged {
		if err := r.unstage(name); err != nil {
			return err
		}
		r.State.PreviouslyStaged[name] = staged
	}

	if isTracked {
		r.State.Removed[name] = true
		if err := r.Workspace.Remove(name); err != nil {
			return err
		}
	}

	r.Logger.Debug("removed file",
		zap.String("file", name),
		zap.Bool("staged", isStaged),
		zap.Bool("tracked", isTracked))
	return nil
}

// unstage drops the staged entry for name and its stage file, unless
// another staged entry shares the content.
func (r *Repository) unstage(name string) error {
	blob, ok := r.State.Staged[name]
	if !ok {
		return nil
	}
	delete(r.State.Staged, name)

	for _, other := range r.State.Staged {
		if other.Digest == blob.Digest {
			return nil
		}
	}
	if err := r.Stage.Remove(blob.Digest); err != nil {
		return fmt.Errorf("unstaging %s: %w", name, err)
	}
	return nil
}

// committedOnBranch reports whether any commit on the active branch
// recorded blob's name with blob's content.
func (r *Repository) committedOnBranch(blob content.Blob) (bool, error) {
	history, err := r.Graph.History(r.State.Head())
	if err != nil {
		return false, err
	}
	for _, c := range history {
		if tracked, ok := c.Tracks(blob.Name); ok && tracked.Same(blob) {
			return true, nil
		}
	}
	return false, nil
}
