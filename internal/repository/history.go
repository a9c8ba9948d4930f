// internal/repository/history.go
package repository

import (
	"gitlet/internal/commit"
	"gitlet/internal/errors"
	"gitlet/shared/types"
	"gitlet/shared/utils"
)

// Log returns the active branch history, newest first.
func (r *Repository) Log() ([]shared.LogEntry, error) {
	history, err := r.Graph.History(r.State.Head())
	if err != nil {
		return nil, err
	}
	return entries(history), nil
}

// GlobalLog returns every commit ever made, in storage order.
func (r *Repository) GlobalLog() ([]shared.LogEntry, error) {
	all, err := r.Graph.List()
	if err != nil {
		return nil, err
	}
	return entries(all), nil
}

// Find returns the ids of commits with exactly message.
func (r *Repository) Find(message string) ([]string, error) {
	ids, err := r.Graph.FindByMessage(message)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.NoOp(errors.MsgNoCommitFound)
	}
	return ids, nil
}

func (r *Repository) Status() *shared.Status {
	return &shared.Status{
		CurrentBranch: r.State.CurrentBranch,
		Branches:      utils.SortedKeys(r.State.Branches),
		Staged:        utils.SortedKeys(r.State.Staged),
		Removed:       utils.SortedKeys(r.State.Removed),
		Modified:      []string{},
		Untracked:     []string{},
	}
}

func entries(commits []*commit.Commit) []shared.LogEntry {
	out := make([]shared.LogEntry, len(commits))
	for i, c := range commits {
		out[i] = shared.LogEntry{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			Message:   c.Message,
		}
	}
	return out
}
