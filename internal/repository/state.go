// internal/repository/state.go
package repository

import (
	"fmt"
	"maps"

	"gitlet/internal/content"
	"gitlet/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

const stateID = "state"

// State is the mutable part of a repository. It is loaded once per command
// and written back whole by Save.
type State struct {
	CurrentBranch string            `json:"current_branch"`
	Branches      map[string]string `json:"branches"` // branch name -> head commit id

	Staged  map[string]content.Blob `json:"staged"`
	Removed map[string]bool         `json:"removed"`

	// Tracked mirrors the snapshot last written to the working tree by
	// init, commit, checkout of a branch or reset.
	Tracked map[string]content.Blob `json:"tracked"`

	// PreviouslyStaged records files un-staged by rm. Reported nowhere;
	// kept for inspection.
	PreviouslyStaged map[string]content.Blob `json:"previously_staged"`
}

func newState(branch, head string) *State {
	st := &State{
		CurrentBranch: branch,
		Branches:      map[string]string{branch: head},
	}
	st.ensure()
	return st
}

func (s *State) GetID() string {
	return stateID
}

// Clean reports whether nothing is staged for addition or removal.
func (s *State) Clean() bool {
	return len(s.Staged) == 0 && len(s.Removed) == 0
}

// Head returns the head commit id of the active branch.
func (s *State) Head() string {
	return s.Branches[s.CurrentBranch]
}

func (s *State) clearStaging() {
	s.Staged = map[string]content.Blob{}
	s.Removed = map[string]bool{}
}

func (s *State) track(snapshot map[string]content.Blob) {
	s.Tracked = maps.Clone(snapshot)
	if s.Tracked == nil {
		s.Tracked = map[string]content.Blob{}
	}
}

func (s *State) ensure() {
	if s.Branches == nil {
		s.Branches = map[string]string{}
	}
	if s.Staged == nil {
		s.Staged = map[string]content.Blob{}
	}
	if s.Removed == nil {
		s.Removed = map[string]bool{}
	}
	if s.Tracked == nil {
		s.Tracked = map[string]content.Blob{}
	}
	if s.PreviouslyStaged == nil {
		s.PreviouslyStaged = map[string]content.Blob{}
	}
}

// stateStore keeps the single State record under repository:state.
type stateStore struct {
	store *storage.BadgerStore
}

func newStateStore(db *badger.DB) *stateStore {
	return &stateStore{
		store: storage.NewBadgerStore(db, "repository"),
	}
}

func (s *stateStore) create(st *State) error {
	if err := s.store.Create(st); err != nil {
		return fmt.Errorf("creating repository state: %w", err)
	}
	return nil
}

func (s *stateStore) load() (*State, error) {
	st := &State{}
	if err := s.store.Get(stateID, st); err != nil {
		return nil, fmt.Errorf("loading repository state: %w", err)
	}
	st.ensure()
	return st, nil
}

func (s *stateStore) save(st *State) error {
	if err := s.store.Update(st); err != nil {
		return fmt.Errorf("saving repository state: %w", err)
	}
	return nil
}
