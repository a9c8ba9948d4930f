// internal/commit/graph.go
package commit

import (
	"errors"
	"fmt"
	"time"

	"gitlet/internal/content"
	"gitlet/internal/storage"
	"gitlet/shared/utils"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("commit not found")
	ErrAmbiguous    = errors.New("commit id is ambiguous")
	ErrEmptyMessage = errors.New("commit message is required")
)

const messageIndex = "msg"

// Graph persists commits in badger and resolves them by id, id prefix or
// message. Commits are only ever added.
type Graph struct {
	store  *storage.BadgerStore
	blobs  content.Store
	cache  *lru.Cache[string, *Commit]
	logger *zap.Logger

	// Now stamps new non-root commits.
	Now func() time.Time
}

func NewGraph(db *badger.DB, blobs content.Store, cacheSize int, logger *zap.Logger) (*Graph, error) {
	if cacheSize <= 0 {
		cacheSize = 1000
	}
	cache, err := lru.New[string, *Commit](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating commit cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Graph{
		store:  storage.NewBadgerStore(db, "commit"),
		blobs:  blobs,
		cache:  cache,
		logger: logger,
		Now:    time.Now,
	}, nil
}

// Create builds a commit without storing it. An empty parentID yields the
// root commit, whose timestamp is fixed and whose snapshot is empty.
func (g *Graph) Create(message, parentID string, snapshot map[string]content.Blob) (*Commit, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	c := &Commit{
		Kind:     content.KindCommit,
		Message:  message,
		ParentID: parentID,
		Snapshot: map[string]content.Blob{},
	}

	if parentID == "" {
		c.Timestamp = RootTimestamp
		c.ID = ComputeID(message, c.Timestamp, "", nil)
		return c, nil
	}

	files := make(map[string][]byte, len(snapshot))
	for name, blob := range snapshot {
		data, err := g.blobs.Get(blob.Digest)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		files[name] = data
		c.Snapshot[name] = blob
	}

	c.Timestamp = g.Now().Format(TimeLayout)
	c.ID = ComputeID(message, c.Timestamp, parentID, files)
	return c, nil
}

// Put stores c and its message index entry. Storing an id that is already
// present does nothing.
func (g *Graph) Put(c *Commit) error {
	ok, err := g.store.Has(c.ID)
	if err != nil {
		return fmt.Errorf("checking commit %s: %w", c.ID, err)
	}
	if ok {
		return nil
	}

	idx := storage.Index{Name: messageIndex, Value: utils.HashContent([]byte(c.Message))}
	if err := g.store.Create(c, idx); err != nil {
		return fmt.Errorf("storing commit %s: %w", c.ID, err)
	}

	g.cache.Add(c.ID, c)
	g.logger.Debug("stored commit",
		zap.String("commit", c.ID),
		zap.String("parent", c.ParentID),
		zap.Int("files", len(c.Snapshot)))
	return nil
}

func (g *Graph) Get(id string) (*Commit, error) {
	if c, ok := g.cache.Get(id); ok {
		return c, nil
	}

	c := &Commit{}
	if err := g.store.Get(id, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	if c.Snapshot == nil {
		c.Snapshot = map[string]content.Blob{}
	}

	g.cache.Add(id, c)
	return c, nil
}

// Resolve finds the single commit whose id starts with prefix.
func (g *Graph) Resolve(prefix string) (*Commit, error) {
	if prefix == "" {
		return nil, ErrNotFound
	}

	ids, err := g.store.MatchPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", prefix, err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return g.Get(ids[0])
	default:
		return nil, fmt.Errorf("%w: %s matches %d commits", ErrAmbiguous, prefix, len(ids))
	}
}

// List returns every stored commit in id order.
func (g *Graph) List() ([]*Commit, error) {
	var commits []*Commit
	if err := g.store.List(&commits); err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	return commits, nil
}

// FindByMessage returns the ids of commits whose message is exactly message.
func (g *Graph) FindByMessage(message string) ([]string, error) {
	ids, err := g.store.Lookup(messageIndex, utils.HashContent([]byte(message)))
	if err != nil {
		return nil, fmt.Errorf("finding commits: %w", err)
	}
	return ids, nil
}

// History walks parent pointers from headID, newest first. The root is last.
func (g *Graph) History(headID string) ([]*Commit, error) {
	var history []*Commit
	for id := headID; ; {
		c, err := g.Get(id)
		if err != nil {
			return nil, err
		}
		history = append(history, c)
		if c.IsRoot() {
			return history, nil
		}
		id = c.ParentID
	}
}
