// internal/repository/repository.go
package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"gitlet/internal/commit"
	"gitlet/internal/config"
	"gitlet/internal/content"
	"gitlet/internal/errors"
	"gitlet/internal/safe"
	"gitlet/internal/workspace"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Repository ties the stores under .gitlet to the working tree. Every
// command runs against one Repository and calls Save only on success.
type Repository struct {
	Root   string // working tree
	Dir    string // Root/.gitlet
	Config *config.Config
	Logger *zap.Logger

	DB        *badger.DB
	Safe      *safe.Safe
	Stage     *content.FileStore
	Graph     *commit.Graph
	Workspace *workspace.LocalWorkspace
	State     *State

	states *stateStore
}

// Init creates a repository in root with a single root commit on the
// default branch. A failed Init removes the .gitlet directory it created.
func Init(root string, cfg *config.Config, logger *zap.Logger) (_ *Repository, err error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path for root %s: %w", root, err)
	}

	dir := filepath.Join(absPath, config.RepoDir)
	if _, err := os.Stat(dir); err == nil {
		return nil, errors.State(errors.MsgAlreadyExists)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	for _, sub := range []string{"db", "objects", "stage"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", sub, err)
		}
	}

	r, err := openStores(absPath, cfg, logger)
	if err != nil {
		return nil, err
	}

	initial, err := r.Graph.Create(commit.RootMessage, "", nil)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("creating root commit: %w", err)
	}
	if err := r.Graph.Put(initial); err != nil {
		r.Close()
		return nil, err
	}

	r.State = newState(r.Config.DefaultBranch, initial.ID)
	if err := r.states.create(r.State); err != nil {
		r.Close()
		return nil, err
	}

	r.Logger.Debug("initialized repository",
		zap.String("root", absPath),
		zap.String("commit", initial.ID))
	return r, nil
}

// Open loads the repository in root. Running outside a repository is a
// usage error.
func Open(root string, cfg *config.Config, logger *zap.Logger) (*Repository, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path for root %s: %w", root, err)
	}

	info, err := os.Stat(filepath.Join(absPath, config.RepoDir))
	if err != nil || !info.IsDir() {
		return nil, errors.Usage(errors.MsgNotInitialized)
	}

	r, err := openStores(absPath, cfg, logger)
	if err != nil {
		return nil, err
	}

	r.State, err = r.states.load()
	if err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// openStores is replaced in tests to simulate storage failures.
var openStores = open

func open(root string, cfg *config.Config, logger *zap.Logger) (*Repository, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Join(root, config.RepoDir)

	opts := badger.DefaultOptions(filepath.Join(dir, "db"))
	if cfg.Database.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable logging noise

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	contentSafe, err := safe.New(db, safe.Options{
		Root:      filepath.Join(dir, "objects"),
		CacheSize: cfg.Cache.Size,
		Compression: safe.CompressionOptions{
			MinSize: cfg.Compression.MinSize,
			Level:   cfg.Compression.Level,
		},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing content safe: %w", err)
	}

	stage, err := content.NewFileStore(filepath.Join(dir, "stage"))
	if err != nil {
		contentSafe.Close()
		db.Close()
		return nil, err
	}

	graph, err := commit.NewGraph(db, contentSafe, cfg.Cache.Size, logger)
	if err != nil {
		contentSafe.Close()
		db.Close()
		return nil, fmt.Errorf("initializing commit graph: %w", err)
	}

	return &Repository{
		Root:      root,
		Dir:       dir,
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Safe:      contentSafe,
		Stage:     stage,
		Graph:     graph,
		Workspace: workspace.NewLocalWorkspace(root, logger),
		states:    newStateStore(db),
	}, nil
}

// Save persists State. Callers skip it when a command fails.
func (r *Repository) Save() error {
	return r.states.save(r.State)
}

func (r *Repository) Close() error {
	r.Safe.Close()
	if err := r.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// head returns the head commit of the active branch.
func (r *Repository) head() (*commit.Commit, error) {
	c, err := r.Graph.Get(r.State.Head())
	if err != nil {
		return nil, fmt.Errorf("loading head of %s: %w", r.State.CurrentBranch, err)
	}
	return c, nil
}
