// internal/workspace/local.go
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlet/internal/config"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// LocalWorkspace is the working tree: the user's files next to the
// repository directory. Paths are relative to the tree root.
type LocalWorkspace struct {
	Root   string
	FS     billy.Filesystem
	Logger *zap.Logger
}

// NewLocalWorkspace opens the working tree rooted at root on disk.
func NewLocalWorkspace(root string, logger *zap.Logger) *LocalWorkspace {
	ws := New(osfs.New(root), logger)
	ws.Root = root
	return ws
}

// New wraps an arbitrary filesystem, e.g. memfs in tests.
func New(fs billy.Filesystem, logger *zap.Logger) *LocalWorkspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalWorkspace{
		Root:   fs.Root(),
		FS:     fs,
		Logger: logger,
	}
}

// Exists reports whether name is a regular file in the tree.
func (w *LocalWorkspace) Exists(name string) (bool, error) {
	info, err := w.FS.Stat(clean(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

func (w *LocalWorkspace) Read(name string) ([]byte, error) {
	data, err := util.ReadFile(w.FS, clean(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Write replaces the contents of name, creating parent directories.
func (w *LocalWorkspace) Write(name string, data []byte) error {
	name = clean(name)
	if dir := filepath.Dir(name); dir != "." {
		if err := w.FS.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(w.FS, name, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	w.Logger.Debug("wrote file", zap.String("file", name), zap.Int("size", len(data)))
	return nil
}

// Remove deletes name. A file that is already gone is not an error.
func (w *LocalWorkspace) Remove(name string) error {
	name = clean(name)
	if err := w.FS.Remove(name); err != nil {
		if os.IsNotExist(err) {
			w.Logger.Warn("file already removed", zap.String("file", name))
			return nil
		}
		return fmt.Errorf("removing %s: %w", name, err)
	}
	w.Logger.Debug("removed file", zap.String("file", name))
	return nil
}

// Files lists every regular file in the tree that is not ignored, sorted.
func (w *LocalWorkspace) Files() ([]string, error) {
	var files []string
	queue := []string{"."}
	var current string
	for len(queue) != 0 {
		current, queue = queue[0], queue[1:]
		infos, err := w.FS.ReadDir(current)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", current, err)
		}
		for _, info := range infos {
			path := filepath.Join(current, info.Name())
			if w.shouldIgnore(path) {
				continue
			}
			if info.IsDir() {
				queue = append(queue, path)
			} else {
				files = append(files, filepath.ToSlash(path))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// shouldIgnore checks if a path should be ignored
func (w *LocalWorkspace) shouldIgnore(path string) bool {
	if path == "" || path == "." {
		return false
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == config.RepoDir {
			return true
		}
		// Ignore hidden files and directories
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func clean(name string) string {
	return filepath.Clean(name)
}
