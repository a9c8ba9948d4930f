package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gitlet/internal/commit"
	"gitlet/internal/config"
	"gitlet/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(inMemory bool) *config.Config {
	cfg := config.Default()
	cfg.Database.InMemory = inMemory
	return cfg
}

// setupTestRepo initializes a repository backed by an in-memory database.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	r, err := Init(t.TempDir(), testConfig(true), nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	return r
}

func writeFile(t *testing.T, r *Repository, name, data string) {
	t.Helper()
	path := filepath.Join(r.Root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func readFile(t *testing.T, r *Repository, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.Root, name))
	require.NoError(t, err)
	return string(data)
}

func fileExists(r *Repository, name string) bool {
	_, err := os.Stat(filepath.Join(r.Root, name))
	return err == nil
}

func requireDiag(t *testing.T, err error, kind errors.ErrorType, message string) {
	t.Helper()
	require.Error(t, err)
	e, ok := errors.As(err)
	require.True(t, ok, "expected a diagnostic, got %v", err)
	assert.Equal(t, kind, e.Type)
	assert.Equal(t, message, e.Message)
}

func commitFile(t *testing.T, r *Repository, name, data, message string) *commit.Commit {
	t.Helper()
	writeFile(t, r, name, data)
	require.NoError(t, r.Add(name))
	c, err := r.Commit(message)
	require.NoError(t, err)
	return c
}

func TestInit(t *testing.T) {
	r := setupTestRepo(t)

	assert.Equal(t, config.DefaultBranch, r.State.CurrentBranch)
	assert.True(t, r.State.Clean())

	head, err := r.head()
	require.NoError(t, err)
	assert.Equal(t, commit.RootMessage, head.Message)
	assert.Equal(t, commit.RootTimestamp, head.Timestamp)
	assert.Empty(t, head.Snapshot)

	t.Run("root ids match across repositories", func(t *testing.T) {
		other := setupTestRepo(t)
		assert.Equal(t, r.State.Head(), other.State.Head())
	})

	t.Run("refuses to initialize twice", func(t *testing.T) {
		_, err := Init(r.Root, testConfig(true), nil)
		requireDiag(t, err, errors.ErrorTypeState, errors.MsgAlreadyExists)
	})

	t.Run("open outside a repository", func(t *testing.T) {
		_, err := Open(t.TempDir(), testConfig(false), nil)
		requireDiag(t, err, errors.ErrorTypeUsage, errors.MsgNotInitialized)
	})
}

func TestInitFailureLeavesNoRepository(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(false)

	openStores = func(string, *config.Config, *zap.Logger) (*Repository, error) {
		return nil, fmt.Errorf("opening database: disk full")
	}
	t.Cleanup(func() { openStores = open })

	_, err := Init(dir, cfg, nil)
	require.ErrorContains(t, err, "disk full")
	_, err = os.Stat(filepath.Join(dir, config.RepoDir))
	assert.True(t, os.IsNotExist(err))

	openStores = open
	r, err := Init(dir, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, r.Save())
	require.NoError(t, r.Close())

	r, err = Open(dir, cfg, nil)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, config.DefaultBranch, r.State.CurrentBranch)
}

func TestAddAndCommit(t *testing.T) {
	r := setupTestRepo(t)
	root := r.State.Head()

	writeFile(t, r, "a.txt", "hi")
	require.NoError(t, r.Add("a.txt"))
	assert.Contains(t, r.State.Staged, "a.txt")

	n, err := r.Stage.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c, err := r.Commit("m")
	require.NoError(t, err)

	assert.Equal(t, root, c.ParentID)
	assert.Equal(t, c.ID, r.State.Head())
	assert.True(t, r.State.Clean())
	assert.Contains(t, r.State.Tracked, "a.txt")

	blob, ok := c.Tracks("a.txt")
	require.True(t, ok)
	data, err := r.Safe.Get(blob.Digest)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	n, err = r.Stage.Len()
	require.NoError(t, err)
	assert.Zero(t, n, "stage files are dropped after commit")
}

func TestAdd(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := setupTestRepo(t)
		err := r.Add("nope.txt")
		requireDiag(t, err, errors.ErrorTypeState, errors.MsgFileDoesNotExist)
	})

	t.Run("unchanged file is not staged", func(t *testing.T) {
		r := setupTestRepo(t)
		commitFile(t, r, "a.txt", "v1", "first")

		require.NoError(t, r.Add("a.txt"))
		assert.Empty(t, r.State.Staged)
	})

	t.Run("reverting drops the stale staged entry", func(t *testing.T) {
		r := setupTestRepo(t)
		commitFile(t, r, "a.txt", "v1", "first")

		writeFile(t, r, "a.txt", "v2")
		require.NoError(t, r.Add("a.txt"))
		require.Contains(t, r.State.Staged, "a.txt")

		writeFile(t, r, "a.txt", "v1")
		require.NoError(t, r.Add("a.txt"))
		assert.Empty(t, r.State.Staged)

		n, err := r.Stage.Len()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("restaging replaces the previous entry", func(t *testing.T) {
		r := setupTestRepo(t)

		writeFile(t, r, "a.txt", "one")
		require.NoError(t, r.Add("a.txt"))
		writeFile(t, r, "a.txt", "two")
		require.NoError(t, r.Add("a.txt"))

		require.Len(t, r.State.Staged, 1)
		data, err := r.Safe.Get(r.State.Staged["a.txt"].Digest)
		require.NoError(t, err)
		assert.Equal(t, "two", string(data))

		n, err := r.Stage.Len()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("content committed earlier on the branch is a no-op", func(t *testing.T) {
		r := setupTestRepo(t)
		commitFile(t, r, "a.txt", "v1", "first")
		commitFile(t, r, "a.txt", "v2", "second")

		writeFile(t, r, "a.txt", "v1")
		require.NoError(t, r.Add("a.txt"))
		assert.Empty(t, r.State.Staged)
	})

	t.Run("add cancels a pending removal", func(t *testing.T) {
		r := setupTestRepo(t)
		commitFile(t, r, "a.txt", "v1", "first")

		require.NoError(t, r.Remove("a.txt"))
		writeFile(t, r, "a.txt", "v1")
		require.NoError(t, r.Add("a.txt"))

		assert.True(t, r.State.Clean())
	})
}

func TestCommit(t *testing.T) {
	t.Run("empty message", func(t *testing.T) {
		r := setupTestRepo(t)
		_, err := r.Commit("")
		requireDiag(t, err, errors.ErrorTypeUsage, errors.MsgNoCommitMessage)
	})

	t.Run("nothing staged", func(t *testing.T) {
		r := setupTestRepo(t)
		head := r.State.Head()

		before, err := r.Graph.List()
		require.NoError(t, err)

		_, err = r.Commit("nothing")
		requireDiag(t, err, errors.ErrorTypeNoOp, errors.MsgNoChanges)

		after, err := r.Graph.List()
		require.NoError(t, err)
		assert.Equal(t, head, r.State.Head())
		assert.Len(t, after, len(before))
	})

	t.Run("inherits unchanged files", func(t *testing.T) {
		r := setupTestRepo(t)
		commitFile(t, r, "a.txt", "a", "first")
		c := commitFile(t, r, "b.txt", "b", "second")

		assert.Contains(t, c.Snapshot, "a.txt")
		assert.Contains(t, c.Snapshot, "b.txt")
	})
}

func TestRemove(t *testing.T) {
	t.Run("tracked file", func(t *testing.T) {
		r := setupTestRepo(t)
		commitFile(t, r, "a.txt", "hi", "first")

		require.NoError(t, r.Remove("a.txt"))
		assert.False(t, fileExists(r, "a.txt"))
		assert.True(t, r.State.Removed["a.txt"])

		c, err := r.Commit("drop a")
		require.NoError(t, err)
		assert.NotContains(t, c.Snapshot, "a.txt")
		assert.NotContains(t, r.State.Tracked, "a.txt")
	})

	t.Run("staged only", func(t *testing.T) {
		r := setupTestRepo(t)
		writeFile(t, r, "new.txt", "x")
		require.NoError(t, r.Add("new.txt"))

		require.NoError(t, r.Remove("new.txt"))
		assert.True(t, fileExists(r, "new.txt"), "untracked files stay on disk")
		assert.Empty(t, r.State.Staged)
		assert.Empty(t, r.State.Removed)
		assert.Contains(t, r.State.PreviouslyStaged, "new.txt")
	})

	t.Run("nothing to remove", func(t *testing.T) {
		r := setupTestRepo(t)
		writeFile(t, r, "loose.txt", "x")
		err := r.Remove("loose.txt")
		requireDiag(t, err, errors.ErrorTypeNoOp, errors.MsgNoReasonToRemove)
	})
}

func TestCheckoutFile(t *testing.T) {
	r := setupTestRepo(t)
	first := commitFile(t, r, "a.txt", "v1", "first")
	commitFile(t, r, "a.txt", "v2", "second")

	writeFile(t, r, "a.txt", "scratch")
	require.NoError(t, r.CheckoutFile("a.txt"))
	assert.Equal(t, "v2", readFile(t, r, "a.txt"))

	require.NoError(t, r.CheckoutFileAt(first.ID[:6], "a.txt"))
	assert.Equal(t, "v1", readFile(t, r, "a.txt"))
	assert.Empty(t, r.State.Staged, "checked out files are not staged")

	err := r.CheckoutFile("missing.txt")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgFileNotInCommit)

	err = r.CheckoutFileAt("ffffffffff", "a.txt")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgNoSuchCommit)
}

func TestCheckoutBranch(t *testing.T) {
	r := setupTestRepo(t)
	require.NoError(t, r.Branch("other"))
	commitFile(t, r, "f.txt", "master", "on master")

	t.Run("unknown and current branch", func(t *testing.T) {
		err := r.CheckoutBranch("nope")
		requireDiag(t, err, errors.ErrorTypeState, errors.MsgNoSuchBranch)

		err = r.CheckoutBranch(config.DefaultBranch)
		requireDiag(t, err, errors.ErrorTypeNoOp, errors.MsgCurrentBranch)
	})

	t.Run("switch removes files the branch lacks", func(t *testing.T) {
		writeFile(t, r, "pending.txt", "p")
		require.NoError(t, r.Add("pending.txt"))

		require.NoError(t, r.CheckoutBranch("other"))
		assert.Equal(t, "other", r.State.CurrentBranch)
		assert.False(t, fileExists(r, "f.txt"))
		assert.True(t, r.State.Clean())
		assert.Empty(t, r.State.Tracked)
	})

	t.Run("untracked file in the way", func(t *testing.T) {
		writeFile(t, r, "f.txt", "mine")
		tracked := len(r.State.Tracked)

		err := r.CheckoutBranch(config.DefaultBranch)
		requireDiag(t, err, errors.ErrorTypeSafety, errors.MsgUntrackedInTheWay)

		assert.Equal(t, "other", r.State.CurrentBranch)
		assert.Equal(t, "mine", readFile(t, r, "f.txt"))
		assert.Len(t, r.State.Tracked, tracked)
	})

	t.Run("switch back restores files", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(r.Root, "f.txt")))
		require.NoError(t, r.CheckoutBranch(config.DefaultBranch))
		assert.Equal(t, "master", readFile(t, r, "f.txt"))
		assert.Contains(t, r.State.Tracked, "f.txt")
	})
}

func TestReset(t *testing.T) {
	r := setupTestRepo(t)
	first := commitFile(t, r, "a.txt", "v1", "first")
	writeFile(t, r, "b.txt", "b")
	require.NoError(t, r.Add("b.txt"))
	writeFile(t, r, "a.txt", "v2")
	require.NoError(t, r.Add("a.txt"))
	_, err := r.Commit("second")
	require.NoError(t, err)

	err = r.Reset("0000000")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgNoSuchCommit)

	writeFile(t, r, "c.txt", "staged")
	require.NoError(t, r.Add("c.txt"))

	require.NoError(t, r.Reset(first.ID[:8]))
	assert.Equal(t, first.ID, r.State.Head())
	assert.Equal(t, "v1", readFile(t, r, "a.txt"))
	assert.False(t, fileExists(r, "b.txt"))
	assert.True(t, fileExists(r, "c.txt"), "staged files are left in the tree")
	assert.True(t, r.State.Clean())

	t.Run("untracked file in the way", func(t *testing.T) {
		other := setupTestRepo(t)
		c := commitFile(t, other, "x.txt", "x", "x")
		require.NoError(t, other.Remove("x.txt"))
		_, err := other.Commit("drop x")
		require.NoError(t, err)

		writeFile(t, other, "x.txt", "local")
		err = other.Reset(c.ID)
		requireDiag(t, err, errors.ErrorTypeSafety, errors.MsgUntrackedInTheWay)
		assert.Equal(t, "local", readFile(t, other, "x.txt"))
	})
}

func TestBranches(t *testing.T) {
	r := setupTestRepo(t)

	require.NoError(t, r.Branch("feature"))
	assert.Equal(t, r.State.Head(), r.State.Branches["feature"])
	assert.Equal(t, config.DefaultBranch, r.State.CurrentBranch)

	err := r.Branch("feature")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgBranchExists)

	err = r.RemoveBranch("nope")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgBranchMissing)

	err = r.RemoveBranch(config.DefaultBranch)
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgRemoveCurrent)

	require.NoError(t, r.RemoveBranch("feature"))
	assert.NotContains(t, r.State.Branches, "feature")
}

func TestMerge(t *testing.T) {
	r := setupTestRepo(t)
	require.NoError(t, r.Branch("feature"))

	writeFile(t, r, "a.txt", "a")
	require.NoError(t, r.Add("a.txt"))
	err := r.Merge("feature")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgUncommitted)

	_, err = r.Commit("a")
	require.NoError(t, err)
	head := r.State.Head()

	err = r.Merge("nope")
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgBranchMissing)

	err = r.Merge(config.DefaultBranch)
	requireDiag(t, err, errors.ErrorTypeState, errors.MsgMergeWithSelf)

	require.NoError(t, r.Merge("feature"))
	assert.Equal(t, head, r.State.Head())
	assert.True(t, r.State.Clean())
}
