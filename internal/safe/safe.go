// internal/safe/safe.go
package safe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlet/shared/utils"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrInvalidHash     = errors.New("invalid content hash")
)

const metaPrefix = "content:"

// ContentMeta stores metadata about stored content
type ContentMeta struct {
	Hash       string    `json:"hash"`
	Size       int64     `json:"size"`
	Compressed bool      `json:"compressed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Safe is the append-only, content-addressed blob store. Objects are written
// once under their digest and never updated or deleted.
type Safe struct {
	root  string                     // Root directory for content files
	db    *badger.DB                 // Metadata database
	cache *lru.Cache[string, []byte] // Content cache
	cm    *compressionManager
}

// Options configures Safe behavior
type Options struct {
	Root        string // Root directory path
	CacheSize   int    // Number of items to cache
	Compression CompressionOptions
}

// New creates a new Safe instance
func New(db *badger.DB, opts Options) (*Safe, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	// Create content directory if it doesn't exist
	if err := os.MkdirAll(opts.Root, 0755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}

	if opts.CacheSize <= 0 {
		opts.CacheSize = 1000
	}
	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	cm, err := newCompressionManager(opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("creating compression manager: %w", err)
	}

	return &Safe{
		root:  opts.Root,
		db:    db,
		cache: cache,
		cm:    cm,
	}, nil
}

// Put saves content and returns its hash. Storing content that is already
// present is a no-op that returns the same hash.
func (s *Safe) Put(content []byte) (string, error) {
	if content == nil {
		content = []byte{} // Convert nil to empty slice
	}

	hash := utils.HashContent(content)

	exists, err := s.Exists(hash)
	if err != nil {
		return "", fmt.Errorf("checking existence: %w", err)
	}
	if exists {
		return hash, nil
	}

	contentPath := s.contentPath(hash)
	if err := os.MkdirAll(filepath.Dir(contentPath), 0755); err != nil {
		return "", fmt.Errorf("creating content directory: %w", err)
	}

	data, compressed := s.cm.compress(content)
	if err := writeFile(contentPath, data); err != nil {
		return "", fmt.Errorf("writing content file: %w", err)
	}

	meta := ContentMeta{
		Hash:       hash,
		Size:       int64(len(content)),
		Compressed: compressed,
		CreatedAt:  time.Now(),
	}
	if err := s.storeMeta(meta); err != nil {
		// Cleanup on failure
		os.Remove(contentPath)
		return "", fmt.Errorf("storing metadata: %w", err)
	}

	s.cache.Add(hash, content)
	return hash, nil
}

// Get retrieves content by hash
func (s *Safe) Get(hash string) ([]byte, error) {
	if !utils.IsDigest(hash) {
		return nil, ErrInvalidHash
	}

	if content, ok := s.cache.Get(hash); ok {
		return content, nil
	}

	meta, err := s.getMeta(hash)
	if err != nil {
		return nil, fmt.Errorf("getting metadata: %w", err)
	}

	content, err := os.ReadFile(s.contentPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("reading content: %w", err)
	}

	if meta.Compressed {
		content, err = s.cm.decompress(content)
		if err != nil {
			return nil, fmt.Errorf("decompressing content: %w", err)
		}
	}

	if utils.HashContent(content) != hash {
		return nil, fmt.Errorf("content hash mismatch for %s", hash)
	}

	s.cache.Add(hash, content)
	return content, nil
}

// Exists checks if content exists
func (s *Safe) Exists(hash string) (bool, error) {
	if !utils.IsDigest(hash) {
		return false, ErrInvalidHash
	}

	if s.cache.Contains(hash) {
		return true, nil
	}

	_, err := s.getMeta(hash)
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetBatch retrieves multiple content items, in the order of hashes.
func (s *Safe) GetBatch(hashes []string) ([][]byte, error) {
	contents := make([][]byte, len(hashes))
	for i, hash := range hashes {
		content, err := s.Get(hash)
		if err != nil {
			return nil, fmt.Errorf("getting content %s: %w", hash, err)
		}
		contents[i] = content
	}
	return contents, nil
}

// Close releases the compression resources. The database is owned by the caller.
func (s *Safe) Close() {
	s.cm.close()
}

// Internal helper functions

func (s *Safe) contentPath(hash string) string {
	return filepath.Join(s.root, hash[:2], hash[2:])
}

func (s *Safe) storeMeta(meta ContentMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaPrefix+meta.Hash), data)
	})
}

func (s *Safe) getMeta(hash string) (ContentMeta, error) {
	var meta ContentMeta

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaPrefix + hash))
		if err == badger.ErrKeyNotFound {
			return ErrContentNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})

	return meta, err
}

// writeFile writes data atomically: tempfile -> fsync -> rename.
func writeFile(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp, 0444); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	return os.Rename(tmp, path)
}
