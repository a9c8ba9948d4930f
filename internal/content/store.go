// internal/content/store.go
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gitlet/shared/utils"
)

var ErrContentNotFound = errors.New("content not found")

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating content store directory: %w", err)
	}

	return &FileStore{root: root}, nil
}

// Put handles storing content and returns its hash
func (s *FileStore) Put(content []byte) (string, error) {
	// Allow empty content (empty files are valid)
	if content == nil {
		content = []byte{}
	}

	hash := utils.HashContent(content)

	// Write content if it doesn't exist
	path := s.path(hash)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return "", fmt.Errorf("writing content: %w", err)
		}
	}

	return hash, nil
}

func (s *FileStore) Get(hash string) ([]byte, error) {
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return data, nil
}

// Exists checks if content exists
func (s *FileStore) Exists(hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	_, err := os.Stat(s.path(hash))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Remove deletes the entry for hash. Missing entries are ignored.
func (s *FileStore) Remove(hash string) error {
	if err := os.Remove(s.path(hash)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing content %s: %w", hash, err)
	}
	return nil
}

// Clear removes every entry.
func (s *FileStore) Clear() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("listing %s: %w", s.root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (s *FileStore) Len() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", s.root, err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}

func (s *FileStore) path(hash string) string {
	return filepath.Join(s.root, hash)
}
