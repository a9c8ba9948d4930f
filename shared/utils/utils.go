package utils

import (
	"cmp"
	"crypto/sha1"
	"encoding/hex"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// HashContent returns the hex SHA-1 digest of content.
func HashContent(content []byte) string {
	hash := sha1.Sum(content)
	return hex.EncodeToString(hash[:])
}

// IsDigest reports whether s looks like a HashContent result.
func IsDigest(s string) bool {
	if len(s) != sha1.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
