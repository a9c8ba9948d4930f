// internal/commit/commit.go
package commit

import (
	"crypto/sha1"
	"encoding/hex"
	"io"

	"gitlet/shared/utils"
)

// ComputeID hashes message, timestamp, parentID and then each
// (filename, content) pair in filename order. A commit without a parent
// hashes only its message and timestamp.
func ComputeID(message, timestamp, parentID string, files map[string][]byte) string {
	h := sha1.New()
	io.WriteString(h, message)
	io.WriteString(h, timestamp)

	if parentID != "" {
		io.WriteString(h, parentID)
		for _, name := range utils.SortedKeys(files) {
			io.WriteString(h, name)
			h.Write(files[name])
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
