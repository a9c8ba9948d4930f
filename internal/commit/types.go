// internal/commit/types.go
package commit

import (
	"gitlet/internal/content"
)

const (
	// RootMessage is the message of the commit created by init.
	RootMessage = "initial commit"
	// RootTimestamp is fixed so every repository shares the same root id.
	RootTimestamp = "Thu Jan 1 00:00:00 1970 -0800"
	// TimeLayout formats commit timestamps.
	TimeLayout = "Mon Jan 2 15:04:05 2006 -0700"
)

// Commit is an immutable snapshot record. ID is derived from the other
// fields by ComputeID and never changes once the commit is stored.
type Commit struct {
	Kind          content.Kind            `json:"kind"`
	ID            string                  `json:"id"`
	Message       string                  `json:"message"`
	Timestamp     string                  `json:"timestamp"`
	ParentID      string                  `json:"parent_id,omitempty"`
	MergeParentID string                  `json:"merge_parent_id,omitempty"` // reserved, never set
	Snapshot      map[string]content.Blob `json:"snapshot"`
}

func (c *Commit) GetID() string {
	return c.ID
}

func (c *Commit) IsRoot() bool {
	return c.ParentID == ""
}

// Tracks returns the blob recorded for name, if any.
func (c *Commit) Tracks(name string) (content.Blob, bool) {
	b, ok := c.Snapshot[name]
	return b, ok
}
