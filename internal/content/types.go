package content

// Kind tags persisted records.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindCommit Kind = "commit"
)

// Blob is the immutable record of one file's content at one point in time.
// The bytes themselves live in a Store under Digest.
type Blob struct {
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`   // Working path the content was read from
	Digest string `json:"digest"` // Content hash
	Size   int64  `json:"size"`
}

// NewBlob builds the record for content read from name.
func NewBlob(name, digest string, size int) Blob {
	return Blob{
		Kind:   KindBlob,
		Name:   name,
		Digest: digest,
		Size:   int64(size),
	}
}

// Same reports whether b and other have the same name and content.
func (b Blob) Same(other Blob) bool {
	return b.Name == other.Name && b.Digest == other.Digest
}

type Store interface {
	Put(content []byte) (string, error)
	Get(hash string) ([]byte, error)
	Exists(hash string) (bool, error)
}

// FileStore keeps one plain file per digest under root. It backs the
// transient stage directory, whose entries are dropped once folded into a
// commit or discarded by checkout/reset.
type FileStore struct {
	root string
}
