package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

// ContextID is a UUID-based identifier for Context
type ContextID string

// NewContextID generates a new UUID v4 ContextID
func NewContextID() ContextID {
	return ContextID(uuid.New().String())
}

// ChunkID is a UUID-based identifier for Chunk
type ChunkID string

// NewChunkID generates a new UUID v4 ChunkID
func NewChunkID() ChunkID {
	return ChunkID(uuid.New().String())
}

// Context is the aggregated searchable view of one domain entity.
// At most one Context exists per (Kind, ObjectID); ingestion replaces it
// atomically together with its chunks.
type Context struct {
	ID                ContextID
	Kind              types.ContentKind
	ObjectID          string // entity key (project key, chapter key, message timestamp, ...)
	GeneratedText     string // concatenated prose + metadata
	Source            string // string tag such as "owasp_project" or "slack_message"
	AdditionalContext string // optional metadata blob
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Label returns a short human-readable reference to the owning entity,
// used in retrieval results for source attribution.
func (c *Context) Label() string {
	return c.Source + "/" + c.ObjectID
}

// Chunk is a bounded text segment with its embedding vector, owned by a
// Context. Kind, Source and ObjectID are denormalized from the owning
// Context so retrieval results can be attributed without a join.
type Chunk struct {
	ID        ChunkID
	ContextID ContextID
	Seq       int // insertion order within the context, cosine-search tie-breaker
	Text      string
	Embedding []float32
	Kind      types.ContentKind
	Source    string
	ObjectID  string
	CreatedAt time.Time
}

// Label returns the source attribution label of the owning context.
func (c *Chunk) Label() string {
	return c.Source + "/" + c.ObjectID
}
