package interfaces

import (
	"context"

	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

// Repository defines the interface for data persistence. The entity
// repositories are read models owned by the portal backend; only the
// Context store and the Message store are written by the knowledge layer.
type Repository interface {
	Context() ContextRepository
	Project() ProjectRepository
	Chapter() ChapterRepository
	Committee() CommitteeRepository
	Event() EventRepository
	Repo() RepoRepository
	Message() MessageRepository

	Close() error
}

// ContextRepository defines persistence for Context rows and their Chunks
type ContextRepository interface {
	// Upsert atomically replaces the Context for (Kind, ObjectID). Stale
	// chunks of a previously existing Context are removed in the same
	// transaction. Returns the stored Context.
	Upsert(ctx context.Context, c *model.Context) (*model.Context, error)

	// Get retrieves the Context for (kind, objectID).
	// Returns types.ErrNotFound if it does not exist.
	Get(ctx context.Context, kind types.ContentKind, objectID string) (*model.Context, error)

	// Delete removes the Context for (kind, objectID) and all its chunks.
	Delete(ctx context.Context, kind types.ContentKind, objectID string) error

	// InsertChunks stores all chunks in one transaction. Every chunk must
	// carry an embedding of the given dimension.
	InsertChunks(ctx context.Context, chunks []*model.Chunk, dimension int) error

	// ListChunks returns the chunks of a context in insertion order.
	ListChunks(ctx context.Context, contextID model.ContextID) ([]*model.Chunk, error)

	// GetChunks resolves chunk IDs to chunks, skipping unknown IDs.
	GetChunks(ctx context.Context, ids []model.ChunkID) ([]*model.Chunk, error)

	// CosineSearch returns up to limit chunks ordered by ascending cosine
	// distance to the query embedding. Ties are broken by insertion order.
	CosineSearch(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error)
}

// ProjectRepository is the read model for OWASP projects
type ProjectRepository interface {
	Get(ctx context.Context, key string) (*model.Project, error)
	ListActive(ctx context.Context) ([]*model.Project, error)
	Search(ctx context.Context, query string, limit int) ([]*model.Project, error)
	ListByLevel(ctx context.Context, level types.ProjectLevel, limit int) ([]*model.Project, error)
	ListByCustomTag(ctx context.Context, tag string) ([]*model.Project, error)
}

// ChapterRepository is the read model for OWASP chapters
type ChapterRepository interface {
	Get(ctx context.Context, key string) (*model.Chapter, error)
	ListActive(ctx context.Context) ([]*model.Chapter, error)
	Search(ctx context.Context, query string, limit int) ([]*model.Chapter, error)
}

// CommitteeRepository is the read model for OWASP committees
type CommitteeRepository interface {
	Get(ctx context.Context, key string) (*model.Committee, error)
	List(ctx context.Context) ([]*model.Committee, error)
	Search(ctx context.Context, query string, limit int) ([]*model.Committee, error)
}

// EventRepository is the read model for OWASP events
type EventRepository interface {
	Get(ctx context.Context, key string) (*model.Event, error)
	ListUpcoming(ctx context.Context) ([]*model.Event, error)
}

// RepoRepository is the read model for tracked GitHub repositories
type RepoRepository interface {
	Get(ctx context.Context, key string) (*model.Repository, error)
	ListIngestible(ctx context.Context) ([]*model.Repository, error)
}

// MessageRepository stores Slack messages for ingestion
type MessageRepository interface {
	Get(ctx context.Context, key string) (*model.Message, error)
	List(ctx context.Context) ([]*model.Message, error)
	Put(ctx context.Context, msg *model.Message) error
}
