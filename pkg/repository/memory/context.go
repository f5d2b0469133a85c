package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type contextKey struct {
	kind     types.ContentKind
	objectID string
}

// storedChunk wraps a chunk with its global insertion order, used as the
// cosine-search tie-breaker across contexts.
type storedChunk struct {
	chunk *model.Chunk
	ord   int
}

type contextRepository struct {
	mu       sync.RWMutex
	contexts map[contextKey]*model.Context
	byID     map[model.ContextID]contextKey
	chunks   map[model.ChunkID]*storedChunk
	nextOrd  int
}

func newContextRepository() *contextRepository {
	return &contextRepository{
		contexts: make(map[contextKey]*model.Context),
		byID:     make(map[model.ContextID]contextKey),
		chunks:   make(map[model.ChunkID]*storedChunk),
	}
}

func copyContext(c *model.Context) *model.Context {
	copied := *c
	return &copied
}

func copyChunk(c *model.Chunk) *model.Chunk {
	copied := *c
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return &copied
}

func (r *contextRepository) Upsert(ctx context.Context, c *model.Context) (*model.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contextKey{kind: c.Kind, objectID: c.ObjectID}
	now := time.Now().UTC()

	stored := copyContext(c)
	if existing, ok := r.contexts[key]; ok {
		// Replace: keep identity and creation time, drop stale chunks
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		r.deleteChunksLocked(existing.ID)
	} else {
		if stored.ID == "" {
			stored.ID = model.NewContextID()
		}
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.contexts[key] = stored
	r.byID[stored.ID] = key
	return copyContext(stored), nil
}

func (r *contextRepository) Get(ctx context.Context, kind types.ContentKind, objectID string) (*model.Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contexts[contextKey{kind: kind, objectID: objectID}]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "context not found",
			goerr.V("kind", kind), goerr.V("objectID", objectID))
	}
	return copyContext(c), nil
}

func (r *contextRepository) Delete(ctx context.Context, kind types.ContentKind, objectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contextKey{kind: kind, objectID: objectID}
	c, ok := r.contexts[key]
	if !ok {
		return goerr.Wrap(types.ErrNotFound, "context not found",
			goerr.V("kind", kind), goerr.V("objectID", objectID))
	}

	r.deleteChunksLocked(c.ID)
	delete(r.byID, c.ID)
	delete(r.contexts, key)
	return nil
}

func (r *contextRepository) deleteChunksLocked(contextID model.ContextID) {
	for id, sc := range r.chunks {
		if sc.chunk.ContextID == contextID {
			delete(r.chunks, id)
		}
	}
}

func (r *contextRepository) InsertChunks(ctx context.Context, chunks []*model.Chunk, dimension int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate before writing anything so the insert stays all-or-nothing
	for _, c := range chunks {
		if c.Text == "" {
			return goerr.New("chunk text must not be empty", goerr.V("contextID", c.ContextID))
		}
		if len(c.Embedding) != dimension {
			return goerr.New("embedding dimension mismatch",
				goerr.V("contextID", c.ContextID),
				goerr.V("expected", dimension),
				goerr.V("actual", len(c.Embedding)))
		}
		if _, ok := r.byID[c.ContextID]; !ok {
			return goerr.New("chunk references unknown context", goerr.V("contextID", c.ContextID))
		}
	}

	now := time.Now().UTC()
	for _, c := range chunks {
		stored := copyChunk(c)
		if stored.ID == "" {
			stored.ID = model.NewChunkID()
		}
		stored.CreatedAt = now
		r.chunks[stored.ID] = &storedChunk{chunk: stored, ord: r.nextOrd}
		r.nextOrd++
	}
	return nil
}

func (r *contextRepository) ListChunks(ctx context.Context, contextID model.ContextID) ([]*model.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*storedChunk
	for _, sc := range r.chunks {
		if sc.chunk.ContextID == contextID {
			result = append(result, sc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ord < result[j].ord })

	chunks := make([]*model.Chunk, len(result))
	for i, sc := range result {
		chunks[i] = copyChunk(sc.chunk)
	}
	return chunks, nil
}

func (r *contextRepository) GetChunks(ctx context.Context, ids []model.ChunkID) ([]*model.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chunks := make([]*model.Chunk, 0, len(ids))
	for _, id := range ids {
		if sc, ok := r.chunks[id]; ok {
			chunks = append(chunks, copyChunk(sc.chunk))
		}
	}
	return chunks, nil
}

func (r *contextRepository) CosineSearch(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		sc       *storedChunk
		distance float64
	}

	candidates := make([]scored, 0, len(r.chunks))
	for _, sc := range r.chunks {
		candidates = append(candidates, scored{sc: sc, distance: cosineDistance(embedding, sc.chunk.Embedding)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].sc.ord < candidates[j].sc.ord
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	results := make([]*model.ScoredChunk, 0, limit)
	for _, c := range candidates[:limit] {
		results = append(results, &model.ScoredChunk{
			Chunk:    copyChunk(c.sc.chunk),
			Distance: c.distance,
		})
	}
	return results, nil
}

// cosineDistance computes 1 - cosine similarity in double precision.
// Mismatched or zero vectors yield the maximum distance.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
