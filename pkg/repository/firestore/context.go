package firestore

import (
	"context"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// contextDoc is the Firestore document representation of model.Context.
type contextDoc struct {
	ID                model.ContextID   `firestore:"ID"`
	Kind              types.ContentKind `firestore:"Kind"`
	ObjectID          string            `firestore:"ObjectID"`
	GeneratedText     string            `firestore:"GeneratedText"`
	Source            string            `firestore:"Source"`
	AdditionalContext string            `firestore:"AdditionalContext"`
	CreatedAt         time.Time         `firestore:"CreatedAt"`
	UpdatedAt         time.Time         `firestore:"UpdatedAt"`
}

func toContextDoc(c *model.Context) *contextDoc {
	return &contextDoc{
		ID:                c.ID,
		Kind:              c.Kind,
		ObjectID:          c.ObjectID,
		GeneratedText:     c.GeneratedText,
		Source:            c.Source,
		AdditionalContext: c.AdditionalContext,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func fromContextDoc(d *contextDoc) *model.Context {
	return &model.Context{
		ID:                d.ID,
		Kind:              d.Kind,
		ObjectID:          d.ObjectID,
		GeneratedText:     d.GeneratedText,
		Source:            d.Source,
		AdditionalContext: d.AdditionalContext,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func docToContext(doc *firestore.DocumentSnapshot) (*model.Context, error) {
	var d contextDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromContextDoc(&d), nil
}

// chunkDoc is the Firestore document representation of model.Chunk.
// Embedding is stored as firestore.Vector32 so that FindNearest vector search works.
type chunkDoc struct {
	ID        model.ChunkID      `firestore:"ID"`
	ContextID model.ContextID    `firestore:"ContextID"`
	Seq       int                `firestore:"Seq"`
	Text      string             `firestore:"Text"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	Kind      types.ContentKind  `firestore:"Kind"`
	Source    string             `firestore:"Source"`
	ObjectID  string             `firestore:"ObjectID"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

func toChunkDoc(c *model.Chunk) *chunkDoc {
	doc := &chunkDoc{
		ID:        c.ID,
		ContextID: c.ContextID,
		Seq:       c.Seq,
		Text:      c.Text,
		Kind:      c.Kind,
		Source:    c.Source,
		ObjectID:  c.ObjectID,
		CreatedAt: c.CreatedAt,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromChunkDoc(d *chunkDoc) *model.Chunk {
	c := &model.Chunk{
		ID:        d.ID,
		ContextID: d.ContextID,
		Seq:       d.Seq,
		Text:      d.Text,
		Kind:      d.Kind,
		Source:    d.Source,
		ObjectID:  d.ObjectID,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

func docToChunk(doc *firestore.DocumentSnapshot) (*model.Chunk, error) {
	var d chunkDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromChunkDoc(&d), nil
}

type contextRepository struct {
	client *firestore.Client
}

func newContextRepository(client *firestore.Client) *contextRepository {
	return &contextRepository{
		client: client,
	}
}

// contextDocID derives a deterministic document ID from the (Kind, ObjectID)
// identity. ObjectID is escaped because repository keys contain "/".
func contextDocID(kind types.ContentKind, objectID string) string {
	return string(kind) + ":" + url.PathEscape(objectID)
}

func (r *contextRepository) contextsCollection() *firestore.CollectionRef {
	return r.client.Collection(contextsCollection)
}

func (r *contextRepository) chunksCollection() *firestore.CollectionRef {
	return r.client.Collection(chunksCollection)
}

func (r *contextRepository) Upsert(ctx context.Context, c *model.Context) (*model.Context, error) {
	now := time.Now().UTC()
	stored := *c
	if stored.ID == "" {
		stored.ID = model.NewContextID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.contextsCollection().Doc(contextDocID(c.Kind, c.ObjectID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get existing context")
		}

		var staleChunks []*firestore.DocumentRef
		if err == nil {
			existing, err := docToContext(doc)
			if err != nil {
				return goerr.Wrap(err, "failed to unmarshal existing context")
			}
			// Replace: keep identity and creation time, drop stale chunks
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt

			iter := tx.Documents(r.chunksCollection().Where("ContextID", "==", string(existing.ID)))
			defer iter.Stop()
			for {
				chunkSnap, err := iter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to iterate stale chunks")
				}
				staleChunks = append(staleChunks, chunkSnap.Ref)
			}
		}

		for _, ref := range staleChunks {
			if err := tx.Delete(ref); err != nil {
				return goerr.Wrap(err, "failed to delete stale chunk")
			}
		}
		return tx.Set(docRef, toContextDoc(&stored))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert context",
			goerr.V("kind", c.Kind), goerr.V("objectID", c.ObjectID))
	}

	return &stored, nil
}

func (r *contextRepository) Get(ctx context.Context, kind types.ContentKind, objectID string) (*model.Context, error) {
	doc, err := r.contextsCollection().Doc(contextDocID(kind, objectID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "context not found",
				goerr.V("kind", kind), goerr.V("objectID", objectID))
		}
		return nil, goerr.Wrap(err, "failed to get context",
			goerr.V("kind", kind), goerr.V("objectID", objectID))
	}

	c, err := docToContext(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal context",
			goerr.V("kind", kind), goerr.V("objectID", objectID))
	}
	return c, nil
}

func (r *contextRepository) Delete(ctx context.Context, kind types.ContentKind, objectID string) error {
	docRef := r.contextsCollection().Doc(contextDocID(kind, objectID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(types.ErrNotFound, "context not found",
					goerr.V("kind", kind), goerr.V("objectID", objectID))
			}
			return goerr.Wrap(err, "failed to get context")
		}
		existing, err := docToContext(doc)
		if err != nil {
			return goerr.Wrap(err, "failed to unmarshal context")
		}

		var chunkRefs []*firestore.DocumentRef
		iter := tx.Documents(r.chunksCollection().Where("ContextID", "==", string(existing.ID)))
		defer iter.Stop()
		for {
			chunkSnap, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return goerr.Wrap(err, "failed to iterate chunks")
			}
			chunkRefs = append(chunkRefs, chunkSnap.Ref)
		}

		for _, ref := range chunkRefs {
			if err := tx.Delete(ref); err != nil {
				return goerr.Wrap(err, "failed to delete chunk")
			}
		}
		return tx.Delete(docRef)
	})
	return err
}

func (r *contextRepository) InsertChunks(ctx context.Context, chunks []*model.Chunk, dimension int) error {
	// Validate before writing anything so the insert stays all-or-nothing
	contextIDs := make(map[model.ContextID]struct{})
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
		contextIDs[c.ContextID] = struct{}{}
	}

	now := time.Now().UTC()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for id := range contextIDs {
			iter := tx.Documents(r.contextsCollection().Where("ID", "==", string(id)).Limit(1))
			_, err := iter.Next()
			iter.Stop()
			if err == iterator.Done {
				return goerr.New("chunk references unknown context", goerr.V("contextID", id))
			}
			if err != nil {
				return goerr.Wrap(err, "failed to look up context", goerr.V("contextID", id))
			}
		}

		for _, c := range chunks {
			stored := *c
			if stored.ID == "" {
				stored.ID = model.NewChunkID()
			}
			stored.CreatedAt = now
			if err := tx.Set(r.chunksCollection().Doc(string(stored.ID)), toChunkDoc(&stored)); err != nil {
				return goerr.Wrap(err, "failed to set chunk", goerr.V("chunkID", stored.ID))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to insert chunks", goerr.V("count", len(chunks)))
	}
	return nil
}

func (r *contextRepository) ListChunks(ctx context.Context, contextID model.ContextID) ([]*model.Chunk, error) {
	iter := r.chunksCollection().
		Where("ContextID", "==", string(contextID)).
		OrderBy("Seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	chunks := make([]*model.Chunk, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks", goerr.V("contextID", contextID))
		}

		c, err := docToChunk(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk")
		}
		chunks = append(chunks, c)
	}

	return chunks, nil
}

func (r *contextRepository) GetChunks(ctx context.Context, ids []model.ChunkID) ([]*model.Chunk, error) {
	if len(ids) == 0 {
		return []*model.Chunk{}, nil
	}

	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.chunksCollection().Doc(string(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get chunks", goerr.V("count", len(ids)))
	}

	chunks := make([]*model.Chunk, 0, len(ids))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		c, err := docToChunk(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk")
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

func (r *contextRepository) CosineSearch(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	vq := r.chunksCollection().
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine,
			&firestore.FindNearestOptions{DistanceResultField: "Distance"})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	results := make([]*model.ScoredChunk, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		c, err := docToChunk(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk from vector search")
		}

		var distance float64
		if v, err := doc.DataAt("Distance"); err == nil {
			if d, ok := v.(float64); ok {
				distance = d
			}
		}

		results = append(results, &model.ScoredChunk{
			Chunk:    c,
			Distance: distance,
		})
	}

	return results, nil
}
