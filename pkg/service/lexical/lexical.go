package lexical

import (
	"os"

	"github.com/blevesearch/bleve"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
)

// chunkEntry is the indexed document for each chunk. Only the text is
// analyzed; the label is stored for debugging.
type chunkEntry struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Index is the lexical (BM25) retrieval channel backed by bleve. With an
// empty path it runs in memory; otherwise the index persists on disk and
// is reopened across runs.
type Index struct {
	idx bleve.Index
}

func New(path string) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create in-memory lexical index")
		}
		return &Index{idx: idx}, nil
	}

	if _, err := os.Stat(path); err == nil {
		idx, err := bleve.Open(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open lexical index", goerr.V("path", path))
		}
		return &Index{idx: idx}, nil
	}

	idx, err := bleve.New(path, bleve.NewIndexMapping())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create lexical index", goerr.V("path", path))
	}
	return &Index{idx: idx}, nil
}

// IndexChunks adds chunks to the index in one batch. The document ID is
// the chunk ID, so lexical hits join back to the chunk store.
func (x *Index) IndexChunks(chunks []*model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := x.idx.NewBatch()
	for _, c := range chunks {
		entry := chunkEntry{
			Text:  c.Text,
			Label: c.Label(),
		}
		if err := batch.Index(string(c.ID), entry); err != nil {
			return goerr.Wrap(err, "failed to add chunk to batch", goerr.V("chunkID", c.ID))
		}
	}
	if err := x.idx.Batch(batch); err != nil {
		return goerr.Wrap(err, "failed to index chunks", goerr.V("count", len(chunks)))
	}
	return nil
}

// Remove deletes chunk documents from the index.
func (x *Index) Remove(ids []model.ChunkID) error {
	if len(ids) == 0 {
		return nil
	}

	batch := x.idx.NewBatch()
	for _, id := range ids {
		batch.Delete(string(id))
	}
	if err := x.idx.Batch(batch); err != nil {
		return goerr.Wrap(err, "failed to remove chunks", goerr.V("count", len(ids)))
	}
	return nil
}

// Search runs a BM25 match query and returns ranked hits. The rank is
// 1-based in descending score order.
func (x *Index) Search(query string, limit int) ([]*model.LexicalHit, error) {
	if query == "" {
		return []*model.LexicalHit{}, nil
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := x.idx.Search(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search lexical index", goerr.V("query", query))
	}

	hits := make([]*model.LexicalHit, 0, len(res.Hits))
	for i, hit := range res.Hits {
		hits = append(hits, &model.LexicalHit{
			ChunkID: model.ChunkID(hit.ID),
			Score:   hit.Score,
			Rank:    i + 1,
		})
	}
	return hits, nil
}

func (x *Index) Close() error {
	return x.idx.Close()
}
