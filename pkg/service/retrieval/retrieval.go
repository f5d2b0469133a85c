package retrieval

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/service/embedding"
	"github.com/owasp-nest/nestai/pkg/service/lexical"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultChannelK is how many candidates each channel contributes
	// before fusion.
	DefaultChannelK = 25
	// DefaultLimit is the number of fused results returned when the
	// caller does not specify one.
	DefaultLimit = 5
	// DefaultRRFK is the reciprocal-rank-fusion constant.
	DefaultRRFK = 60
)

// Retriever runs hybrid retrieval: a dense vector channel and a lexical
// BM25 channel fused with reciprocal rank fusion.
type Retriever struct {
	contexts interfaces.ContextRepository
	embedder embedding.Embedder
	lexical  *lexical.Index

	channelK int
	rrfK     int
}

type Option func(*Retriever)

// WithChannelK overrides the per-channel candidate count.
func WithChannelK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.channelK = k
		}
	}
}

// WithRRFK overrides the fusion constant.
func WithRRFK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.rrfK = k
		}
	}
}

func New(contexts interfaces.ContextRepository, embedder embedding.Embedder, lex *lexical.Index, opts ...Option) *Retriever {
	r := &Retriever{
		contexts: contexts,
		embedder: embedder,
		lexical:  lex,
		channelK: DefaultChannelK,
		rrfK:     DefaultRRFK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search runs both channels in parallel, fuses their rankings and returns
// up to limit results hydrated with chunk text and context labels. A single
// failed channel degrades retrieval to the surviving channel; only the
// failure of both is an error.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]*model.FusedResult, error) {
	if query == "" {
		return nil, goerr.New("query must not be empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var vectorHits []*model.ScoredChunk
	var vectorErr error
	var lexicalHits []*model.LexicalHit
	var lexicalErr error

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		vectorHits, vectorErr = r.vectorChannel(egCtx, query)
		return nil
	})
	eg.Go(func() error {
		lexicalHits, lexicalErr = r.lexical.Search(query, r.channelK)
		return nil
	})
	_ = eg.Wait()

	if vectorErr != nil && lexicalErr != nil {
		return nil, goerr.Wrap(vectorErr, "all retrieval channels failed",
			goerr.V("lexicalError", lexicalErr.Error()))
	}
	if vectorErr != nil {
		logging.From(ctx).Warn("vector channel failed, degrading to lexical only", "error", vectorErr)
	}
	if lexicalErr != nil {
		logging.From(ctx).Warn("lexical channel failed, degrading to vector only", "error", lexicalErr)
	}

	fused := fuseRRF(vectorHits, lexicalHits, r.rrfK)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	if err := r.hydrate(ctx, fused, vectorHits); err != nil {
		return nil, err
	}
	return fused, nil
}

func (r *Retriever) vectorChannel(ctx context.Context, query string) ([]*model.ScoredChunk, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.contexts.CosineSearch(ctx, vec, r.channelK)
}

// fuseRRF merges the two channel rankings with reciprocal rank fusion:
// score(s) = sum over channels of 1/(k+rank). The total order is
// (-score, best rank, chunk ID) so fusion is deterministic.
func fuseRRF(vectorHits []*model.ScoredChunk, lexicalHits []*model.LexicalHit, k int) []*model.FusedResult {
	byID := make(map[model.ChunkID]*model.FusedResult)

	accumulate := func(id model.ChunkID, rank int) {
		f, ok := byID[id]
		if !ok {
			f = &model.FusedResult{ChunkID: id, BestRank: rank}
			byID[id] = f
		}
		f.Score += 1.0 / float64(k+rank)
		if rank < f.BestRank {
			f.BestRank = rank
		}
	}

	for i := range vectorHits {
		accumulate(vectorHits[i].Chunk.ID, i+1)
	}
	for _, hit := range lexicalHits {
		accumulate(hit.ChunkID, hit.Rank)
	}

	fused := make([]*model.FusedResult, 0, len(byID))
	for _, f := range byID {
		fused = append(fused, f)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		if fused[i].BestRank != fused[j].BestRank {
			return fused[i].BestRank < fused[j].BestRank
		}
		return fused[i].ChunkID < fused[j].ChunkID
	})
	return fused
}

// hydrate fills text, label and distance into the fused results. Chunks
// already seen by the vector channel are reused; the rest are resolved
// through the chunk store.
func (r *Retriever) hydrate(ctx context.Context, fused []*model.FusedResult, vectorHits []*model.ScoredChunk) error {
	seen := make(map[model.ChunkID]*model.ScoredChunk, len(vectorHits))
	for _, sc := range vectorHits {
		seen[sc.Chunk.ID] = sc
	}

	var missing []model.ChunkID
	for _, f := range fused {
		if sc, ok := seen[f.ChunkID]; ok {
			f.Text = sc.Chunk.Text
			f.Label = sc.Chunk.Label()
			f.Distance = sc.Distance
		} else {
			missing = append(missing, f.ChunkID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	chunks, err := r.contexts.GetChunks(ctx, missing)
	if err != nil {
		return goerr.Wrap(err, "failed to hydrate fused results")
	}
	byID := make(map[model.ChunkID]*model.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}
	for _, f := range fused {
		if f.Text != "" {
			continue
		}
		if c, ok := byID[f.ChunkID]; ok {
			f.Text = c.Text
			f.Label = c.Label()
		}
	}
	return nil
}
