package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/service/chunk"
	"github.com/owasp-nest/nestai/pkg/service/embedding"
	"github.com/owasp-nest/nestai/pkg/service/extract"
	"github.com/owasp-nest/nestai/pkg/service/lexical"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

const (
	// DefaultBatchSize is the embedding batch size for entity ingestion.
	DefaultBatchSize = 50
	// SlackBatchSize is the embedding batch size for Slack messages,
	// which are short and can share larger batches.
	SlackBatchSize = 100

	slowEntityThreshold = 10 * time.Second
)

// sourceTags maps each content kind to the source attribution tag stored
// on contexts and chunks.
var sourceTags = map[types.ContentKind]string{
	types.KindProject:      "owasp_project",
	types.KindChapter:      "owasp_chapter",
	types.KindCommittee:    "owasp_committee",
	types.KindEvent:        "owasp_event",
	types.KindRepository:   "github_repository",
	types.KindSlackMessage: "slack_message",
}

// SourceTag returns the source attribution tag for a content kind.
func SourceTag(kind types.ContentKind) string {
	return sourceTags[kind]
}

// IngestTarget is one entity selected for ingestion.
type IngestTarget struct {
	Kind     types.ContentKind
	ObjectID string
	Entity   any
}

// IngestSummary counts the outcome of one ingestion run.
type IngestSummary struct {
	Processed int
	Skipped   int
	Failed    int
}

// IngestUseCase builds Contexts and Chunks from domain entities: extract,
// chunk, embed, store, and index for lexical search.
type IngestUseCase struct {
	repo      interfaces.Repository
	embedder  embedding.Embedder
	splitter  *chunk.Splitter
	lexical   *lexical.Index
	batchSize int
}

type IngestOption func(*IngestUseCase)

// WithBatchSize overrides the embedding batch size.
func WithBatchSize(n int) IngestOption {
	return func(uc *IngestUseCase) {
		if n > 0 {
			uc.batchSize = n
		}
	}
}

func NewIngestUseCase(repo interfaces.Repository, embedder embedding.Embedder, splitter *chunk.Splitter, lex *lexical.Index, opts ...IngestOption) *IngestUseCase {
	uc := &IngestUseCase{
		repo:      repo,
		embedder:  embedder,
		splitter:  splitter,
		lexical:   lex,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// LoadTargets returns the default ingestion selection for a kind: active
// projects and chapters, all committees and messages, upcoming events, and
// ingestible repositories.
func (uc *IngestUseCase) LoadTargets(ctx context.Context, kind types.ContentKind) ([]IngestTarget, error) {
	switch kind {
	case types.KindProject:
		projects, err := uc.repo.Project().ListActive(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]IngestTarget, len(projects))
		for i, p := range projects {
			targets[i] = IngestTarget{Kind: kind, ObjectID: p.Key, Entity: p}
		}
		return targets, nil

	case types.KindChapter:
		chapters, err := uc.repo.Chapter().ListActive(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]IngestTarget, len(chapters))
		for i, c := range chapters {
			targets[i] = IngestTarget{Kind: kind, ObjectID: c.Key, Entity: c}
		}
		return targets, nil

	case types.KindCommittee:
		committees, err := uc.repo.Committee().List(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]IngestTarget, len(committees))
		for i, c := range committees {
			targets[i] = IngestTarget{Kind: kind, ObjectID: c.Key, Entity: c}
		}
		return targets, nil

	case types.KindEvent:
		events, err := uc.repo.Event().ListUpcoming(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]IngestTarget, len(events))
		for i, e := range events {
			targets[i] = IngestTarget{Kind: kind, ObjectID: e.Key, Entity: e}
		}
		return targets, nil

	case types.KindRepository:
		repos, err := uc.repo.Repo().ListIngestible(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]IngestTarget, len(repos))
		for i, r := range repos {
			targets[i] = IngestTarget{Kind: kind, ObjectID: r.Key, Entity: r}
		}
		return targets, nil

	case types.KindSlackMessage:
		messages, err := uc.repo.Message().List(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]IngestTarget, len(messages))
		for i, m := range messages {
			targets[i] = IngestTarget{Kind: kind, ObjectID: m.Key(), Entity: m}
		}
		return targets, nil

	default:
		return nil, goerr.New("unknown content kind", goerr.V("kind", kind))
	}
}

// LoadTarget resolves a single entity by key for the given kind.
func (uc *IngestUseCase) LoadTarget(ctx context.Context, kind types.ContentKind, key string) (*IngestTarget, error) {
	var entity any
	var err error

	switch kind {
	case types.KindProject:
		entity, err = uc.repo.Project().Get(ctx, key)
	case types.KindChapter:
		entity, err = uc.repo.Chapter().Get(ctx, key)
	case types.KindCommittee:
		entity, err = uc.repo.Committee().Get(ctx, key)
	case types.KindEvent:
		entity, err = uc.repo.Event().Get(ctx, key)
	case types.KindRepository:
		entity, err = uc.repo.Repo().Get(ctx, key)
	case types.KindSlackMessage:
		entity, err = uc.repo.Message().Get(ctx, key)
	default:
		return nil, goerr.New("unknown content kind", goerr.V("kind", kind))
	}
	if err != nil {
		return nil, err
	}

	return &IngestTarget{Kind: kind, ObjectID: key, Entity: entity}, nil
}

// Run ingests the targets sequentially. Per-entity failures are logged and
// counted but do not stop the run; the run fails only when every entity
// failed.
func (uc *IngestUseCase) Run(ctx context.Context, targets []IngestTarget) (*IngestSummary, error) {
	logger := logging.From(ctx)
	summary := &IngestSummary{}

	for _, target := range targets {
		start := time.Now()
		ingested, err := uc.ingestOne(ctx, target)
		elapsed := time.Since(start)

		if elapsed > slowEntityThreshold {
			logger.Warn("slow entity ingestion",
				"kind", target.Kind, "objectID", target.ObjectID, "elapsed", elapsed)
		}

		switch {
		case err != nil:
			summary.Failed++
			logger.Error("failed to ingest entity",
				"kind", target.Kind, "objectID", target.ObjectID, "error", err)
		case !ingested:
			summary.Skipped++
			logger.Debug("skipped empty entity",
				"kind", target.Kind, "objectID", target.ObjectID)
		default:
			summary.Processed++
		}
	}

	logger.Info("ingestion finished",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	if summary.Failed > 0 && summary.Processed == 0 && summary.Skipped == 0 {
		return summary, goerr.New("all entities failed to ingest",
			goerr.V("failed", summary.Failed))
	}
	return summary, nil
}

// ingestOne builds the Context and Chunks for one entity. It reports
// (false, nil) when extraction produced nothing and the entity is skipped.
func (uc *IngestUseCase) ingestOne(ctx context.Context, target IngestTarget) (bool, error) {
	content, err := extract.Extract(target.Kind, target.Entity)
	if err != nil {
		return false, err
	}
	if content.IsEmpty() {
		return false, nil
	}

	generated := content.ProseText()
	if meta := content.MetadataText(); meta != "" {
		if generated != "" {
			generated += extract.Delimiter
		}
		generated += meta
	}

	// Drop stale lexical entries before the context replace removes the chunks
	if existing, err := uc.repo.Context().Get(ctx, target.Kind, target.ObjectID); err == nil {
		stale, err := uc.repo.Context().ListChunks(ctx, existing.ID)
		if err != nil {
			return false, goerr.Wrap(err, "failed to list stale chunks")
		}
		ids := make([]model.ChunkID, len(stale))
		for i, c := range stale {
			ids[i] = c.ID
		}
		if err := uc.lexical.Remove(ids); err != nil {
			return false, goerr.Wrap(err, "failed to remove stale lexical entries")
		}
	} else if !errors.Is(err, types.ErrNotFound) {
		return false, goerr.Wrap(err, "failed to check existing context")
	}

	stored, err := uc.repo.Context().Upsert(ctx, &model.Context{
		Kind:              target.Kind,
		ObjectID:          target.ObjectID,
		GeneratedText:     generated,
		Source:            SourceTag(target.Kind),
		AdditionalContext: content.MetadataText(),
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to upsert context")
	}

	// Metadata-only contexts keep zero chunks
	texts := uc.splitter.Split(content.ProseText())
	if len(texts) == 0 {
		return true, nil
	}

	chunks := make([]*model.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &model.Chunk{
			ID:        model.NewChunkID(),
			ContextID: stored.ID,
			Seq:       i,
			Text:      text,
			Kind:      stored.Kind,
			Source:    stored.Source,
			ObjectID:  stored.ObjectID,
		}
	}

	for start := 0; start < len(texts); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := uc.embedder.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			return false, goerr.Wrap(err, "failed to embed chunks")
		}
		for i, vec := range vectors {
			chunks[start+i].Embedding = vec
		}
	}

	if err := uc.repo.Context().InsertChunks(ctx, chunks, uc.embedder.Dimensions()); err != nil {
		return false, goerr.Wrap(err, "failed to insert chunks")
	}
	if err := uc.lexical.IndexChunks(chunks); err != nil {
		return false, goerr.Wrap(err, "failed to index chunks")
	}
	return true, nil
}
