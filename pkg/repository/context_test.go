package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/repository/firestore"
	"github.com/owasp-nest/nestai/pkg/repository/memory"
)

func uniqueObjectID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func runContextRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Upsert creates context with generated ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		objectID := uniqueObjectID("juice-shop")
		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:              types.KindProject,
			ObjectID:          objectID,
			GeneratedText:     "OWASP Juice Shop is an intentionally insecure web application.",
			Source:            "owasp_project",
			AdditionalContext: "Level: flagship",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		if created.ID == "" {
			t.Error("expected non-empty ID")
		}
		if created.Kind != types.KindProject {
			t.Errorf("expected Kind=project, got %s", created.Kind)
		}
		if created.ObjectID != objectID {
			t.Errorf("expected ObjectID=%s, got %s", objectID, created.ObjectID)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
		if created.UpdatedAt.IsZero() {
			t.Error("expected non-zero UpdatedAt")
		}
	})

	t.Run("Upsert replaces existing context keeping identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		objectID := uniqueObjectID("replace-me")
		first, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      objectID,
			GeneratedText: "first version",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		second, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      objectID,
			GeneratedText: "second version",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to re-upsert context: %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("expected stable ID %s, got %s", first.ID, second.ID)
		}
		if second.GeneratedText != "second version" {
			t.Errorf("expected replaced text, got %q", second.GeneratedText)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("expected preserved CreatedAt %v, got %v", first.CreatedAt, second.CreatedAt)
		}

		got, err := repo.Context().Get(ctx, types.KindProject, objectID)
		if err != nil {
			t.Fatalf("failed to get context: %v", err)
		}
		if got.GeneratedText != "second version" {
			t.Errorf("expected stored text to be replaced, got %q", got.GeneratedText)
		}
	})

	t.Run("Upsert drops stale chunks of the replaced context", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		objectID := uniqueObjectID("stale-chunks")
		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindChapter,
			ObjectID:      objectID,
			GeneratedText: "chapter text",
			Source:        "owasp_chapter",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		chunks := []*model.Chunk{
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 0, Text: "part one", Embedding: []float32{1, 0, 0}, Kind: created.Kind, Source: created.Source, ObjectID: objectID},
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 1, Text: "part two", Embedding: []float32{0, 1, 0}, Kind: created.Kind, Source: created.Source, ObjectID: objectID},
		}
		if err := repo.Context().InsertChunks(ctx, chunks, 3); err != nil {
			t.Fatalf("failed to insert chunks: %v", err)
		}

		if _, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindChapter,
			ObjectID:      objectID,
			GeneratedText: "chapter text v2",
			Source:        "owasp_chapter",
		}); err != nil {
			t.Fatalf("failed to re-upsert context: %v", err)
		}

		remaining, err := repo.Context().ListChunks(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to list chunks: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("expected 0 chunks after replace, got %d", len(remaining))
		}
	})

	t.Run("Get returns ErrNotFound for missing context", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Context().Get(ctx, types.KindProject, uniqueObjectID("missing"))
		if err == nil {
			t.Fatal("expected error for missing context")
		}
		if !errors.Is(err, types.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes context and its chunks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		objectID := uniqueObjectID("delete-me")
		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindCommittee,
			ObjectID:      objectID,
			GeneratedText: "committee text",
			Source:        "owasp_committee",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		chunk := &model.Chunk{
			ID: model.NewChunkID(), ContextID: created.ID, Seq: 0,
			Text: "committee text", Embedding: []float32{1, 0},
			Kind: created.Kind, Source: created.Source, ObjectID: objectID,
		}
		if err := repo.Context().InsertChunks(ctx, []*model.Chunk{chunk}, 2); err != nil {
			t.Fatalf("failed to insert chunk: %v", err)
		}

		if err := repo.Context().Delete(ctx, types.KindCommittee, objectID); err != nil {
			t.Fatalf("failed to delete context: %v", err)
		}

		if _, err := repo.Context().Get(ctx, types.KindCommittee, objectID); !errors.Is(err, types.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		remaining, err := repo.Context().ListChunks(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to list chunks: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("expected 0 chunks after delete, got %d", len(remaining))
		}
	})

	t.Run("Delete missing context returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Context().Delete(ctx, types.KindEvent, uniqueObjectID("never-stored"))
		if !errors.Is(err, types.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("InsertChunks rejects dimension mismatch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      uniqueObjectID("dim-check"),
			GeneratedText: "text",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		chunks := []*model.Chunk{
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 0, Text: "ok", Embedding: []float32{1, 0, 0}},
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 1, Text: "bad", Embedding: []float32{1, 0}},
		}
		if err := repo.Context().InsertChunks(ctx, chunks, 3); err == nil {
			t.Fatal("expected dimension mismatch error")
		}

		// The insert is all-or-nothing
		remaining, err := repo.Context().ListChunks(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to list chunks: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("expected 0 chunks after failed insert, got %d", len(remaining))
		}
	})

	t.Run("InsertChunks rejects unknown context reference", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		chunk := &model.Chunk{
			ID: model.NewChunkID(), ContextID: model.NewContextID(), Seq: 0,
			Text: "orphan", Embedding: []float32{1},
		}
		if err := repo.Context().InsertChunks(ctx, []*model.Chunk{chunk}, 1); err == nil {
			t.Fatal("expected error for unknown context reference")
		}
	})

	t.Run("InsertChunks rejects empty text", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      uniqueObjectID("empty-text"),
			GeneratedText: "text",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		chunk := &model.Chunk{
			ID: model.NewChunkID(), ContextID: created.ID, Seq: 0,
			Text: "", Embedding: []float32{1},
		}
		if err := repo.Context().InsertChunks(ctx, []*model.Chunk{chunk}, 1); err == nil {
			t.Fatal("expected error for empty chunk text")
		}
	})

	t.Run("ListChunks returns chunks in insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      uniqueObjectID("ordered"),
			GeneratedText: "text",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		var chunks []*model.Chunk
		for i := 0; i < 3; i++ {
			chunks = append(chunks, &model.Chunk{
				ID: model.NewChunkID(), ContextID: created.ID, Seq: i,
				Text: fmt.Sprintf("segment %d", i), Embedding: []float32{float32(i), 1},
			})
		}
		if err := repo.Context().InsertChunks(ctx, chunks, 2); err != nil {
			t.Fatalf("failed to insert chunks: %v", err)
		}

		listed, err := repo.Context().ListChunks(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to list chunks: %v", err)
		}
		if len(listed) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(listed))
		}
		for i, c := range listed {
			if c.Seq != i {
				t.Errorf("expected Seq=%d at position %d, got %d", i, i, c.Seq)
			}
		}
	})

	t.Run("GetChunks skips unknown IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      uniqueObjectID("get-chunks"),
			GeneratedText: "text",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		chunk := &model.Chunk{
			ID: model.NewChunkID(), ContextID: created.ID, Seq: 0,
			Text: "known", Embedding: []float32{1},
		}
		if err := repo.Context().InsertChunks(ctx, []*model.Chunk{chunk}, 1); err != nil {
			t.Fatalf("failed to insert chunk: %v", err)
		}

		got, err := repo.Context().GetChunks(ctx, []model.ChunkID{chunk.ID, model.NewChunkID()})
		if err != nil {
			t.Fatalf("failed to get chunks: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(got))
		}
		if got[0].Text != "known" {
			t.Errorf("expected Text=known, got %q", got[0].Text)
		}
	})

	t.Run("CosineSearch orders by ascending distance", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Context().Upsert(ctx, &model.Context{
			Kind:          types.KindProject,
			ObjectID:      uniqueObjectID("cosine"),
			GeneratedText: "text",
			Source:        "owasp_project",
		})
		if err != nil {
			t.Fatalf("failed to upsert context: %v", err)
		}

		chunks := []*model.Chunk{
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 0, Text: "exact match", Embedding: []float32{1, 0, 0}},
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 1, Text: "orthogonal", Embedding: []float32{0, 1, 0}},
			{ID: model.NewChunkID(), ContextID: created.ID, Seq: 2, Text: "close", Embedding: []float32{0.9, 0.1, 0}},
		}
		if err := repo.Context().InsertChunks(ctx, chunks, 3); err != nil {
			t.Fatalf("failed to insert chunks: %v", err)
		}

		results, err := repo.Context().CosineSearch(ctx, []float32{1, 0, 0}, 2)
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Chunk.Text != "exact match" {
			t.Errorf("expected first result 'exact match', got %q", results[0].Chunk.Text)
		}
		if results[1].Chunk.Text != "close" {
			t.Errorf("expected second result 'close', got %q", results[1].Chunk.Text)
		}
		if results[0].Distance > results[1].Distance {
			t.Errorf("expected ascending distances, got %f then %f", results[0].Distance, results[1].Distance)
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID)
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryContextRepository(t *testing.T) {
	runContextRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreContextRepository(t *testing.T) {
	runContextRepositoryTest(t, newFirestoreRepository)
}
