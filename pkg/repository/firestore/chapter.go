package firestore

import (
	"context"
	"net/url"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type chapterRepository struct {
	client *firestore.Client
}

func newChapterRepository(client *firestore.Client) *chapterRepository {
	return &chapterRepository{
		client: client,
	}
}

func (r *chapterRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(chaptersCollection)
}

func (r *chapterRepository) Get(ctx context.Context, key string) (*model.Chapter, error) {
	doc, err := r.collection().Doc(url.PathEscape(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "chapter not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get chapter", goerr.V("key", key))
	}

	var c model.Chapter
	if err := doc.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal chapter", goerr.V("key", key))
	}
	return &c, nil
}

func (r *chapterRepository) ListActive(ctx context.Context) ([]*model.Chapter, error) {
	iter := r.collection().Where("IsActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var result []*model.Chapter
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chapters")
		}

		var c model.Chapter
		if err := doc.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chapter")
		}
		result = append(result, &c)
	}

	sortByName(result, func(c *model.Chapter) string { return c.Name })
	return result, nil
}

func (r *chapterRepository) Search(ctx context.Context, query string, limit int) ([]*model.Chapter, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var result []*model.Chapter
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chapters")
		}

		var c model.Chapter
		if err := doc.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chapter")
		}
		if matchText(query, c.Key, c.Name, c.Country, c.City, c.Description) {
			result = append(result, &c)
		}
	}

	sortByName(result, func(c *model.Chapter) string { return c.Name })
	return clip(result, limit), nil
}
