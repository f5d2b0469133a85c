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

type committeeRepository struct {
	client *firestore.Client
}

func newCommitteeRepository(client *firestore.Client) *committeeRepository {
	return &committeeRepository{
		client: client,
	}
}

func (r *committeeRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(committeesCollection)
}

func (r *committeeRepository) Get(ctx context.Context, key string) (*model.Committee, error) {
	doc, err := r.collection().Doc(url.PathEscape(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "committee not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get committee", goerr.V("key", key))
	}

	var c model.Committee
	if err := doc.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal committee", goerr.V("key", key))
	}
	return &c, nil
}

func (r *committeeRepository) List(ctx context.Context) ([]*model.Committee, error) {
	committees, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	sortByName(committees, func(c *model.Committee) string { return c.Name })
	return committees, nil
}

func (r *committeeRepository) Search(ctx context.Context, query string, limit int) ([]*model.Committee, error) {
	committees, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	var result []*model.Committee
	for _, c := range committees {
		if matchText(query, c.Key, c.Name, c.Description) {
			result = append(result, c)
		}
	}

	sortByName(result, func(c *model.Committee) string { return c.Name })
	return clip(result, limit), nil
}

func (r *committeeRepository) scan(ctx context.Context) ([]*model.Committee, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var result []*model.Committee
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate committees")
		}

		var c model.Committee
		if err := doc.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal committee")
		}
		result = append(result, &c)
	}
	return result, nil
}
