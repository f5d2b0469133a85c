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

type repoRepository struct {
	client *firestore.Client
}

func newRepoRepository(client *firestore.Client) *repoRepository {
	return &repoRepository{
		client: client,
	}
}

func (r *repoRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(reposCollection)
}

func (r *repoRepository) Get(ctx context.Context, key string) (*model.Repository, error) {
	doc, err := r.collection().Doc(url.PathEscape(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "repository not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get repository", goerr.V("key", key))
	}

	var repo model.Repository
	if err := doc.DataTo(&repo); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal repository", goerr.V("key", key))
	}
	return &repo, nil
}

func (r *repoRepository) ListIngestible(ctx context.Context) ([]*model.Repository, error) {
	// Archived and empty repositories are filtered client-side to avoid a
	// three-field composite index on a small collection.
	iter := r.collection().Where("IsOwaspSiteRepository", "==", true).Documents(ctx)
	defer iter.Stop()

	var result []*model.Repository
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate repositories")
		}

		var repo model.Repository
		if err := doc.DataTo(&repo); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal repository")
		}
		if repo.IsIngestible() {
			result = append(result, &repo)
		}
	}

	sortByName(result, func(repo *model.Repository) string { return repo.Key })
	return result, nil
}
