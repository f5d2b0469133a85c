package firestore

import (
	"context"
	"net/url"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type projectRepository struct {
	client *firestore.Client
}

func newProjectRepository(client *firestore.Client) *projectRepository {
	return &projectRepository{
		client: client,
	}
}

func (r *projectRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(projectsCollection)
}

func (r *projectRepository) Get(ctx context.Context, key string) (*model.Project, error) {
	doc, err := r.collection().Doc(url.PathEscape(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "project not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("key", key))
	}

	var p model.Project
	if err := doc.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal project", goerr.V("key", key))
	}
	return &p, nil
}

func (r *projectRepository) ListActive(ctx context.Context) ([]*model.Project, error) {
	iter := r.collection().Where("IsActive", "==", true).Documents(ctx)
	return collectProjects(iter, 0)
}

func (r *projectRepository) Search(ctx context.Context, query string, limit int) ([]*model.Project, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*model.Project{}, nil
	}

	// Firestore has no substring query; scan and filter client-side.
	// The projects collection stays small enough for this to be fine.
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var result []*model.Project
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects")
		}

		var p model.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal project")
		}
		if matchText(query, p.Key, p.Name, p.Description) {
			result = append(result, &p)
		}
	}

	sortByName(result, func(p *model.Project) string { return p.Name })
	return clip(result, limit), nil
}

func (r *projectRepository) ListByLevel(ctx context.Context, level types.ProjectLevel, limit int) ([]*model.Project, error) {
	iter := r.collection().Where("Level", "==", string(level)).Documents(ctx)
	return collectProjects(iter, limit)
}

func (r *projectRepository) ListByCustomTag(ctx context.Context, tag string) ([]*model.Project, error) {
	iter := r.collection().Where("CustomTags", "array-contains", tag).Documents(ctx)
	return collectProjects(iter, 0)
}

func collectProjects(iter *firestore.DocumentIterator, limit int) ([]*model.Project, error) {
	defer iter.Stop()

	var result []*model.Project
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects")
		}

		var p model.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal project")
		}
		result = append(result, &p)
	}

	sortByName(result, func(p *model.Project) string { return p.Name })
	return clip(result, limit), nil
}
