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

type eventRepository struct {
	client *firestore.Client
}

func newEventRepository(client *firestore.Client) *eventRepository {
	return &eventRepository{
		client: client,
	}
}

func (r *eventRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(eventsCollection)
}

func (r *eventRepository) Get(ctx context.Context, key string) (*model.Event, error) {
	doc, err := r.collection().Doc(url.PathEscape(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "event not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get event", goerr.V("key", key))
	}

	var e model.Event
	if err := doc.DataTo(&e); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal event", goerr.V("key", key))
	}
	return &e, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context) ([]*model.Event, error) {
	now := time.Now().UTC()
	iter := r.collection().
		Where("StartDate", ">=", now).
		OrderBy("StartDate", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate events")
		}

		var e model.Event
		if err := doc.DataTo(&e); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal event")
		}
		result = append(result, &e)
	}

	return result, nil
}
