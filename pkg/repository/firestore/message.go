package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type messageRepository struct {
	client *firestore.Client
}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{
		client: client,
	}
}

func (r *messageRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(messagesCollection)
}

func (r *messageRepository) Get(ctx context.Context, key string) (*model.Message, error) {
	doc, err := r.collection().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "message not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get message", goerr.V("key", key))
	}

	var m model.Message
	if err := doc.DataTo(&m); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("key", key))
	}
	return &m, nil
}

func (r *messageRepository) List(ctx context.Context) ([]*model.Message, error) {
	iter := r.collection().OrderBy("CreatedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var result []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages")
		}

		var m model.Message
		if err := doc.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message")
		}
		result = append(result, &m)
	}

	return result, nil
}

func (r *messageRepository) Put(ctx context.Context, msg *model.Message) error {
	stored := *msg
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection().Doc(stored.Key()).Set(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to put message", goerr.V("key", stored.Key()))
	}
	return nil
}
