package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
)

// Collection names. Entity collections are maintained by the portal sync;
// the knowledge layer only writes contexts, chunks and slack messages.
const (
	contextsCollection   = "contexts"
	chunksCollection     = "chunks"
	projectsCollection   = "projects"
	chaptersCollection   = "chapters"
	committeesCollection = "committees"
	eventsCollection     = "events"
	reposCollection      = "repositories"
	messagesCollection   = "slack_messages"
)

type Firestore struct {
	client    *firestore.Client
	context   *contextRepository
	project   *projectRepository
	chapter   *chapterRepository
	committee *committeeRepository
	event     *eventRepository
	repo      *repoRepository
	message   *messageRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	return &Firestore{
		client:    client,
		context:   newContextRepository(client),
		project:   newProjectRepository(client),
		chapter:   newChapterRepository(client),
		committee: newCommitteeRepository(client),
		event:     newEventRepository(client),
		repo:      newRepoRepository(client),
		message:   newMessageRepository(client),
	}, nil
}

func (f *Firestore) Context() interfaces.ContextRepository {
	return f.context
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Chapter() interfaces.ChapterRepository {
	return f.chapter
}

func (f *Firestore) Committee() interfaces.CommitteeRepository {
	return f.committee
}

func (f *Firestore) Event() interfaces.EventRepository {
	return f.event
}

func (f *Firestore) Repo() interfaces.RepoRepository {
	return f.repo
}

func (f *Firestore) Message() interfaces.MessageRepository {
	return f.message
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
