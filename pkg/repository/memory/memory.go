package memory

import (
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/model"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	context   *contextRepository
	project   *projectRepository
	chapter   *chapterRepository
	committee *committeeRepository
	event     *eventRepository
	repo      *repoRepository
	message   *messageRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		context:   newContextRepository(),
		project:   newProjectRepository(),
		chapter:   newChapterRepository(),
		committee: newCommitteeRepository(),
		event:     newEventRepository(),
		repo:      newRepoRepository(),
		message:   newMessageRepository(),
	}
}

func (m *Memory) Context() interfaces.ContextRepository {
	return m.context
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Chapter() interfaces.ChapterRepository {
	return m.chapter
}

func (m *Memory) Committee() interfaces.CommitteeRepository {
	return m.committee
}

func (m *Memory) Event() interfaces.EventRepository {
	return m.event
}

func (m *Memory) Repo() interfaces.RepoRepository {
	return m.repo
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) Close() error {
	return nil
}

// Seed helpers populate the read models for development and tests.

func (m *Memory) AddProject(p *model.Project) {
	m.project.put(p)
}

func (m *Memory) AddChapter(c *model.Chapter) {
	m.chapter.put(c)
}

func (m *Memory) AddCommittee(c *model.Committee) {
	m.committee.put(c)
}

func (m *Memory) AddEvent(e *model.Event) {
	m.event.put(e)
}

func (m *Memory) AddRepository(r *model.Repository) {
	m.repo.put(r)
}
