package extract

import (
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

// extractors maps each content kind to its typed extraction function.
var extractors = map[types.ContentKind]func(entity any) (*Content, error){
	types.KindProject:      func(e any) (*Content, error) { return typed(e, Project) },
	types.KindChapter:      func(e any) (*Content, error) { return typed(e, Chapter) },
	types.KindCommittee:    func(e any) (*Content, error) { return typed(e, Committee) },
	types.KindEvent:        func(e any) (*Content, error) { return typed(e, Event) },
	types.KindRepository:   func(e any) (*Content, error) { return typed(e, Repository) },
	types.KindSlackMessage: func(e any) (*Content, error) { return typed(e, Message) },
}

func typed[T any](entity any, fn func(T) *Content) (*Content, error) {
	v, ok := entity.(T)
	if !ok {
		return nil, goerr.New("unexpected entity type",
			goerr.T(types.ErrTagExtractor),
			goerr.V("type", fmt.Sprintf("%T", entity)))
	}
	return fn(v), nil
}

// Extract produces the embeddable content of an entity for the given kind.
// An unknown kind is a fatal extractor error.
func Extract(kind types.ContentKind, entity any) (*Content, error) {
	fn, ok := extractors[kind]
	if !ok {
		return nil, goerr.New("no extractor for content kind",
			goerr.T(types.ErrTagExtractor),
			goerr.V("kind", kind))
	}
	return fn(entity)
}

func Project(p *model.Project) *Content {
	c := &Content{}
	c.addLabeledProse("Description", p.Description)
	c.addLabeledProse("Summary", p.Summary)

	c.addMeta("Name", p.Name)
	c.addMeta("Level", string(p.Level))
	c.addMetaList("Tags", p.Tags)
	c.addMetaList("Languages", p.Languages)
	c.addMetaList("Topics", p.Topics)
	c.addMetaList("Leaders", p.Leaders)
	if p.StarsCount > 0 {
		c.addMeta("Stars", strconv.Itoa(p.StarsCount))
	}
	if p.ForksCount > 0 {
		c.addMeta("Forks", strconv.Itoa(p.ForksCount))
	}
	if p.ContributorsCount > 0 {
		c.addMeta("Contributors", strconv.Itoa(p.ContributorsCount))
	}
	return c
}

func Chapter(ch *model.Chapter) *Content {
	c := &Content{}
	c.addLabeledProse("Description", ch.Description)
	c.addLabeledProse("Summary", ch.Summary)

	c.addMeta("Name", ch.Name)
	c.addMeta("Country", ch.Country)
	c.addMeta("Region", ch.Region)
	c.addMeta("City", ch.City)
	c.addMetaList("Tags", ch.Tags)
	c.addMetaList("Leaders", ch.Leaders)
	return c
}

func Committee(cm *model.Committee) *Content {
	c := &Content{}
	c.addLabeledProse("Description", cm.Description)
	c.addLabeledProse("Summary", cm.Summary)

	c.addMeta("Name", cm.Name)
	c.addMetaList("Tags", cm.Tags)
	c.addMetaList("Leaders", cm.Leaders)
	return c
}

func Event(e *model.Event) *Content {
	c := &Content{}
	c.addLabeledProse("Description", e.Description)
	c.addLabeledProse("Summary", e.Summary)

	c.addMeta("Name", e.Name)
	c.addMeta("Category", e.Category)
	c.addMeta("Location", e.Location)
	if !e.StartDate.IsZero() {
		c.addMeta("Start", e.StartDate.Format("2006-01-02"))
	}
	if !e.EndDate.IsZero() {
		c.addMeta("End", e.EndDate.Format("2006-01-02"))
	}
	c.addMeta("URL", e.URL)
	return c
}

func Repository(r *model.Repository) *Content {
	c := &Content{}
	c.addLabeledProse("Description", r.Description)

	c.addMeta("Name", r.Name)
	c.addMetaList("Topics", r.Topics)
	c.addMeta("Language", r.Language)
	c.addMeta("License", r.License)
	if r.StarsCount > 0 {
		c.addMeta("Stars", strconv.Itoa(r.StarsCount))
	}
	if r.ForksCount > 0 {
		c.addMeta("Forks", strconv.Itoa(r.ForksCount))
	}
	return c
}

func Message(m *model.Message) *Content {
	c := &Content{}
	c.addProse(m.CleanText())

	c.addMeta("Channel", m.ChannelName)
	return c
}
