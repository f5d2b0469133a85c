package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/repository/memory"
)

func TestProjectRepository(t *testing.T) {
	ctx := context.Background()

	newSeeded := func() *memory.Memory {
		repo := memory.New()
		repo.AddProject(&model.Project{
			Key: "juice-shop", Name: "OWASP Juice Shop",
			Description: "An intentionally insecure web application",
			Level:       types.LevelFlagship, IsActive: true,
			CustomTags: []string{"gsoc2024"},
		})
		repo.AddProject(&model.Project{
			Key: "zap", Name: "OWASP ZAP",
			Description: "The web security scanner",
			Level:       types.LevelFlagship, IsActive: true,
		})
		repo.AddProject(&model.Project{
			Key: "retired-tool", Name: "Retired Tool",
			Description: "No longer maintained",
			Level:       types.LevelIncubator, IsActive: false,
		})
		return repo
	}

	t.Run("Get returns stored project", func(t *testing.T) {
		repo := newSeeded()
		p := gt.R1(repo.Project().Get(ctx, "juice-shop")).NoError(t)
		gt.Value(t, p.Name).Equal("OWASP Juice Shop")
	})

	t.Run("Get missing key returns ErrNotFound", func(t *testing.T) {
		repo := newSeeded()
		_, err := repo.Project().Get(ctx, "nothing")
		gt.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("ListActive excludes inactive projects", func(t *testing.T) {
		repo := newSeeded()
		projects := gt.R1(repo.Project().ListActive(ctx)).NoError(t)
		gt.Array(t, projects).Length(2)
		for _, p := range projects {
			gt.True(t, p.IsActive)
		}
	})

	t.Run("Search matches case-insensitively on key, name and description", func(t *testing.T) {
		repo := newSeeded()

		byName := gt.R1(repo.Project().Search(ctx, "JUICE", 10)).NoError(t)
		gt.Array(t, byName).Length(1)
		gt.Value(t, byName[0].Key).Equal("juice-shop")

		byDescription := gt.R1(repo.Project().Search(ctx, "scanner", 10)).NoError(t)
		gt.Array(t, byDescription).Length(1)
		gt.Value(t, byDescription[0].Key).Equal("zap")
	})

	t.Run("Search with empty query returns nothing", func(t *testing.T) {
		repo := newSeeded()
		results := gt.R1(repo.Project().Search(ctx, "  ", 10)).NoError(t)
		gt.Array(t, results).Length(0)
	})

	t.Run("Search respects limit", func(t *testing.T) {
		repo := newSeeded()
		results := gt.R1(repo.Project().Search(ctx, "owasp", 1)).NoError(t)
		gt.Array(t, results).Length(1)
	})

	t.Run("ListByLevel filters on project level", func(t *testing.T) {
		repo := newSeeded()
		flagship := gt.R1(repo.Project().ListByLevel(ctx, types.LevelFlagship, 10)).NoError(t)
		gt.Array(t, flagship).Length(2)

		incubator := gt.R1(repo.Project().ListByLevel(ctx, types.LevelIncubator, 10)).NoError(t)
		gt.Array(t, incubator).Length(1)
		gt.Value(t, incubator[0].Key).Equal("retired-tool")
	})

	t.Run("ListByCustomTag matches exact tag", func(t *testing.T) {
		repo := newSeeded()
		tagged := gt.R1(repo.Project().ListByCustomTag(ctx, "gsoc2024")).NoError(t)
		gt.Array(t, tagged).Length(1)
		gt.Value(t, tagged[0].Key).Equal("juice-shop")

		none := gt.R1(repo.Project().ListByCustomTag(ctx, "gsoc2020")).NoError(t)
		gt.Array(t, none).Length(0)
	})

	t.Run("stored projects are isolated from caller mutation", func(t *testing.T) {
		repo := memory.New()
		src := &model.Project{Key: "mut", Name: "Mutable", Leaders: []string{"alice"}}
		repo.AddProject(src)
		src.Leaders[0] = "mallory"

		p := gt.R1(repo.Project().Get(ctx, "mut")).NoError(t)
		gt.Value(t, p.Leaders[0]).Equal("alice")
	})
}

func TestChapterRepository(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	repo.AddChapter(&model.Chapter{
		Key: "tokyo", Name: "OWASP Tokyo", Country: "Japan", City: "Tokyo",
		IsActive: true, Leaders: []string{"alice"},
	})
	repo.AddChapter(&model.Chapter{
		Key: "berlin", Name: "OWASP Berlin", Country: "Germany", City: "Berlin",
		IsActive: false,
	})

	t.Run("ListActive", func(t *testing.T) {
		chapters := gt.R1(repo.Chapter().ListActive(ctx)).NoError(t)
		gt.Array(t, chapters).Length(1)
		gt.Value(t, chapters[0].Key).Equal("tokyo")
	})

	t.Run("Search matches on country and city", func(t *testing.T) {
		byCountry := gt.R1(repo.Chapter().Search(ctx, "japan", 10)).NoError(t)
		gt.Array(t, byCountry).Length(1)
		gt.Value(t, byCountry[0].Key).Equal("tokyo")

		byCity := gt.R1(repo.Chapter().Search(ctx, "Berlin", 10)).NoError(t)
		gt.Array(t, byCity).Length(1)
	})
}

func TestCommitteeRepository(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	repo.AddCommittee(&model.Committee{Key: "education", Name: "Education and Training"})
	repo.AddCommittee(&model.Committee{Key: "outreach", Name: "Outreach"})

	t.Run("List returns all committees sorted by name", func(t *testing.T) {
		committees := gt.R1(repo.Committee().List(ctx)).NoError(t)
		gt.Array(t, committees).Length(2)
		gt.Value(t, committees[0].Key).Equal("education")
	})

	t.Run("Search", func(t *testing.T) {
		results := gt.R1(repo.Committee().Search(ctx, "training", 10)).NoError(t)
		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].Key).Equal("education")
	})
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	repo := memory.New()
	repo.AddEvent(&model.Event{Key: "past-conf", Name: "Past Conference", StartDate: now.Add(-48 * time.Hour)})
	repo.AddEvent(&model.Event{Key: "next-conf", Name: "Next Conference", StartDate: now.Add(48 * time.Hour)})
	repo.AddEvent(&model.Event{Key: "later-conf", Name: "Later Conference", StartDate: now.Add(96 * time.Hour)})

	t.Run("ListUpcoming excludes past events and sorts by start date", func(t *testing.T) {
		events := gt.R1(repo.Event().ListUpcoming(ctx)).NoError(t)
		gt.Array(t, events).Length(2)
		gt.Value(t, events[0].Key).Equal("next-conf")
		gt.Value(t, events[1].Key).Equal("later-conf")
	})
}

func TestRepoRepository(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	repo.AddRepository(&model.Repository{Key: "OWASP/www-project-juice-shop", IsOwaspSiteRepository: true})
	repo.AddRepository(&model.Repository{Key: "OWASP/archived", IsOwaspSiteRepository: true, IsArchived: true})
	repo.AddRepository(&model.Repository{Key: "OWASP/empty", IsOwaspSiteRepository: true, IsEmpty: true})
	repo.AddRepository(&model.Repository{Key: "OWASP/unrelated", IsOwaspSiteRepository: false})

	t.Run("ListIngestible filters archived, empty and non-site repositories", func(t *testing.T) {
		repos := gt.R1(repo.Repo().ListIngestible(ctx)).NoError(t)
		gt.Array(t, repos).Length(1)
		gt.Value(t, repos[0].Key).Equal("OWASP/www-project-juice-shop")
	})
}

func TestMessageRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := memory.New()
		msg := &model.Message{TS: "1700000000.000100", ChannelID: "C001", Text: "hello"}
		gt.NoError(t, repo.Message().Put(ctx, msg))

		got := gt.R1(repo.Message().Get(ctx, msg.Key())).NoError(t)
		gt.Value(t, got.Text).Equal("hello")
	})

	t.Run("Put rejects message without channel or timestamp", func(t *testing.T) {
		repo := memory.New()
		gt.Error(t, repo.Message().Put(ctx, &model.Message{Text: "incomplete"}))
	})

	t.Run("Put overwrites existing message", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Message().Put(ctx, &model.Message{TS: "1.0", ChannelID: "C001", Text: "v1"}))
		gt.NoError(t, repo.Message().Put(ctx, &model.Message{TS: "1.0", ChannelID: "C001", Text: "v2"}))

		messages := gt.R1(repo.Message().List(ctx)).NoError(t)
		gt.Array(t, messages).Length(1)
		gt.Value(t, messages[0].Text).Equal("v2")
	})
}
