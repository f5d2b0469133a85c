package extract_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/service/extract"
)

func TestExtractProject(t *testing.T) {
	content, err := extract.Extract(types.KindProject, &model.Project{
		Key:         "juice-shop",
		Name:        "OWASP Juice Shop",
		Description: "An intentionally insecure web application for security trainings.",
		Level:       types.LevelFlagship,
		Languages:   []string{"TypeScript", "JavaScript"},
		Leaders:     []string{"alice", "bob"},
		StarsCount:  9000,
	})
	gt.NoError(t, err).Required()

	gt.Array(t, content.Prose).Length(1)
	gt.True(t, strings.Contains(content.ProseText(), "Description: An intentionally insecure web application"))

	meta := content.MetadataText()
	gt.True(t, strings.Contains(meta, "Name: OWASP Juice Shop"))
	gt.True(t, strings.Contains(meta, "Level: flagship"))
	gt.True(t, strings.Contains(meta, "Languages: TypeScript, JavaScript"))
	gt.True(t, strings.Contains(meta, "Leaders: alice, bob"))
	gt.True(t, strings.Contains(meta, "Stars: 9000"))
	gt.False(t, strings.Contains(meta, "Forks"))
}

func TestExtractChapter(t *testing.T) {
	content, err := extract.Extract(types.KindChapter, &model.Chapter{
		Key:     "tokyo",
		Name:    "OWASP Tokyo",
		Summary: "The Tokyo chapter meets monthly.",
		Country: "Japan",
		City:    "Tokyo",
	})
	gt.NoError(t, err).Required()

	gt.True(t, strings.Contains(content.ProseText(), "meets monthly"))
	gt.True(t, strings.Contains(content.MetadataText(), "Country: Japan"))
	gt.True(t, strings.Contains(content.MetadataText(), "City: Tokyo"))
}

func TestExtractEventFormatsDates(t *testing.T) {
	content, err := extract.Extract(types.KindEvent, &model.Event{
		Key:       "global-appsec",
		Name:      "Global AppSec",
		StartDate: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 11, 4, 17, 0, 0, 0, time.UTC),
	})
	gt.NoError(t, err).Required()

	meta := content.MetadataText()
	gt.True(t, strings.Contains(meta, "Start: 2026-11-02"))
	gt.True(t, strings.Contains(meta, "End: 2026-11-04"))
}

func TestExtractEventOmitsZeroDates(t *testing.T) {
	content, err := extract.Extract(types.KindEvent, &model.Event{
		Key:  "undated",
		Name: "Undated Event",
	})
	gt.NoError(t, err).Required()

	gt.False(t, strings.Contains(content.MetadataText(), "Start:"))
	gt.False(t, strings.Contains(content.MetadataText(), "End:"))
}

func TestExtractMessageStripsSlackMarkup(t *testing.T) {
	content, err := extract.Extract(types.KindSlackMessage, &model.Message{
		TS:          "1700000000.000100",
		ChannelID:   "C001",
		ChannelName: "contribute",
		Text:        "<@U123> see <https://owasp.org|the site> and <#C456|general>",
	})
	gt.NoError(t, err).Required()

	prose := content.ProseText()
	gt.False(t, strings.Contains(prose, "<@U123>"))
	gt.True(t, strings.Contains(prose, "https://owasp.org"))
	gt.True(t, strings.Contains(prose, "#general"))
	gt.True(t, strings.Contains(content.MetadataText(), "Channel: contribute"))
}

func TestExtractEmptyEntityIsEmptyContent(t *testing.T) {
	content, err := extract.Extract(types.KindCommittee, &model.Committee{Key: "bare"})
	gt.NoError(t, err).Required()
	gt.True(t, content.IsEmpty())
}

func TestExtractUnknownKind(t *testing.T) {
	_, err := extract.Extract(types.ContentKind("bogus"), &model.Project{})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagExtractor))
}

func TestExtractWrongEntityType(t *testing.T) {
	_, err := extract.Extract(types.KindProject, &model.Chapter{Key: "tokyo"})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagExtractor))
}

func TestProseAndMetadataJoinedWithDelimiter(t *testing.T) {
	content, err := extract.Extract(types.KindProject, &model.Project{
		Key:         "both",
		Name:        "Both Sections",
		Description: "First paragraph.",
		Summary:     "Second paragraph.",
	})
	gt.NoError(t, err).Required()

	gt.Value(t, content.ProseText()).Equal(
		"Description: First paragraph." + extract.Delimiter + "Summary: Second paragraph.")
}
