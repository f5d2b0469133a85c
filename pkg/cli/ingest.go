package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/owasp-nest/nestai/pkg/cli/config"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	slackSvc "github.com/owasp-nest/nestai/pkg/service/slack"
	"github.com/owasp-nest/nestai/pkg/usecase"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ingestConfig bundles the flag sets shared by all ingest subcommands
type ingestConfig struct {
	repo      config.Repository
	llm       config.LLM
	embedding config.Embedding
	retrieval config.Retrieval
}

func (x *ingestConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.embedding.Flags()...)
	flags = append(flags, x.retrieval.Flags()...)
	return flags
}

// Configure wires the ingestion pipeline. The returned closer releases
// the repository and the lexical index.
func (x *ingestConfig) Configure(ctx context.Context, batchSize int) (*usecase.IngestUseCase, func(), error) {
	var closers []func()
	closer := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to initialize repository")
	}
	closers = append(closers, func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	})

	embedder, err := x.embedding.Configure(ctx, &x.llm)
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to initialize embedding client")
	}

	lexIndex, err := x.retrieval.LexicalIndex()
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to open lexical index")
	}
	closers = append(closers, func() {
		if err := lexIndex.Close(); err != nil {
			logging.Default().Error("failed to close lexical index", "error", err.Error())
		}
	})

	uc := usecase.NewIngestUseCase(repo, embedder, x.retrieval.Splitter(), lexIndex,
		usecase.WithBatchSize(batchSize))
	return uc, closer, nil
}

func cmdIngest() *cli.Command {
	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Ingest OWASP entities into the knowledge base",
		Commands: []*cli.Command{
			cmdIngestKind("projects", "project", types.KindProject, usecase.DefaultBatchSize),
			cmdIngestKind("chapters", "chapter", types.KindChapter, usecase.DefaultBatchSize),
			cmdIngestKind("committees", "committee", types.KindCommittee, usecase.DefaultBatchSize),
			cmdIngestKind("events", "event", types.KindEvent, usecase.DefaultBatchSize),
			cmdIngestKind("repositories", "repository", types.KindRepository, usecase.DefaultBatchSize),
			cmdIngestKind("slack-messages", "slack-message", types.KindSlackMessage, usecase.SlackBatchSize),
			cmdSlackSync(),
		},
	}
}

// cmdIngestKind builds the per-kind ingest subcommand. With --<kind>-key
// it ingests the single named entity; otherwise (or with --all) it
// ingests the kind's default selection, such as active projects or
// upcoming events.
func cmdIngestKind(name, singular string, kind types.ContentKind, defaultBatch int) *cli.Command {
	var key string
	var all bool
	var batchSize int
	var ingestCfg ingestConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        singular + "-key",
			Aliases:     []string{"key"},
			Usage:       "Ingest only the " + singular + " with this key",
			Destination: &key,
		},
		&cli.BoolFlag{
			Name:        "all",
			Usage:       "Ingest the default selection of " + name,
			Destination: &all,
		},
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Embedding batch size",
			Value:       defaultBatch,
			Sources:     cli.EnvVars("NESTAI_INGEST_BATCH_SIZE"),
			Destination: &batchSize,
		},
	}
	flags = append(flags, ingestCfg.Flags()...)

	return &cli.Command{
		Name:  name,
		Usage: "Ingest " + name,
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if key != "" && all {
				return goerr.New("--"+singular+"-key and --all are mutually exclusive",
					goerr.T(types.ErrTagConfig))
			}

			uc, closer, err := ingestCfg.Configure(ctx, batchSize)
			defer closer()
			if err != nil {
				return err
			}

			var targets []usecase.IngestTarget
			if key != "" {
				target, err := uc.LoadTarget(ctx, kind, key)
				if err != nil {
					return goerr.Wrap(err, "failed to load ingest target",
						goerr.V("kind", kind), goerr.V("key", key))
				}
				targets = []usecase.IngestTarget{*target}
			} else {
				targets, err = uc.LoadTargets(ctx, kind)
				if err != nil {
					return goerr.Wrap(err, "failed to load ingest targets",
						goerr.V("kind", kind))
				}
			}

			summary, err := uc.Run(ctx, targets)
			if summary != nil {
				logging.Default().Info("Ingestion finished",
					"kind", kind,
					"processed", summary.Processed,
					"skipped", summary.Skipped,
					"failed", summary.Failed)
			}
			return err
		},
	}
}

func cmdSlackSync() *cli.Command {
	var channelID string
	var limit int
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "channel-id",
			Usage:       "Slack channel ID to fetch messages from (required)",
			Required:    true,
			Sources:     cli.EnvVars("NESTAI_SLACK_CHANNEL_ID"),
			Destination: &channelID,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of messages to fetch",
			Value:       slackSvc.DefaultHistoryLimit,
			Sources:     cli.EnvVars("NESTAI_SLACK_SYNC_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "slack-sync",
		Usage: "Fetch Slack channel history into the message store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			svc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack service")
			}

			uc := usecase.NewSlackSyncUseCase(repo, svc)
			count, err := uc.Sync(ctx, channelID, limit)
			if err != nil {
				return goerr.Wrap(err, "failed to sync slack channel",
					goerr.V("channelID", channelID))
			}

			logging.Default().Info("Slack sync finished",
				"channelID", channelID, "stored", count)
			return nil
		},
	}
}
