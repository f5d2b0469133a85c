package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/owasp-nest/nestai/pkg/agent"
	"github.com/owasp-nest/nestai/pkg/agent/router"
	"github.com/owasp-nest/nestai/pkg/cli/config"
	httpctrl "github.com/owasp-nest/nestai/pkg/controller/http"
	"github.com/owasp-nest/nestai/pkg/usecase"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// engineConfig bundles the flag sets shared by the serve and ask
// commands. Both build the same query pipeline on top of them.
type engineConfig struct {
	repo      config.Repository
	llm       config.LLM
	embedding config.Embedding
	retrieval config.Retrieval
	channels  config.Channels
}

func (x *engineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.embedding.Flags()...)
	flags = append(flags, x.retrieval.Flags()...)
	flags = append(flags, x.channels.Flags()...)
	return flags
}

// Configure wires repository, LLM, embedder, indexes and agents into a
// ready Engine. The returned closer releases the repository and the
// lexical index.
func (x *engineConfig) Configure(ctx context.Context) (*usecase.Engine, func(), error) {
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

	llmClient, err := x.llm.Configure(ctx)
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to initialize LLM client")
	}

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

	retriever := x.retrieval.Retriever(repo.Context(), embedder, lexIndex)

	channelCfg, err := x.channels.Configure()
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to load channel configuration")
	}

	inventory, err := agent.NewInventory(repo, retriever, channelCfg)
	if err != nil {
		return nil, closer, goerr.Wrap(err, "failed to build agent inventory")
	}

	engine := usecase.NewEngine(llmClient, router.New(llmClient), inventory)
	return engine, closer, nil
}

func cmdServe() *cli.Command {
	var addr string
	var engineCfg engineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("NESTAI_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			engine, closer, err := engineCfg.Configure(ctx)
			defer closer()
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(engine),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
