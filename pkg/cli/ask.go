package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var outputJSON bool
	var engineCfg engineConfig

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the full answer as JSON",
			Sources:     cli.EnvVars("NESTAI_ASK_JSON"),
			Destination: &outputJSON,
		},
	}
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Aliases:   []string{"a"},
		Usage:     "Answer a single question from the command line",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("question is required", goerr.T(types.ErrTagConfig))
			}

			engine, closer, err := engineCfg.Configure(ctx)
			defer closer()
			if err != nil {
				return err
			}

			answer := engine.Answer(ctx, query)

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(answer)
			}

			fmt.Println(answer.Answer)
			return nil
		},
	}
}
