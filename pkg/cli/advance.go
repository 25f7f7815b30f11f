package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/legisdesk/casetriage/pkg/cli/config"
	"github.com/legisdesk/casetriage/pkg/usecase"
)

func cmdAdvance() *cli.Command {
	var outputJSON bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var taxCfg config.Taxonomy

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the updated case as JSON instead of a summary",
			Destination: &outputJSON,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, taxCfg.Flags()...)

	return &cli.Command{
		Name:      "advance",
		Aliases:   []string{"a"},
		Usage:     "Complete the next open step of a case and draft a follow-up",
		ArgsUsage: "<case-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			caseID := c.Args().First()
			if caseID == "" {
				return goerr.New("case-id argument is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer repo.Close() //nolint:errcheck

			tax, err := taxCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure taxonomy")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			uc := usecase.New(repo, tax, llm)
			updated, err := uc.Advance.AdvanceStep(ctx, caseID)
			if err != nil {
				return goerr.Wrap(err, "failed to advance case", goerr.V("case_id", caseID))
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(updated)
			}

			header := color.New(color.FgCyan, color.Bold)
			header.Printf("case %s: %d/%d steps completed\n", updated.ID, updated.CompletedSteps(), len(updated.Plan))
			for i, step := range updated.Plan {
				fmt.Printf("  %d. [%s] %s (+%dd)\n", i+1, step.Status, step.Action, step.DaysFromNow)
			}
			fmt.Printf("  drafts: %d\n", len(updated.Drafts))
			return nil
		},
	}
}
