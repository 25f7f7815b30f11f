package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/legisdesk/casetriage/pkg/cli/config"
	"github.com/legisdesk/casetriage/pkg/domain/model"
	"github.com/legisdesk/casetriage/pkg/usecase"
)

func cmdTriage() *cli.Command {
	var inputPath string
	var outputJSON bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var taxCfg config.Taxonomy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "JSON file with messages to triage (array of {id, subject, body}); the built-in samples are used when omitted",
			Sources:     cli.EnvVars("CASETRIAGE_TRIAGE_INPUT"),
			Destination: &inputPath,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the triaged cases as JSON instead of a summary",
			Destination: &outputJSON,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, taxCfg.Flags()...)

	return &cli.Command{
		Name:    "triage",
		Aliases: []string{"t"},
		Usage:   "Run the triage pipeline over messages from a file or the built-in samples",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			msgs, err := loadMessages(inputPath)
			if err != nil {
				return err
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
			results := uc.Triage.ProcessBatch(ctx, msgs)

			if outputJSON {
				return printResultsJSON(results)
			}
			printResultsSummary(results)

			for _, res := range results {
				if res.Err != nil {
					return goerr.Wrap(res.Err, "triage failed for at least one message")
				}
			}
			return nil
		},
	}
}

func loadMessages(path string) ([]model.Message, error) {
	if path == "" {
		return model.SampleMessages(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
	}

	var msgs []model.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input file", goerr.V("path", path))
	}
	if len(msgs) == 0 {
		return nil, goerr.New("input file has no messages", goerr.V("path", path))
	}

	return msgs, nil
}

func printResultsJSON(results []usecase.TriageResult) error {
	out := make([]*model.Case, 0, len(results))
	for _, res := range results {
		if res.Case != nil {
			out = append(out, res.Case)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printResultsSummary(results []usecase.TriageResult) {
	header := color.New(color.FgCyan, color.Bold)
	fail := color.New(color.FgRed)

	for _, res := range results {
		if res.Err != nil {
			fail.Printf("✗ case %s: %s\n", res.Message.ID, res.Err.Error())
			continue
		}

		c := res.Case
		header.Printf("✓ case %s: %s\n", c.ID, c.Subject)
		fmt.Printf("  area: %s  sentiment: %s\n", c.IssueArea, c.Sentiment)
		fmt.Printf("  tags: %s / %s / %s / %s\n", c.Tags.Tier1, c.Tags.Tier2, c.Tags.Tier3, c.Tags.Tier4)
		fmt.Printf("  plan (%d steps): %s\n", len(c.Plan), strings.Join(c.Actions, ", "))
		fmt.Printf("  drafts: %d\n", len(c.Drafts))
	}
}
