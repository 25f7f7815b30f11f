package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/legisdesk/casetriage/pkg/service/taxonomy"
	"github.com/legisdesk/casetriage/pkg/utils/logging"
)

// Taxonomy holds CLI flags for the agency taxonomy source
type Taxonomy struct {
	path string
}

// Flags returns CLI flags for taxonomy configuration
func (t *Taxonomy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "taxonomy-file",
			Usage:       "TOML file overriding the built-in agency taxonomy",
			Sources:     cli.EnvVars("CASETRIAGE_TAXONOMY_FILE"),
			Destination: &t.path,
		},
	}
}

// Configure returns the taxonomy to classify against: the override file
// when one is given, otherwise the built-in tree.
func (t *Taxonomy) Configure() (*taxonomy.Taxonomy, error) {
	if t.path == "" {
		return taxonomy.Default(), nil
	}

	tax, err := taxonomy.Load(t.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load taxonomy override")
	}

	logging.Default().Info("Loaded taxonomy override",
		"path", t.path,
		"paths", len(tax.FlattenedPaths()),
	)
	return tax, nil
}
