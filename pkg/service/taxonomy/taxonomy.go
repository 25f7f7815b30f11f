package taxonomy

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/legisdesk/casetriage/pkg/domain/types"
)

// Taxonomy is the fixed four-level agency tree used for classification.
// Traversal order is the declaration order of the tree, so flattened paths
// are stable across runs.
type Taxonomy struct {
	Agencies []Agency `toml:"agency"`
}

// Agency is a Tier 1 node mapped to a coarse issue area
type Agency struct {
	Name        string          `toml:"name"`
	IssueArea   types.IssueArea `toml:"issue_area"`
	Subagencies []Subagency     `toml:"subagency"`
}

// Subagency is a Tier 2 node
type Subagency struct {
	Name     string    `toml:"name"`
	Programs []Program `toml:"program"`
}

// Program is a Tier 3 node; its problems are the Tier 4 leaves
type Program struct {
	Name     string   `toml:"name"`
	Problems []string `toml:"problems"`
}

// Load reads a taxonomy override from a TOML file
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read taxonomy file", goerr.V("path", path))
	}

	var t Taxonomy
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, goerr.Wrap(err, "failed to parse taxonomy file", goerr.V("path", path))
	}

	if err := t.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid taxonomy file", goerr.V("path", path))
	}

	return &t, nil
}

// Validate checks the tree is well formed
func (t *Taxonomy) Validate() error {
	if len(t.Agencies) == 0 {
		return goerr.New("taxonomy has no agencies")
	}

	seen := make(map[string]bool)
	for _, agency := range t.Agencies {
		if agency.Name == "" {
			return goerr.New("agency name is required")
		}
		if seen[agency.Name] {
			return goerr.New("duplicate agency name", goerr.V("name", agency.Name))
		}
		seen[agency.Name] = true

		if !agency.IssueArea.IsValid() {
			return goerr.New("invalid issue area", goerr.V("agency", agency.Name), goerr.V("issue_area", agency.IssueArea))
		}

		for _, sub := range agency.Subagencies {
			if sub.Name == "" {
				return goerr.New("subagency name is required", goerr.V("agency", agency.Name))
			}
			for _, prog := range sub.Programs {
				if prog.Name == "" {
					return goerr.New("program name is required", goerr.V("subagency", sub.Name))
				}
				if len(prog.Problems) == 0 {
					return goerr.New("program has no problems", goerr.V("program", prog.Name))
				}
			}
		}
	}

	return nil
}

// FlattenedPaths returns one "Agency → Subagency → Program → Problem" line
// per reachable quadruple, in depth-first declaration order.
func (t *Taxonomy) FlattenedPaths() []string {
	var paths []string
	for _, agency := range t.Agencies {
		for _, sub := range agency.Subagencies {
			for _, prog := range sub.Programs {
				for _, problem := range prog.Problems {
					paths = append(paths, agency.Name+" → "+sub.Name+" → "+prog.Name+" → "+problem)
				}
			}
		}
	}
	return paths
}

// PromptList returns the flattened paths joined for inclusion in a
// classification prompt.
func (t *Taxonomy) PromptList() string {
	return strings.Join(t.FlattenedPaths(), "\n")
}

// IssueArea maps a Tier 1 agency name to its issue area. Unrecognized
// agency names map to Other; this never errors.
func (t *Taxonomy) IssueArea(agencyName string) types.IssueArea {
	for _, agency := range t.Agencies {
		if agency.Name == agencyName {
			return agency.IssueArea
		}
	}
	return types.IssueAreaOther
}

// ContainsPath reports whether every tier of the tag quadruple exactly
// matches a node on a single path through the tree. Classifications that
// fail this check are low-confidence but still usable.
func (t *Taxonomy) ContainsPath(tier1, tier2, tier3, tier4 string) bool {
	for _, agency := range t.Agencies {
		if agency.Name != tier1 {
			continue
		}
		for _, sub := range agency.Subagencies {
			if sub.Name != tier2 {
				continue
			}
			for _, prog := range sub.Programs {
				if prog.Name != tier3 {
					continue
				}
				for _, problem := range prog.Problems {
					if problem == tier4 {
						return true
					}
				}
			}
		}
	}
	return false
}
