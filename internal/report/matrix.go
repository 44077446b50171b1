package report

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/cheri-cve/internal/core"
)

//go:embed matrix.yaml
var defaultMatrix []byte

// Matrix is the fixed set of runs behind every report table.
type Matrix struct {
	Platform   PlatformMatrix   `yaml:"platform"`
	Causes     CauseMatrix      `yaml:"causes"`
	Technology TechnologyMatrix `yaml:"technology"`

	// Categories folds wording variants of one category onto a canonical
	// label. Empty means core.DefaultCategoryRules.
	Categories []CategoryRule `yaml:"categories"`
}

// CategoryRule is the YAML form of core.CategoryRule.
type CategoryRule struct {
	Contains  []string `yaml:"contains"`
	Canonical string   `yaml:"canonical"`
}

// PlatformMatrix drives Tables 1 and 2: one run per operating system and
// revocation mode, counting Outcome per category and system.
type PlatformMatrix struct {
	Outcome string         `yaml:"outcome"`
	Systems []string       `yaml:"systems"`
	Modes   []PlatformMode `yaml:"modes"`
}

// PlatformMode is one revocation mode of the platform tables.
type PlatformMode struct {
	Label   string      `yaml:"label"`
	Dataset string      `yaml:"dataset"`
	Runs    []SystemRun `yaml:"runs"`
}

// SystemRun selects one operating system's rows.
type SystemRun struct {
	System  string `yaml:"system"`
	Answers []int  `yaml:"answers"`
}

// CauseMatrix drives Table 4: one run per value 1..Values of Column.
type CauseMatrix struct {
	Dataset        string   `yaml:"dataset"`
	Column         int      `yaml:"column"`
	Values         int      `yaml:"values"`
	Manifestations []string `yaml:"manifestations"`
}

// TechnologyMatrix drives Tables 3 and 5.
type TechnologyMatrix struct {
	Columns []TechnologyColumn `yaml:"columns"`
	Modes   []TechnologyMode   `yaml:"modes"`
}

// TechnologyColumn maps a boolean outcome column to a table dimension.
type TechnologyColumn struct {
	Outcome string `yaml:"outcome"`
	Label   string `yaml:"label"`
}

// TechnologyMode is one revocation mode of the technology tables.
type TechnologyMode struct {
	Label   string `yaml:"label"`
	Dataset string `yaml:"dataset"`
	Answers []int  `yaml:"answers"`
}

// DefaultMatrix returns the built-in run matrix.
func DefaultMatrix() (*Matrix, error) {
	return ParseMatrix(defaultMatrix)
}

// LoadMatrix reads a matrix from path, or the built-in one when path is empty.
func LoadMatrix(path string) (*Matrix, error) {
	if path == "" {
		return DefaultMatrix()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	m, err := ParseMatrix(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Normalizer returns a category normalizer over the matrix's rules.
func (m *Matrix) Normalizer() *core.CategoryNormalizer {
	if len(m.Categories) == 0 {
		return core.NewCategoryNormalizer(core.DefaultCategoryRules)
	}
	rules := make([]core.CategoryRule, len(m.Categories))
	for i, r := range m.Categories {
		rules[i] = core.CategoryRule{Contains: r.Contains, Canonical: r.Canonical}
	}
	return core.NewCategoryNormalizer(rules)
}

// ParseMatrix decodes and validates YAML matrix text.
func ParseMatrix(data []byte) (*Matrix, error) {
	var m Matrix
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse matrix: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the matrix is usable.
// Returns an error describing all validation failures.
func (m *Matrix) Validate() error {
	var errs []string

	p := m.Platform
	if p.Outcome == "" {
		errs = append(errs, "platform.outcome must not be empty")
	}
	if len(p.Systems) == 0 {
		errs = append(errs, "platform.systems must not be empty")
	}
	systems := make(map[string]bool, len(p.Systems))
	for _, s := range p.Systems {
		if systems[s] {
			errs = append(errs, fmt.Sprintf("platform.systems: duplicate %q", s))
		}
		systems[s] = true
	}
	for i, mode := range p.Modes {
		if mode.Dataset == "" {
			errs = append(errs, fmt.Sprintf("platform.modes[%d].dataset must not be empty", i))
		}
		for j, run := range mode.Runs {
			if !systems[run.System] {
				errs = append(errs, fmt.Sprintf("platform.modes[%d].runs[%d]: unknown system %q", i, j, run.System))
			}
			if len(run.Answers) == 0 {
				errs = append(errs, fmt.Sprintf("platform.modes[%d].runs[%d]: answers must not be empty", i, j))
			}
		}
	}

	c := m.Causes
	if c.Dataset == "" {
		errs = append(errs, "causes.dataset must not be empty")
	}
	if c.Column <= 0 {
		errs = append(errs, fmt.Sprintf("causes.column (%d) must be positive", c.Column))
	}
	if c.Values <= 0 {
		errs = append(errs, fmt.Sprintf("causes.values (%d) must be positive", c.Values))
	}
	if len(c.Manifestations) == 0 {
		errs = append(errs, "causes.manifestations must not be empty")
	}

	t := m.Technology
	if len(t.Columns) == 0 {
		errs = append(errs, "technology.columns must not be empty")
	}
	for i, col := range t.Columns {
		if col.Outcome == "" || col.Label == "" {
			errs = append(errs, fmt.Sprintf("technology.columns[%d] needs outcome and label", i))
		}
	}
	for i, mode := range t.Modes {
		if mode.Dataset == "" {
			errs = append(errs, fmt.Sprintf("technology.modes[%d].dataset must not be empty", i))
		}
		if len(mode.Answers) == 0 {
			errs = append(errs, fmt.Sprintf("technology.modes[%d]: answers must not be empty", i))
		}
	}

	for i, r := range m.Categories {
		if r.Canonical == "" || len(r.Contains) == 0 {
			errs = append(errs, fmt.Sprintf("categories[%d] needs contains and canonical", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("matrix validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
