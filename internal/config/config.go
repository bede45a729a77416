package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ges-reports/gesreport/internal/merge"
)

// FileName is the default config file name.
const FileName = "report.yaml"

// TokenEnv is the environment variable holding the GraphQL bearer token.
const TokenEnv = "GRAPHQL_TOKEN"

// Config represents the top-level report.yaml configuration.
type Config struct {
	API            APIConfig      `yaml:"api"`
	CouncilID      string         `yaml:"council_id"`
	Constituencies []Constituency `yaml:"constituencies"`
	Order          []string       `yaml:"governor_order"`
	Unlisted       string         `yaml:"unlisted"` // "last" or "drop"
	Expense        ExpenseConfig  `yaml:"expense"`
	Output         OutputConfig   `yaml:"output"`
	Sheets         SheetsConfig   `yaml:"sheets"`
}

// APIConfig locates the GraphQL endpoint.
type APIConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Timeout     string `yaml:"timeout"` // Go duration, e.g. "30s"
	Concurrency int    `yaml:"concurrency"`
}

// Constituency maps an API id to its governor.
type Constituency struct {
	Name     string `yaml:"name"`
	ID       string `yaml:"id"`
	Governor string `yaml:"governor"`
}

// ExpenseConfig describes the local top-up spreadsheet.
type ExpenseConfig struct {
	Path         string `yaml:"path"`
	UnitColumn   string `yaml:"unit_column"`
	AmountColumn string `yaml:"amount_column"`
}

// OutputConfig controls the local report files.
type OutputConfig struct {
	XLSX string `yaml:"xlsx"`
	CSV  string `yaml:"csv,omitempty"`
}

// SheetsConfig controls the shared online spreadsheet update.
type SheetsConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Worksheet       string `yaml:"worksheet"`
	Range           string `yaml:"range"`
}

// Load reads a report.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the GES council configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:    "https://admin.firstlovecenter.com/graphql",
			Timeout:     "30s",
			Concurrency: 1,
		},
		CouncilID:      "c65c638e-b708-492c-bb73-4b9e9ac2f8c0",
		Constituencies: DefaultConstituencies(),
		Order:          []string{"Bishop Daniel", "Frederick Asare", "David Akande", "Richmond Annan"},
		Unlisted:       string(merge.UnlistedLast),
		Expense: ExpenseConfig{
			Path:         "raw/sheet1.xlsx",
			UnitColumn:   "Constituency",
			AmountColumn: "Top Up",
		},
		Output: OutputConfig{
			XLSX: "output/combined_data.xlsx",
		},
		Sheets: SheetsConfig{
			Enabled:         false,
			CredentialsFile: "keys/service_json1.json",
			Worksheet:       "Sheet1",
			Range:           "B2:J7",
		},
	}
}

// DefaultConstituencies returns the GES constituencies reported on by default.
func DefaultConstituencies() []Constituency {
	return []Constituency{
		{Name: "GES 1", ID: "92de9259-bbc0-48fd-aa59-6669fb369d3e", Governor: "Bishop Daniel"},
		{Name: "GES AGBOGBA", ID: "e21b6f3f-8ab9-4e22-9cfc-927e1c536d95", Governor: "Frederick Asare"},
		{Name: "GES Gloryzone", ID: "15cb81b2-777b-4be7-a952-c3dc2fc8668b", Governor: "David Akande"},
		{Name: "GES ATU", ID: "44c412e7-e54c-4664-8321-4c38abe6dd21", Governor: "Richmond Annan"},
	}
}

// TimeoutDuration parses API.Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing api.timeout %q: %w", c.API.Timeout, err)
	}
	return d, nil
}

// MergeConfig builds the merge engine configuration. Governor order falls
// back to the constituency order when governor_order is empty.
func (c *Config) MergeConfig() merge.Config {
	names := make(map[string]string, len(c.Constituencies))
	var order []string
	for _, u := range c.Constituencies {
		if u.Governor == "" {
			continue
		}
		names[merge.NormalizeKey(u.Name)] = u.Governor
		order = append(order, u.Governor)
	}
	if len(c.Order) > 0 {
		order = c.Order
	}
	return merge.Config{
		DisplayNames: names,
		Order:        order,
		Unlisted:     merge.UnlistedPolicy(c.Unlisted),
		TotalLabel:   merge.DefaultTotalLabel,
	}
}

// ConstituencyIDs returns the API ids in configured order.
func (c *Config) ConstituencyIDs() []string {
	ids := make([]string, len(c.Constituencies))
	for i, u := range c.Constituencies {
		ids[i] = u.ID
	}
	return ids
}

// ResolvePaths makes relative file paths relative to base, normally the
// directory holding report.yaml.
func (c *Config) ResolvePaths(base string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	resolve(&c.Expense.Path)
	resolve(&c.Output.XLSX)
	resolve(&c.Output.CSV)
	resolve(&c.Sheets.CredentialsFile)
}
