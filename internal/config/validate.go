package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ges-reports/gesreport/internal/merge"
	"github.com/ges-reports/gesreport/internal/publish"
)

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// Validate checks the config for problems that would abort a run late.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Description: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.API.Endpoint) == "" {
		add("api.endpoint", "required")
	}
	if _, err := c.TimeoutDuration(); err != nil {
		add("api.timeout", "invalid duration %q", c.API.Timeout)
	}
	if c.API.Concurrency < 0 {
		add("api.concurrency", "must not be negative, got %d", c.API.Concurrency)
	}

	if _, err := uuid.Parse(c.CouncilID); err != nil {
		add("council_id", "invalid id %q", c.CouncilID)
	}

	if len(c.Constituencies) == 0 {
		add("constituencies", "at least one constituency is required")
	}
	seenIDs := make(map[string]bool)
	seenNames := make(map[string]bool)
	for i, u := range c.Constituencies {
		field := fmt.Sprintf("constituencies[%d]", i)
		name := merge.NormalizeKey(u.Name)
		if name == "" {
			add(field+".name", "required")
		} else if seenNames[name] {
			add(field+".name", "duplicate constituency %q", name)
		}
		seenNames[name] = true

		if _, err := uuid.Parse(u.ID); err != nil {
			add(field+".id", "invalid id %q", u.ID)
		} else if seenIDs[u.ID] {
			add(field+".id", "duplicate id %s", u.ID)
		}
		seenIDs[u.ID] = true
	}

	seenOrder := make(map[string]bool)
	for i, name := range c.Order {
		if seenOrder[name] {
			add(fmt.Sprintf("governor_order[%d]", i), "duplicate governor %q", name)
		}
		seenOrder[name] = true
	}

	switch merge.UnlistedPolicy(c.Unlisted) {
	case "", merge.UnlistedLast, merge.UnlistedDrop:
	default:
		add("unlisted", "must be %q or %q, got %q", merge.UnlistedLast, merge.UnlistedDrop, c.Unlisted)
	}

	if c.Expense.Path == "" {
		add("expense.path", "required")
	}
	if c.Expense.UnitColumn == "" {
		add("expense.unit_column", "required")
	}
	if c.Expense.AmountColumn == "" {
		add("expense.amount_column", "required")
	}
	if c.Output.XLSX == "" {
		add("output.xlsx", "required")
	}

	if c.Sheets.Enabled {
		if c.Sheets.CredentialsFile == "" {
			add("sheets.credentials_file", "required when sheets are enabled")
		}
		if c.Sheets.SpreadsheetID == "" {
			add("sheets.spreadsheet_id", "required when sheets are enabled")
		}
		if c.Sheets.Worksheet == "" {
			add("sheets.worksheet", "required when sheets are enabled")
		}
		if _, err := publish.ParseRange(c.Sheets.Range); err != nil {
			add("sheets.range", "%v", err)
		}
	}

	return errs
}
