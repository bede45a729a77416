package expense

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ges-reports/gesreport/internal/merge"
	"github.com/ges-reports/gesreport/internal/model"
)

// SchemaError means the file lacks an expected column.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("%s: missing column %q", e.Path, e.Column)
}

// Loader reads the bussing top-up sheet.
type Loader struct {
	registry     *Registry
	unitColumn   string
	amountColumn string
}

// NewLoader creates a Loader matching the given header names.
func NewLoader(registry *Registry, unitColumn, amountColumn string) *Loader {
	return &Loader{registry: registry, unitColumn: unitColumn, amountColumn: amountColumn}
}

// Load reads path and returns one Expense per constituency.
func (l *Loader) Load(path string) ([]model.Expense, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	rd := l.registry.Get(format)
	if rd == nil {
		return nil, fmt.Errorf("unsupported expense file format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening expense file: %w", err)
	}
	defer f.Close()

	rows, err := rd.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	expenses, err := Parse(rows, l.unitColumn, l.amountColumn)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	return expenses, nil
}

// Parse groups rows by unit and sums the amount column. The first row is
// the header. Rows without a unit are ignored; blank amounts count as null.
func Parse(rows [][]string, unitColumn, amountColumn string) ([]model.Expense, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	unitIdx := columnIndex(header, unitColumn)
	if unitIdx < 0 {
		return nil, &SchemaError{Column: unitColumn}
	}
	amountIdx := columnIndex(header, amountColumn)
	if amountIdx < 0 {
		return nil, &SchemaError{Column: amountColumn}
	}

	var raw []model.Expense
	for i, rec := range rows[1:] {
		unit := merge.NormalizeKey(cell(rec, unitIdx))
		if unit == "" {
			continue
		}
		amount, err := parseAmount(cell(rec, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing %s: %w", i+2, amountColumn, err)
		}
		raw = append(raw, model.Expense{Unit: unit, TotalExpense: amount})
	}
	return merge.Aggregate(raw), nil
}

func columnIndex(header []string, name string) int {
	fold := cases.Fold()
	want := headerKey(fold, name)
	for i, h := range header {
		if headerKey(fold, h) == want {
			return i
		}
	}
	return -1
}

// headerKey folds case and unicode composition so "TOP UP" and "Top Up"
// written by different spreadsheet tools compare equal.
func headerKey(fold cases.Caser, s string) string {
	return fold.String(norm.NFC.String(strings.TrimSpace(s)))
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// thousands matches amounts grouped with commas, like "1,200" or "12,345.50".
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

func parseAmount(raw string) (model.Number, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.Null, nil
	}
	if strings.Contains(s, ",") {
		if !thousands.MatchString(s) {
			return model.Null, fmt.Errorf("invalid amount %q", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return model.Null, fmt.Errorf("invalid amount %q", s)
	}
	return model.Dec(d), nil
}
