package publish

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ges-reports/gesreport/internal/model"
)

// CSVSink writes the report as a CSV file.
type CSVSink struct {
	Path string
}

// Name returns the sink name.
func (s *CSVSink) Name() string { return "csv:" + s.Path }

// Publish writes the report to s.Path.
func (s *CSVSink) Publish(_ context.Context, rep *model.Report) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.Path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, rep); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes the header followed by every report line.
func WriteCSV(w io.Writer, rep *model.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(model.Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, line := range rep.Lines() {
		if err := cw.Write(MarshalRow(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a report line to CSV fields. Null numbers are empty.
func MarshalRow(row model.ReportRow) []string {
	out := make([]string, len(model.Columns))
	for i, col := range model.Columns {
		if col == model.ColGovernor {
			out[i] = row.Governor
			continue
		}
		if n, ok := row.Number(col); ok && n.Valid {
			out[i] = n.Decimal.String()
		}
	}
	return out
}
