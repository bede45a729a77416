package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ges-reports/gesreport/internal/model"
)

// XLSXSink writes the report to a single-sheet workbook.
type XLSXSink struct {
	Path string
}

// Name returns the sink name.
func (s *XLSXSink) Name() string { return "xlsx:" + s.Path }

// Publish writes the header, the governor rows and the totals row. There is
// no index column.
func (s *XLSXSink) Publish(_ context.Context, rep *model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rep.Values() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("saving %s: %w", s.Path, err)
	}
	return nil
}
