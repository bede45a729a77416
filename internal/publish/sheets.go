package publish

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ges-reports/gesreport/internal/model"
)

// NewSheetsService authenticates with a service account key file.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return sheets.NewService(ctx, option.WithCredentials(creds))
}

// SheetsSink overwrites a fixed range of a worksheet in a shared spreadsheet.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	rng           Range
}

// NewSheetsSink validates the target range and returns a sink.
func NewSheetsSink(svc *sheets.Service, spreadsheetID, worksheet, a1 string) (*SheetsSink, error) {
	rng, err := ParseRange(a1)
	if err != nil {
		return nil, err
	}
	return &SheetsSink{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet, rng: rng}, nil
}

// Name returns the sink name.
func (s *SheetsSink) Name() string { return "sheets:" + s.target() }

func (s *SheetsSink) target() string {
	return s.worksheet + "!" + s.rng.String()
}

// Check reports whether the header and report lines fit the target range.
func (s *SheetsSink) Check(rep *model.Report) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}
	return s.rng.Fits(rep.Values())
}

// Publish writes the header row followed by the report lines.
func (s *SheetsSink) Publish(ctx context.Context, rep *model.Report) error {
	if err := s.Check(rep); err != nil {
		return err
	}
	values := sheetValues(rep)

	vr := &sheets.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.target(), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", s.target(), err)
	}
	return nil
}

// sheetValues replaces null cells with empty strings so stale values are
// cleared rather than skipped.
func sheetValues(rep *model.Report) [][]any {
	values := rep.Values()
	for _, row := range values {
		for i, v := range row {
			if v == nil {
				row[i] = ""
			}
		}
	}
	return values
}
