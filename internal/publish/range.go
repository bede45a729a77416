package publish

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is a rectangular A1 cell range such as "B2:J7".
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// ParseRange parses an A1 range with both corners given.
func ParseRange(a1 string) (Range, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(a1), ":")
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q: expected START:END", a1)
	}
	sc, sr, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", a1, err)
	}
	ec, er, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", a1, err)
	}
	if ec < sc || er < sr {
		return Range{}, fmt.Errorf("invalid range %q: end before start", a1)
	}
	return Range{StartCol: sc, StartRow: sr, EndCol: ec, EndRow: er}, nil
}

// Rows returns the number of rows covered.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns covered.
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// String formats the range in A1 notation.
func (r Range) String() string {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	end, _ := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	return start + ":" + end
}

// Fits reports an error when values do not fit inside the range.
func (r Range) Fits(values [][]any) error {
	if len(values) > r.Rows() {
		return fmt.Errorf("%d rows do not fit range %s (%d rows)", len(values), r, r.Rows())
	}
	for i, row := range values {
		if len(row) > r.Cols() {
			return fmt.Errorf("row %d has %d columns, range %s has %d", i+1, len(row), r, r.Cols())
		}
	}
	return nil
}
