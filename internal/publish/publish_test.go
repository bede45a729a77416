package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ges-reports/gesreport/internal/model"
)

func testReport() *model.Report {
	return &model.Report{
		Rows: []model.ReportRow{
			{Governor: "Bishop Daniel", ActiveBacentas: model.Int(8), WeekdayIncome: model.Int(100)},
			{Governor: "Frederick Asare", ActiveBacentas: model.Int(6), WeekdayIncome: model.Null},
		},
		Total: model.ReportRow{Governor: "Total", ActiveBacentas: model.Int(14), WeekdayIncome: model.Int(100)},
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("B2:J7")
	require.NoError(t, err)
	assert.Equal(t, Range{StartCol: 2, StartRow: 2, EndCol: 10, EndRow: 7}, r)
	assert.Equal(t, 6, r.Rows())
	assert.Equal(t, 9, r.Cols())
	assert.Equal(t, "B2:J7", r.String())
}

func TestParseRange_Invalid(t *testing.T) {
	for _, in := range []string{"", "B2", "B2:", "2B:J7", "J7:B2"} {
		_, err := ParseRange(in)
		assert.Error(t, err, "ParseRange(%q)", in)
	}
}

func TestRange_Fits(t *testing.T) {
	r, err := ParseRange("B2:J7")
	require.NoError(t, err)

	assert.NoError(t, r.Fits(testReport().Values()))

	tooMany := make([][]any, 7)
	assert.ErrorContains(t, r.Fits(tooMany), "do not fit")

	tooWide := [][]any{make([]any, 10)}
	assert.ErrorContains(t, r.Fits(tooWide), "columns")
}

func TestXLSXSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "combined_data.xlsx")
	sink := &XLSXSink{Path: path}
	require.NoError(t, sink.Publish(context.Background(), testReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	list := f.GetSheetList()
	require.Len(t, list, 1)

	header, err := f.GetCellValue(list[0], "A1")
	require.NoError(t, err)
	assert.Equal(t, "Governor", header)

	last, err := f.GetCellValue(list[0], "I1")
	require.NoError(t, err)
	assert.Equal(t, "Weekday Income", last)

	gov, err := f.GetCellValue(list[0], "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total", gov)

	active, err := f.GetCellValue(list[0], "B4")
	require.NoError(t, err)
	assert.Equal(t, "14", active)

	missing, err := f.GetCellValue(list[0], "I3")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Governor,Active Bacentas,Bacentas On Vacation,Bacentas That Bussed,Bacentas That Didn't Bus,Bussing Attendance,Bussing Expense,Weekday Attendance,Weekday Income", lines[0])
	assert.Equal(t, "Bishop Daniel,8,,,,,,,100", lines[1])
	assert.Equal(t, "Frederick Asare,6,,,,,,,", lines[2])
	assert.Equal(t, "Total,14,,,,,,,100", lines[3])
}

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	sink := &CSVSink{Path: path}
	require.NoError(t, sink.Publish(context.Background(), testReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Governor,"))
}

func newTestSheets(t *testing.T, handler http.HandlerFunc) *sheets.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return svc
}

func TestSheetsSink_Publish(t *testing.T) {
	var gotMethod string
	var gotQuery string
	var body struct {
		Values [][]any `json:"values"`
	}
	svc := newTestSheets(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updatedCells": 36}`))
	})

	sink, err := NewSheetsSink(svc, "sheet-id", "Sheet1", "B2:J7")
	require.NoError(t, err)
	assert.Equal(t, "sheets:Sheet1!B2:J7", sink.Name())

	require.NoError(t, sink.Publish(context.Background(), testReport()))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Contains(t, gotQuery, "valueInputOption=RAW")
	require.Len(t, body.Values, 4, "header + 2 rows + totals")
	assert.Equal(t, "Governor", body.Values[0][0])
	assert.Equal(t, "Total", body.Values[3][0])
	assert.Equal(t, "", body.Values[2][8], "null cells are cleared")
}

func TestSheetsSink_RangeTooSmall(t *testing.T) {
	called := false
	svc := newTestSheets(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	sink, err := NewSheetsSink(svc, "sheet-id", "Sheet1", "B2:J3")
	require.NoError(t, err)

	err = sink.Publish(context.Background(), testReport())
	assert.ErrorContains(t, err, "do not fit")
	assert.False(t, called)
}

func TestSheetsSink_APIError(t *testing.T) {
	svc := newTestSheets(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "denied"}}`))
	})

	sink, err := NewSheetsSink(svc, "sheet-id", "Sheet1", "B2:J7")
	require.NoError(t, err)

	err = sink.Publish(context.Background(), testReport())
	assert.ErrorContains(t, err, "updating Sheet1!B2:J7")
}

type failingSink struct{ err error }

func (s *failingSink) Name() string { return "failing" }

func (s *failingSink) Publish(context.Context, *model.Report) error { return s.err }

func TestPublisher_WrapsFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined_data.xlsx")
	boom := errors.New("boom")
	second := &XLSXSink{Path: path}

	p := NewPublisher(zaptest.NewLogger(t), &failingSink{err: boom}, second)
	err := p.Publish(context.Background(), testReport())

	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "failing", pe.Sink)
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "later sinks do not run after a failure")
}

func TestPublisher_ChecksBeforeWriting(t *testing.T) {
	called := false
	svc := newTestSheets(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	sheet, err := NewSheetsSink(svc, "sheet-id", "Sheet1", "B2:J7")
	require.NoError(t, err)

	rep := &model.Report{Total: model.ReportRow{Governor: "Total"}}
	for _, name := range []string{"Bishop Daniel", "Frederick Asare", "David Akande", "Richmond Annan", "Grace Owusu"} {
		rep.Rows = append(rep.Rows, model.ReportRow{Governor: name, ActiveBacentas: model.Int(1)})
	}

	path := filepath.Join(t.TempDir(), "combined_data.xlsx")
	p := NewPublisher(zaptest.NewLogger(t), &XLSXSink{Path: path}, sheet)
	err = p.Publish(context.Background(), rep)

	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "sheets:Sheet1!B2:J7", pe.Sink)
	assert.ErrorContains(t, err, "do not fit")
	assert.False(t, called)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file is written when a sink rejects the report")
}

func TestPublisher_AllSinks(t *testing.T) {
	dir := t.TempDir()
	xlsx := &XLSXSink{Path: filepath.Join(dir, "a.xlsx")}
	csvSink := &CSVSink{Path: filepath.Join(dir, "a.csv")}

	p := NewPublisher(zaptest.NewLogger(t), xlsx, csvSink)
	require.NoError(t, p.Publish(context.Background(), testReport()))

	for _, path := range []string{xlsx.Path, csvSink.Path} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}
