package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ges-reports/gesreport/internal/merge"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sheets.Enabled = true
	cfg.Sheets.SpreadsheetID = "1AbCdEf"
	cfg.Output.CSV = "output/combined_data.csv"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.API, got.API)
	assert.Equal(t, cfg.CouncilID, got.CouncilID)
	assert.Equal(t, cfg.Constituencies, got.Constituencies)
	assert.Equal(t, cfg.Order, got.Order)
	assert.Equal(t, cfg.Expense, got.Expense)
	assert.Equal(t, cfg.Output, got.Output)
	assert.Equal(t, cfg.Sheets, got.Sheets)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://admin.firstlovecenter.com/graphql", cfg.API.Endpoint)
	assert.Equal(t, 1, cfg.API.Concurrency)
	require.Len(t, cfg.Constituencies, 4)
	assert.Equal(t, "GES 1", cfg.Constituencies[0].Name)
	assert.Equal(t, "Bishop Daniel", cfg.Constituencies[0].Governor)
	assert.Equal(t, "Top Up", cfg.Expense.AmountColumn)
	assert.Equal(t, "output/combined_data.xlsx", cfg.Output.XLSX)
	assert.Equal(t, "B2:J7", cfg.Sheets.Range)
	assert.Empty(t, cfg.Validate())

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "council_id: c65c638e-b708-492c-bb73-4b9e9ac2f8c0")
	assert.Contains(t, contents, "governor: Bishop Daniel")
	assert.Contains(t, contents, "amount_column: Top Up")
	assert.Contains(t, contents, "unlisted: last")
	assert.NotContains(t, contents, "csv:", "empty csv output is omitted")
}

func TestMergeConfig(t *testing.T) {
	cfg := Default()
	cfg.Constituencies[0].Name = " GES 1 "

	mc := cfg.MergeConfig()
	assert.Equal(t, "Bishop Daniel", mc.DisplayNames["GES 1"])
	assert.Equal(t, cfg.Order, mc.Order)
	assert.Equal(t, merge.UnlistedLast, mc.Unlisted)
	assert.Equal(t, "Total", mc.TotalLabel)
}

func TestMergeConfig_OrderFallsBackToConstituencies(t *testing.T) {
	cfg := Default()
	cfg.Order = nil
	cfg.Constituencies[3].Governor = ""

	mc := cfg.MergeConfig()
	assert.Equal(t, []string{"Bishop Daniel", "Frederick Asare", "David Akande"}, mc.Order)
	_, ok := mc.DisplayNames["GES ATU"]
	assert.False(t, ok)
}

func TestConstituencyIDs(t *testing.T) {
	ids := Default().ConstituencyIDs()
	assert.Equal(t, []string{
		"92de9259-bbc0-48fd-aa59-6669fb369d3e",
		"e21b6f3f-8ab9-4e22-9cfc-927e1c536d95",
		"15cb81b2-777b-4be7-a952-c3dc2fc8668b",
		"44c412e7-e54c-4664-8321-4c38abe6dd21",
	}, ids)
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()
	cfg.Output.CSV = "/abs/report.csv"
	cfg.ResolvePaths("/work")

	assert.Equal(t, filepath.Join("/work", "raw", "sheet1.xlsx"), cfg.Expense.Path)
	assert.Equal(t, filepath.Join("/work", "output", "combined_data.xlsx"), cfg.Output.XLSX)
	assert.Equal(t, "/abs/report.csv", cfg.Output.CSV)
	assert.Equal(t, filepath.Join("/work", "keys", "service_json1.json"), cfg.Sheets.CredentialsFile)
}
