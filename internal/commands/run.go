package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ges-reports/gesreport/internal/config"
	"github.com/ges-reports/gesreport/internal/expense"
	"github.com/ges-reports/gesreport/internal/fetch"
	"github.com/ges-reports/gesreport/internal/model"
	"github.com/ges-reports/gesreport/internal/pipeline"
	"github.com/ges-reports/gesreport/internal/publish"
)

type runOptions struct {
	configPath  string
	envFile     string
	arrivalDate string
	week        int
	noSheets    bool
	csvPath     string
}

func newRunCommand(root *rootOptions) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, merge and publish the weekly report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), root.logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.FileName, "path to report.yaml")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file holding "+config.TokenEnv)
	cmd.Flags().StringVar(&opts.arrivalDate, "arrival-date", "", "bussing arrival date (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("arrival-date")
	cmd.Flags().IntVar(&opts.week, "week", 0, "reporting week (default: ISO week of the arrival date)")
	cmd.Flags().BoolVar(&opts.noSheets, "no-sheets", false, "skip the online spreadsheet update")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "also write the report as CSV to this path")

	return cmd
}

func runReport(ctx context.Context, out io.Writer, logger *zap.Logger, opts runOptions) error {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", opts.envFile, err)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	date, err := time.Parse(pipeline.DateFormat, opts.arrivalDate)
	if err != nil {
		return fmt.Errorf("parsing arrival date %q: %w", opts.arrivalDate, err)
	}

	token := strings.TrimSpace(os.Getenv(config.TokenEnv))
	if token == "" {
		return fmt.Errorf("missing %s", config.TokenEnv)
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}

	client := fetch.NewClient(cfg.API.Endpoint, token, logger, fetch.WithTimeout(timeout))
	loader := expense.NewLoader(expense.DefaultRegistry(), cfg.Expense.UnitColumn, cfg.Expense.AmountColumn)

	sinks, err := buildSinks(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}

	runner, err := pipeline.New(cfg, client, loader, publish.NewPublisher(logger, sinks...), logger)
	if err != nil {
		return err
	}

	rep, err := runner.Run(ctx, pipeline.Params{ArrivalDate: date, Week: opts.week})
	if rep != nil {
		if perr := printReport(out, rep); perr != nil {
			logger.Warn("Printing report failed", zap.Error(perr))
		}
	}
	return err
}

func buildSinks(ctx context.Context, cfg *config.Config, opts runOptions, logger *zap.Logger) ([]publish.Sink, error) {
	sinks := []publish.Sink{&publish.XLSXSink{Path: cfg.Output.XLSX}}

	csvPath := cfg.Output.CSV
	if opts.csvPath != "" {
		csvPath = opts.csvPath
	}
	if csvPath != "" {
		sinks = append(sinks, &publish.CSVSink{Path: csvPath})
	}

	switch {
	case !cfg.Sheets.Enabled:
		logger.Warn("Online spreadsheet update skipped: sheets.enabled is false in config")
		return sinks, nil
	case opts.noSheets:
		logger.Warn("Online spreadsheet update skipped: --no-sheets given")
		return sinks, nil
	}

	svc, err := publish.NewSheetsService(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("connecting to sheets: %w", err)
	}
	sheet, err := publish.NewSheetsSink(svc, cfg.Sheets.SpreadsheetID, cfg.Sheets.Worksheet, cfg.Sheets.Range)
	if err != nil {
		return nil, err
	}
	return append(sinks, sheet), nil
}

func printReport(out io.Writer, rep *model.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(model.Header(), "\t"))
	for _, line := range rep.Lines() {
		fmt.Fprintln(tw, strings.Join(publish.MarshalRow(line), "\t"))
	}
	return tw.Flush()
}
