package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ges-reports/gesreport/internal/config"
	"github.com/ges-reports/gesreport/internal/merge"
	"github.com/ges-reports/gesreport/internal/model"
)

// DateFormat is the layout of arrival dates sent to the API.
const DateFormat = "2006-01-02"

// Fetcher retrieves the remote per-constituency tables.
type Fetcher interface {
	ServiceSummaries(ctx context.Context, ids []string, week, limit int) ([]model.ServiceSummary, error)
	ArrivalSummaries(ctx context.Context, councilID, arrivalDate string) ([]model.ArrivalSummary, error)
	SubunitCounts(ctx context.Context, councilID string) ([]model.SubunitCount, error)
}

// ExpenseLoader reads the local top-up table.
type ExpenseLoader interface {
	Load(path string) ([]model.Expense, error)
}

// Publisher receives the finished report.
type Publisher interface {
	Publish(ctx context.Context, rep *model.Report) error
}

// Params are the per-run inputs.
type Params struct {
	ArrivalDate time.Time
	Week        int // reporting week; zero means the ISO week of ArrivalDate
}

// ReportingWeek resolves the week used to pick service records.
func (p Params) ReportingWeek() int {
	if p.Week > 0 {
		return p.Week
	}
	_, week := p.ArrivalDate.ISOWeek()
	return week
}

// Runner executes one report run.
type Runner struct {
	cfg       *config.Config
	fetcher   Fetcher
	loader    ExpenseLoader
	publisher Publisher
	engine    *merge.Engine
	logger    *zap.Logger
}

// New wires a Runner. The merge engine is built from cfg.
func New(cfg *config.Config, fetcher Fetcher, loader ExpenseLoader, publisher Publisher, logger *zap.Logger) (*Runner, error) {
	engine, err := merge.NewEngine(cfg.MergeConfig())
	if err != nil {
		return nil, fmt.Errorf("configuring merge: %w", err)
	}
	return &Runner{
		cfg:       cfg,
		fetcher:   fetcher,
		loader:    loader,
		publisher: publisher,
		engine:    engine,
		logger:    logger,
	}, nil
}

// Build collects every source table and merges them into a report. Nothing
// is written.
func (r *Runner) Build(ctx context.Context, p Params) (*model.Report, error) {
	expenses, err := r.loader.Load(r.cfg.Expense.Path)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}
	r.logger.Info("Expenses loaded", zap.String("path", r.cfg.Expense.Path), zap.Int("constituencies", len(expenses)))

	date := p.ArrivalDate.Format(DateFormat)
	arrivals, err := r.fetcher.ArrivalSummaries(ctx, r.cfg.CouncilID, date)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Arrivals fetched", zap.String("arrival_date", date), zap.Int("constituencies", len(arrivals)))

	week := p.ReportingWeek()
	services, err := r.fetcher.ServiceSummaries(ctx, r.cfg.ConstituencyIDs(), week, r.cfg.API.Concurrency)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Service summaries fetched", zap.Int("week", week), zap.Int("constituencies", len(services)))

	subunits, err := r.fetcher.SubunitCounts(ctx, r.cfg.CouncilID)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Bacenta counts fetched", zap.Int("constituencies", len(subunits)))

	rep, err := r.engine.Build(merge.Inputs{
		Expenses: expenses,
		Arrivals: arrivals,
		Services: services,
		Subunits: subunits,
	})
	if err != nil {
		return nil, fmt.Errorf("merging: %w", err)
	}
	r.logger.Info("Report built", zap.Int("governors", len(rep.Rows)))
	return rep, nil
}

// Run builds the report and publishes it. When publishing fails the built
// report is still returned with the error.
func (r *Runner) Run(ctx context.Context, p Params) (*model.Report, error) {
	rep, err := r.Build(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := r.publisher.Publish(ctx, rep); err != nil {
		return rep, err
	}
	return rep, nil
}
