package merge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ges-reports/gesreport/internal/model"
)

// UnlistedPolicy decides what happens to governors missing from the order list.
type UnlistedPolicy string

const (
	// UnlistedLast keeps unlisted governors after the listed ones, sorted by name.
	UnlistedLast UnlistedPolicy = "last"
	// UnlistedDrop removes unlisted governors from the report and the totals.
	UnlistedDrop UnlistedPolicy = "drop"
)

// DefaultTotalLabel is the Governor value of the totals row.
const DefaultTotalLabel = "Total"

// Config controls remapping, ordering and totals of a report.
type Config struct {
	DisplayNames map[string]string // constituency key -> governor name
	Order        []string          // governor names in output order
	Unlisted     UnlistedPolicy
	TotalLabel   string
}

// Inputs are the four per-constituency source tables.
type Inputs struct {
	Expenses []model.Expense
	Arrivals []model.ArrivalSummary
	Services []model.ServiceSummary
	Subunits []model.SubunitCount
}

// Engine merges source tables into a Report.
type Engine struct {
	cfg  Config
	rank map[string]int
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	switch cfg.Unlisted {
	case "":
		cfg.Unlisted = UnlistedLast
	case UnlistedLast, UnlistedDrop:
	default:
		return nil, fmt.Errorf("unknown unlisted policy %q", cfg.Unlisted)
	}
	if cfg.TotalLabel == "" {
		cfg.TotalLabel = DefaultTotalLabel
	}

	rank := make(map[string]int, len(cfg.Order))
	for i, name := range cfg.Order {
		if _, dup := rank[name]; dup {
			return nil, fmt.Errorf("governor %q listed twice in order", name)
		}
		rank[name] = i
	}
	return &Engine{cfg: cfg, rank: rank}, nil
}

// Build joins the inputs, derives the computed columns, orders the rows and
// appends the totals row.
func (e *Engine) Build(in Inputs) (*model.Report, error) {
	in = Inputs{
		Expenses: Normalize(in.Expenses),
		Arrivals: Normalize(in.Arrivals),
		Services: Normalize(in.Services),
		Subunits: Normalize(in.Subunits),
	}

	t := newTable()
	outerJoin(t, in.Expenses, func(j *joined, r model.Expense) { j.expense = &r })
	outerJoin(t, in.Arrivals, func(j *joined, r model.ArrivalSummary) { j.arrival = &r })
	outerJoin(t, in.Services, func(j *joined, r model.ServiceSummary) { j.service = &r })
	outerJoin(t, in.Subunits, func(j *joined, r model.SubunitCount) { j.subunits = &r })

	rows := make([]model.ReportRow, 0, len(t.rows))
	seen := make(map[string]string, len(t.rows))
	for _, j := range t.rows {
		row := relabel(j)
		row.Governor = e.displayName(row.Key)
		if row.Governor == e.cfg.TotalLabel {
			return nil, fmt.Errorf("constituency %q maps to the totals label %q", row.Key, row.Governor)
		}
		if other, ok := seen[row.Governor]; ok {
			return nil, fmt.Errorf("constituencies %q and %q both map to governor %q", other, row.Key, row.Governor)
		}
		seen[row.Governor] = row.Key
		derive(&row)
		rows = append(rows, row)
	}

	rows = e.order(rows)
	return &model.Report{Rows: rows, Total: e.totals(rows)}, nil
}

func (e *Engine) displayName(key string) string {
	if name, ok := e.cfg.DisplayNames[key]; ok {
		return name
	}
	return key
}

// relabel maps the joined source fields onto report columns.
func relabel(j *joined) model.ReportRow {
	row := model.ReportRow{Key: j.key}
	if j.expense != nil {
		row.BussingExpense = j.expense.TotalExpense
	}
	if j.arrival != nil {
		row.ActiveBacentas = j.arrival.ActiveBacentas
		row.BacentasThatBussed = j.arrival.BussesArrived
		row.BussingAttendance = j.arrival.MembersArrived
	}
	if j.service != nil {
		row.WeekdayAttendance = j.service.Attendance
		row.WeekdayIncome = j.service.Income
	}
	if j.subunits != nil {
		row.TotalBacentas = j.subunits.TotalBacentas
	}
	return row
}

func derive(row *model.ReportRow) {
	row.BacentasOnVacation = model.Sub(row.TotalBacentas, row.ActiveBacentas)
	row.BacentasThatDidntBus = model.Sub(row.ActiveBacentas, row.BacentasThatBussed)
}

func (e *Engine) order(rows []model.ReportRow) []model.ReportRow {
	if e.cfg.Unlisted == UnlistedDrop {
		rows = slices.DeleteFunc(rows, func(r model.ReportRow) bool {
			_, listed := e.rank[r.Governor]
			return !listed
		})
	}
	slices.SortStableFunc(rows, func(a, b model.ReportRow) int {
		ra, aok := e.rank[a.Governor]
		rb, bok := e.rank[b.Governor]
		switch {
		case aok && bok:
			return ra - rb
		case aok:
			return -1
		case bok:
			return 1
		}
		return strings.Compare(a.Governor, b.Governor)
	})
	return rows
}

// totals sums every numeric column with nulls counted as zero.
func (e *Engine) totals(rows []model.ReportRow) model.ReportRow {
	sum := func(get func(model.ReportRow) model.Number) model.Number {
		values := make([]model.Number, len(rows))
		for i, r := range rows {
			values[i] = get(r)
		}
		return model.SumAsZero(values...)
	}
	return model.ReportRow{
		Governor:             e.cfg.TotalLabel,
		ActiveBacentas:       sum(func(r model.ReportRow) model.Number { return r.ActiveBacentas }),
		TotalBacentas:        sum(func(r model.ReportRow) model.Number { return r.TotalBacentas }),
		BacentasOnVacation:   sum(func(r model.ReportRow) model.Number { return r.BacentasOnVacation }),
		BacentasThatBussed:   sum(func(r model.ReportRow) model.Number { return r.BacentasThatBussed }),
		BacentasThatDidntBus: sum(func(r model.ReportRow) model.Number { return r.BacentasThatDidntBus }),
		BussingAttendance:    sum(func(r model.ReportRow) model.Number { return r.BussingAttendance }),
		BussingExpense:       sum(func(r model.ReportRow) model.Number { return r.BussingExpense }),
		WeekdayAttendance:    sum(func(r model.ReportRow) model.Number { return r.WeekdayAttendance }),
		WeekdayIncome:        sum(func(r model.ReportRow) model.Number { return r.WeekdayIncome }),
	}
}
