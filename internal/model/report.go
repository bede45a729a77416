package model

// Column names a report column.
type Column string

const (
	ColGovernor             Column = "Governor"
	ColActiveBacentas       Column = "Active Bacentas"
	ColBacentasOnVacation   Column = "Bacentas On Vacation"
	ColBacentasThatBussed   Column = "Bacentas That Bussed"
	ColBacentasThatDidntBus Column = "Bacentas That Didn't Bus"
	ColBussingAttendance    Column = "Bussing Attendance"
	ColBussingExpense       Column = "Bussing Expense"
	ColWeekdayAttendance    Column = "Weekday Attendance"
	ColWeekdayIncome        Column = "Weekday Income"
)

// Columns is the projected column set in output order.
var Columns = []Column{
	ColGovernor,
	ColActiveBacentas,
	ColBacentasOnVacation,
	ColBacentasThatBussed,
	ColBacentasThatDidntBus,
	ColBussingAttendance,
	ColBussingExpense,
	ColWeekdayAttendance,
	ColWeekdayIncome,
}

// Header returns the column names as strings.
func Header() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = string(c)
	}
	return out
}

// ReportRow is the merged record of one governor.
type ReportRow struct {
	Key      string // normalized constituency name
	Governor string // display name after remap

	ActiveBacentas       Number
	TotalBacentas        Number
	BacentasOnVacation   Number
	BacentasThatBussed   Number
	BacentasThatDidntBus Number
	BussingAttendance    Number
	BussingExpense       Number
	WeekdayAttendance    Number
	WeekdayIncome        Number
}

// Number returns the value of a numeric column. ok is false for Governor
// and unknown columns.
func (r ReportRow) Number(col Column) (n Number, ok bool) {
	switch col {
	case ColActiveBacentas:
		return r.ActiveBacentas, true
	case ColBacentasOnVacation:
		return r.BacentasOnVacation, true
	case ColBacentasThatBussed:
		return r.BacentasThatBussed, true
	case ColBacentasThatDidntBus:
		return r.BacentasThatDidntBus, true
	case ColBussingAttendance:
		return r.BussingAttendance, true
	case ColBussingExpense:
		return r.BussingExpense, true
	case ColWeekdayAttendance:
		return r.WeekdayAttendance, true
	case ColWeekdayIncome:
		return r.WeekdayIncome, true
	}
	return Null, false
}

// Cell returns the value of col as a plain Go value: string for Governor,
// float64 for valid numbers, nil for nulls.
func (r ReportRow) Cell(col Column) any {
	if col == ColGovernor {
		return r.Governor
	}
	n, ok := r.Number(col)
	if !ok || !n.Valid {
		return nil
	}
	return n.Decimal.InexactFloat64()
}

// Report is the ordered governor rows followed by a totals row.
type Report struct {
	Rows  []ReportRow
	Total ReportRow
}

// Lines returns the rows with the totals row appended.
func (r *Report) Lines() []ReportRow {
	out := make([]ReportRow, 0, len(r.Rows)+1)
	out = append(out, r.Rows...)
	return append(out, r.Total)
}

// Values returns the header followed by every line as cell values.
func (r *Report) Values() [][]any {
	lines := r.Lines()
	out := make([][]any, 0, len(lines)+1)
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = string(c)
	}
	out = append(out, header)
	for _, line := range lines {
		row := make([]any, len(Columns))
		for i, c := range Columns {
			row[i] = line.Cell(c)
		}
		out = append(out, row)
	}
	return out
}
