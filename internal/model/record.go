package model

// ServiceSummary is the weekday attendance and income of one constituency
// for the reporting week. Attendance and Income are null when the week has
// no service record.
type ServiceSummary struct {
	Unit       string
	Attendance Number
	Income     Number
}

// UnitKey returns the join key.
func (s ServiceSummary) UnitKey() string { return s.Unit }

// WithUnitKey returns a copy carrying key.
func (s ServiceSummary) WithUnitKey(key string) ServiceSummary {
	s.Unit = key
	return s
}

// Combine sums two summaries of the same constituency.
func (s ServiceSummary) Combine(o ServiceSummary) ServiceSummary {
	s.Attendance = Add(s.Attendance, o.Attendance)
	s.Income = Add(s.Income, o.Income)
	return s
}

// ArrivalSummary holds the bussing counts of one constituency for an arrival date.
type ArrivalSummary struct {
	Unit            string
	ActiveBacentas  Number
	BacentasArrived Number
	BussesArrived   Number
	MembersArrived  Number
}

// UnitKey returns the join key.
func (a ArrivalSummary) UnitKey() string { return a.Unit }

// WithUnitKey returns a copy carrying key.
func (a ArrivalSummary) WithUnitKey(key string) ArrivalSummary {
	a.Unit = key
	return a
}

// Combine sums two arrival summaries of the same constituency.
func (a ArrivalSummary) Combine(o ArrivalSummary) ArrivalSummary {
	a.ActiveBacentas = Add(a.ActiveBacentas, o.ActiveBacentas)
	a.BacentasArrived = Add(a.BacentasArrived, o.BacentasArrived)
	a.BussesArrived = Add(a.BussesArrived, o.BussesArrived)
	a.MembersArrived = Add(a.MembersArrived, o.MembersArrived)
	return a
}

// SubunitCount is the total number of bacentas in a constituency.
type SubunitCount struct {
	Unit          string
	TotalBacentas Number
}

// UnitKey returns the join key.
func (c SubunitCount) UnitKey() string { return c.Unit }

// WithUnitKey returns a copy carrying key.
func (c SubunitCount) WithUnitKey(key string) SubunitCount {
	c.Unit = key
	return c
}

// Combine sums two counts of the same constituency.
func (c SubunitCount) Combine(o SubunitCount) SubunitCount {
	c.TotalBacentas = Add(c.TotalBacentas, o.TotalBacentas)
	return c
}

// Expense is the bussing top-up spent by one constituency.
type Expense struct {
	Unit         string
	TotalExpense Number
}

// UnitKey returns the join key.
func (e Expense) UnitKey() string { return e.Unit }

// WithUnitKey returns a copy carrying key.
func (e Expense) WithUnitKey(key string) Expense {
	e.Unit = key
	return e
}

// Combine sums two expense entries of the same constituency.
func (e Expense) Combine(o Expense) Expense {
	e.TotalExpense = Add(e.TotalExpense, o.TotalExpense)
	return e
}
