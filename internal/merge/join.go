package merge

import "github.com/ges-reports/gesreport/internal/model"

// joined is one key of the running outer join. A nil source pointer means
// the key was absent from that source.
type joined struct {
	key      string
	expense  *model.Expense
	arrival  *model.ArrivalSummary
	service  *model.ServiceSummary
	subunits *model.SubunitCount
}

// table accumulates the pairwise outer joins in first-seen key order.
type table struct {
	rows  []*joined
	index map[string]*joined
}

func newTable() *table {
	return &table{index: make(map[string]*joined)}
}

func (t *table) row(key string) *joined {
	if j, ok := t.index[key]; ok {
		return j
	}
	j := &joined{key: key}
	t.index[key] = j
	t.rows = append(t.rows, j)
	return j
}

// outerJoin merges right into t. Keys are re-normalized and duplicates
// collapsed before the join so each key attaches at most once.
func outerJoin[T Combinable[T]](t *table, right []T, attach func(*joined, T)) {
	for _, r := range Aggregate(right) {
		attach(t.row(r.UnitKey()), r)
	}
}
