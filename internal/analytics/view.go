package analytics

import "github.com/jmehdipour/rfm-dashboard/internal/model"

// View is a subset of a Table's rows held as indices, in table order.
// Views never copy or mutate the parent rows.
type View struct {
	table   *Table
	indices []int
}

// Len returns the number of rows in the view.
func (v View) Len() int { return len(v.indices) }

// Row returns the i-th row of the view.
func (v View) Row(i int) model.CustomerRecord { return v.table.rows[v.indices[i]] }

// Indices returns the table positions covered by the view.
func (v View) Indices() []int {
	out := make([]int, len(v.indices))
	copy(out, v.indices)
	return out
}

// Rows materializes the view.
func (v View) Rows() []model.CustomerRecord {
	out := make([]model.CustomerRecord, len(v.indices))
	for i, idx := range v.indices {
		out[i] = v.table.rows[idx]
	}
	return out
}

// Where returns the rows of v that satisfy keep.
func (v View) Where(keep func(model.CustomerRecord) bool) View {
	idx := make([]int, 0, len(v.indices))
	for _, i := range v.indices {
		if keep(v.table.rows[i]) {
			idx = append(idx, i)
		}
	}
	return View{table: v.table, indices: idx}
}
