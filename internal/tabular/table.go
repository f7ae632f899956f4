// Package tabular provides the table model and the grouped sort engine.
//
// A Table is an ordered sequence of rows sharing a fixed column set. The
// engine reorders rows by a two-level key: the position of the adjacency
// group the row belongs to, and the rank of the row's country (or other
// rank-key) inside an externally supplied priority list.
package tabular

// Record is one row of a table. Values are aligned with the owning
// table's Columns; everything except the group and rank columns is
// opaque payload carried through unchanged.
type Record []string

// Table is an ordered sequence of Records sharing a common column set.
// The column set is fixed for the table's lifetime; row order is mutable
// and is the sort engine's output.
type Table struct {
	// Source identifies where the table came from (sheet name),
	// used for output naming and log context.
	Source string

	Columns []string
	Rows    []Record
}

// ColumnIndex returns the position of the named column, or -1 if the
// table has no such column.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// value returns the record's value for the given column index, or the
// empty string for rows shorter than the header.
func (r Record) value(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}
