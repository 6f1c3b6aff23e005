package dataset

import "fmt"

// LeftJoin joins t with right on the named key column, keeping every
// row of t. Rows of t without a match get empty cells for the joined
// columns. Non-key columns of right whose names collide with columns of
// t are renamed with the given suffix.
//
// The right table must have at most one row per key value; duplicated
// keys would multiply rows on the left side and silently break the
// one-row-per-order-item cardinality of the merged dataset, so they are
// reported as an error instead. One-to-many relations (reviews,
// payments) must be reduced to one row per key before joining.
func (t *Table) LeftJoin(right *Table, key, suffix string) (*Table, error) {
	leftKey, ok := t.index[key]
	if !ok {
		return nil, fmt.Errorf("left table has no key column %q", key)
	}
	rightKey, ok := right.index[key]
	if !ok {
		return nil, fmt.Errorf("right table has no key column %q", key)
	}

	// Index the right table by key, rejecting duplicates.
	byKey := make(map[string]int, len(right.rows))
	for i, row := range right.rows {
		k := row[rightKey]
		if _, dup := byKey[k]; dup {
			return nil, fmt.Errorf("right table has duplicate key %q=%q; reduce it to one row per key before joining", key, k)
		}
		byKey[k] = i
	}

	// Result columns: all of t, then right's non-key columns with
	// collisions suffixed.
	joinedCols := make([]string, 0, len(right.cols)-1)
	joinedIdx := make([]int, 0, len(right.cols)-1)
	for i, c := range right.cols {
		if i == rightKey {
			continue
		}
		name := c
		if t.HasColumn(name) {
			name = name + suffix
		}
		joinedCols = append(joinedCols, name)
		joinedIdx = append(joinedIdx, i)
	}

	out := NewTable(append(t.Columns(), joinedCols...))
	for _, row := range t.rows {
		cells := make([]string, 0, len(out.cols))
		cells = append(cells, row...)
		if ri, found := byKey[row[leftKey]]; found {
			for _, j := range joinedIdx {
				cells = append(cells, right.rows[ri][j])
			}
		} else {
			for range joinedIdx {
				cells = append(cells, "")
			}
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}
