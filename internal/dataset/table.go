// Package dataset provides the tabular data model the pipeline stages
// exchange as CSV files, plus the relational operations needed to merge
// the raw Olist tables into one denormalized dataset.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Table is an in-memory tabular dataset with named columns and string
// cells. An empty cell represents a missing value.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// NewTable creates an empty table with the given column names.
func NewTable(cols []string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range t.cols {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Value returns the cell at the given row for the named column. It
// returns the empty string when the column does not exist.
func (t *Table) Value(row int, col string) string {
	i, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[row][i]
}

// Row returns the raw cells of the given row. The slice must not be
// mutated by the caller.
func (t *Table) Row(row int) []string {
	return t.rows[row]
}

// AppendRow adds a row to the table.
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.cols))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Column returns all values of the named column.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Select returns a new table containing only the named columns, in the
// given order.
func (t *Table) Select(cols []string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		idx[i] = j
	}
	out := NewTable(cols)
	for _, row := range t.rows {
		cells := make([]string, len(idx))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// ReadCSV loads a table from a CSV file with a header row.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer file.Close()
	return ReadCSVFrom(file)
}

// ReadCSVFrom loads a table from a CSV stream with a header row.
func ReadCSVFrom(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv input is empty, expected a header row")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	t := NewTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

// WriteCSV writes the table to a CSV file, header first.
func (t *Table) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.cols); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv file %s: %w", path, err)
	}
	return nil
}
