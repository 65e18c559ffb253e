package model

import "sort"

// Row is one line of a tabular file: an ordered sequence of raw cell values.
type Row []string

// NewRow create new Row.
func NewRow(r []string) Row {
	return Row(r)
}

// Equal compare Row.
func (r Row) Equal(r2 Row) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// Rows is the full content of a tabular file, header rows and data rows undifferentiated.
type Rows []Row

// NewRows converts a [][]string into Rows.
func NewRows(records [][]string) Rows {
	rows := make(Rows, len(records))
	for i, record := range records {
		rows[i] = NewRow(record)
	}
	return rows
}

// Equal compare Rows.
func (rs Rows) Equal(rs2 Rows) bool {
	if len(rs) != len(rs2) {
		return false
	}
	for i, r := range rs {
		if !r.Equal(rs2[i]) {
			return false
		}
	}
	return true
}

// ColumnDefinition describes a column to create.
// Type and Modifiers are raw database tokens, e.g. "VARCHAR(20)" and "NOT NULL UNIQUE".
type ColumnDefinition struct {
	// Name is the column name
	Name string
	// Type is the raw column type
	Type string
	// Modifiers is the raw modifier clause, possibly empty
	Modifiers string
}

// FileMap maps a table name (file stem) to the rows of the file it came from.
type FileMap map[string]Rows

// TableNames returns the table names in ascending order.
func (fm FileMap) TableNames() []string {
	names := make([]string, 0, len(fm))
	for name := range fm {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
