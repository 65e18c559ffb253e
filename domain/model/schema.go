package model

import "fmt"

// Header row layout of source files.
const (
	// SchemaRows is the number of rows describing columns: names, types, modifiers
	SchemaRows = 3
	// TableHeaderRows is the number of leading non-data rows in a table creation file:
	// the three schema rows plus a repeated column-name row
	TableHeaderRows = 4
	// DataHeaderRows is the number of leading non-data rows in an insert or delete file
	DataHeaderRows = 1
	// MinDataFileRows is the minimum number of rows of an insert or delete file
	MinDataFileRows = DataHeaderRows + 1
)

// ExtractSchema builds one ColumnDefinition per position of rows[0] (names),
// rows[1] (types) and rows[2] (modifiers).
//
// When strict is true the three rows must have the same length, otherwise
// ErrShape is returned. When strict is false the result is truncated to the
// shortest of the three rows.
func ExtractSchema(rows Rows, strict bool) ([]ColumnDefinition, error) {
	if len(rows) < SchemaRows {
		return nil, fmt.Errorf("%w: %d rows found, at least %d header rows (names, types, modifiers) are required",
			ErrStructure, len(rows), SchemaRows)
	}

	names, types, modifiers := rows[0], rows[1], rows[2]
	if strict && (len(names) != len(types) || len(names) != len(modifiers)) {
		return nil, fmt.Errorf("%w: header rows have %d names, %d types and %d modifiers",
			ErrShape, len(names), len(types), len(modifiers))
	}

	width := min(len(names), len(types), len(modifiers))
	columns := make([]ColumnDefinition, 0, width)
	for i := range width {
		columns = append(columns, ColumnDefinition{
			Name:      names[i],
			Type:      types[i],
			Modifiers: modifiers[i],
		})
	}
	return columns, nil
}

// ExtractRows returns rows[headerRowCount:]. The result is empty when
// headerRowCount is at least len(rows).
func ExtractRows(rows Rows, headerRowCount int) Rows {
	if headerRowCount < 0 {
		headerRowCount = 0
	}
	if headerRowCount >= len(rows) {
		return Rows{}
	}
	return rows[headerRowCount:]
}

// ColumnNames returns the first row, which always carries the column names.
func ColumnNames(rows Rows) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// RequireRows returns ErrStructure when rows has fewer than minRows rows.
func RequireRows(rows Rows, minRows int, source string) error {
	if len(rows) < minRows {
		return fmt.Errorf("%w: %s has %d rows, at least %d are required", ErrStructure, source, len(rows), minRows)
	}
	return nil
}
