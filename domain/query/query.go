// Package query renders the SQL statements exql executes.
//
// Statements are produced from fixed templates. Identifiers (database, table
// and column names) are never quoted or escaped.
//
// # Trust boundary
//
// In ModeRaw, the default, cell values are copied into the statement text
// verbatim: a CSV cell holding 'alice' becomes the SQL string literal 'alice',
// and a cell holding 42 becomes the number 42. Callers must supply correctly
// quoted literals; malformed or adversarial values change the meaning of the
// generated statement. Files from untrusted sources should be loaded with
// ModeParameterized, which renders a placeholder for every value and returns
// the values as bound arguments. Note that in that mode the cell text is the
// value, so quotes written for raw mode end up inside the stored string.
package query

import (
	"fmt"
	"strings"

	"github.com/nao1215/exql/domain/model"
)

// SQL templates
const (
	createDatabaseTemplate = "CREATE DATABASE IF NOT EXISTS %s;"
	useDatabaseTemplate    = "USE %s;"
	createTableTemplate    = "CREATE TABLE %s (%s);"
	insertTemplate         = "INSERT INTO %s(%s) VALUES %s;"
	deleteTemplate         = "DELETE FROM %s WHERE %s"
	selectAllTemplate      = "SELECT * FROM %s"
)

// placeholder is the bind marker used in ModeParameterized. Both MySQL and SQLite accept it.
const placeholder = "?"

// Mode selects how row values are rendered.
type Mode int

const (
	// ModeRaw copies values into the statement text verbatim
	ModeRaw Mode = iota
	// ModeParameterized renders placeholders and returns values as arguments
	ModeParameterized
)

// String returns the name of the mode
func (m Mode) String() string {
	switch m {
	case ModeParameterized:
		return "parameterized"
	default:
		return "raw"
	}
}

// ParseMode parses a mode name. An empty name selects ModeRaw.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw":
		return ModeRaw, nil
	case "parameterized", "params":
		return ModeParameterized, nil
	default:
		return ModeRaw, fmt.Errorf("unknown query mode %q", name)
	}
}

// Statement is a rendered SQL statement. Args is empty for statements built in ModeRaw.
type Statement struct {
	// Text is the statement text
	Text string
	// Args holds the bound values for placeholders in Text
	Args []any
}

// String returns the statement text
func (s Statement) String() string {
	return s.Text
}

// Builder renders statements in a fixed Mode.
type Builder struct {
	mode Mode
}

// NewBuilder creates a Builder for the given mode.
func NewBuilder(mode Mode) Builder {
	return Builder{mode: mode}
}

// Mode returns the builder mode
func (b Builder) Mode() Mode {
	return b.mode
}

// CreateDatabase renders CREATE DATABASE IF NOT EXISTS <name>;
func CreateDatabase(name string) Statement {
	return Statement{Text: fmt.Sprintf(createDatabaseTemplate, name)}
}

// UseDatabase renders USE <name>;
func UseDatabase(name string) Statement {
	return Statement{Text: fmt.Sprintf(useDatabaseTemplate, name)}
}

// CreateTable renders CREATE TABLE <name> (<col> <type> [<modifiers>], ...);
// The modifier clause of a column is omitted when its modifiers are empty.
func CreateTable(name string, columns []model.ColumnDefinition) (Statement, error) {
	if len(columns) == 0 {
		return Statement{}, fmt.Errorf("%w: table %s has no columns", model.ErrShape, name)
	}

	segments := make([]string, 0, len(columns))
	for _, column := range columns {
		segment := column.Name + " " + column.Type
		if column.Modifiers != "" {
			segment += " " + column.Modifiers
		}
		segments = append(segments, segment)
	}

	return Statement{Text: fmt.Sprintf(createTableTemplate, name, strings.Join(segments, ", "))}, nil
}

// Select passes a caller-supplied statement through unchanged.
// It does not check that the statement is a SELECT.
func Select(text string) Statement {
	return Statement{Text: text}
}

// SelectAll renders SELECT * FROM <table>
func SelectAll(table string) Statement {
	return Statement{Text: fmt.Sprintf(selectAllTemplate, table)}
}

// Insert renders INSERT INTO <table>(<c1>,<c2>) VALUES (<v1>,<v2>),(...); in ModeRaw.
func Insert(table string, columns []string, rows model.Rows) (Statement, error) {
	return NewBuilder(ModeRaw).Insert(table, columns, rows)
}

// Delete renders DELETE FROM <table> WHERE (<c1>=<v1> AND <c2>=<v2>) OR (...) in ModeRaw.
func Delete(table string, columns []string, rows model.Rows) (Statement, error) {
	return NewBuilder(ModeRaw).Delete(table, columns, rows)
}

// Insert renders an INSERT statement with one value tuple per row.
// Every row must have exactly len(columns) values.
func (b Builder) Insert(table string, columns []string, rows model.Rows) (Statement, error) {
	if err := checkShape(columns, rows); err != nil {
		return Statement{}, err
	}

	var args []any
	tuples := make([]string, 0, len(rows))
	for _, row := range rows {
		values := make([]string, len(row))
		for i, value := range row {
			values[i], args = b.value(value, args)
		}
		tuples = append(tuples, "("+strings.Join(values, ",")+")")
	}

	return Statement{
		Text: fmt.Sprintf(insertTemplate, table, strings.Join(columns, ","), strings.Join(tuples, ",")),
		Args: args,
	}, nil
}

// Delete renders a DELETE statement matching any of rows.
// Each row becomes one OR clause with one AND term per column.
func (b Builder) Delete(table string, columns []string, rows model.Rows) (Statement, error) {
	if err := checkShape(columns, rows); err != nil {
		return Statement{}, err
	}

	var args []any
	clauses := make([]string, 0, len(rows))
	for _, row := range rows {
		terms := make([]string, len(columns))
		for i, column := range columns {
			var value string
			value, args = b.value(row[i], args)
			terms[i] = column + "=" + value
		}
		clauses = append(clauses, "("+strings.Join(terms, " AND ")+")")
	}

	return Statement{
		Text: fmt.Sprintf(deleteTemplate, table, strings.Join(clauses, " OR ")),
		Args: args,
	}, nil
}

// value renders a single value for the builder mode
func (b Builder) value(v string, args []any) (string, []any) {
	if b.mode == ModeParameterized {
		return placeholder, append(args, v)
	}
	return v, args
}

// checkShape verifies that there is at least one row and that every row matches the columns
func checkShape(columns []string, rows model.Rows) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns given", model.ErrShape)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: no rows given", model.ErrShape)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns", model.ErrShape, i+1, len(row), len(columns))
		}
	}
	return nil
}
