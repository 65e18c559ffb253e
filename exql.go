package exql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/exql/domain/model"
	"github.com/nao1215/exql/domain/query"
	"github.com/nao1215/exql/driver"
	"github.com/rs/zerolog"
)

// Exql moves tabular files in and out of a database server.
// It holds an immutable Config; every operation opens its own connection
// and closes it before returning.
type Exql struct {
	cfg     Config
	dialect driver.Dialect
	builder query.Builder
	logger  zerolog.Logger
}

// Option configures an Exql
type Option func(*Exql)

// WithLogger sets the logger. Statements are logged at debug level and
// operation summaries at info level. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exql) {
		e.logger = logger
	}
}

// WithDialect overrides the dialect selected by Config.Dialect
func WithDialect(dialect driver.Dialect) Option {
	return func(e *Exql) {
		e.dialect = dialect
	}
}

// New creates an Exql for cfg.
//
// Example:
//
//	e, err := exql.New(exql.Config{
//		Host:     "localhost",
//		Username: "root",
//		Password: "secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = e.CreateDBFromDirectory(ctx, "./university")
func New(cfg Config, opts ...Option) (*Exql, error) {
	e := &Exql{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}

	if e.dialect == nil {
		dialect, err := driver.LookupDialect(cfg.Dialect)
		if err != nil {
			return nil, err
		}
		e.dialect = dialect
	}

	validated, err := cfg.validate(e.dialect)
	if err != nil {
		return nil, err
	}
	e.cfg = validated
	e.builder = query.NewBuilder(validated.QueryMode)
	return e, nil
}

// Config returns a copy of the configuration with defaults filled in
func (e *Exql) Config() Config {
	return e.cfg
}

// CreateDBFromDirectory creates a database named after dir and one table per
// supported file in it. Each file starts with three schema rows (names, types,
// modifiers) and a repeated column-name row; remaining rows are inserted.
//
// Tables are created in name order. Every statement is rendered before the
// first one runs, so malformed files fail the operation before anything is
// created. Unless Config.Transactional is set, a database error partway
// through leaves the tables created so far in place.
func (e *Exql) CreateDBFromDirectory(ctx context.Context, dir string) error {
	errCtx := NewErrorContext("create database from directory", dir)

	fileMap, err := model.ScanDirectory(dir, e.cfg.StrictStructure)
	if err != nil {
		return errCtx.Error(err)
	}

	database := model.DatabaseFromDirPath(dir)
	errCtx.WithDatabase(database)

	var statements []query.Statement
	for _, table := range fileMap.TableNames() {
		tableStatements, err := e.tableStatements(table, fileMap[table])
		if err != nil {
			return errCtx.WithTable(table).Error(err)
		}
		statements = append(statements, tableStatements...)
	}

	session, err := e.open(ctx, "create database from directory", database, driver.WithCreate())
	if err != nil {
		return errCtx.Error(err)
	}
	defer session.Close()

	if err := session.CreateDatabase(ctx); err != nil {
		return errCtx.Error(err)
	}

	if err := e.execAll(ctx, session, statements); err != nil {
		return errCtx.Error(err)
	}

	e.logger.Info().
		Str("database", database).
		Int("tables", len(fileMap)).
		Msg("created database")
	return nil
}

// CreateTableFromFile creates a table named after the file stem of path in
// database and inserts the rows following the four header rows.
func (e *Exql) CreateTableFromFile(ctx context.Context, database, path string) error {
	table := model.TableFromFilePath(path)
	errCtx := NewErrorContext("create table from file", path).WithDatabase(database).WithTable(table)

	rows, err := model.ReadRows(path)
	if err != nil {
		return errCtx.Error(err)
	}
	if err := model.RequireRows(rows, model.SchemaRows, path); err != nil {
		return errCtx.Error(err)
	}

	statements, err := e.tableStatements(table, rows)
	if err != nil {
		return errCtx.Error(err)
	}

	session, err := e.open(ctx, "create table from file", database)
	if err != nil {
		return errCtx.Error(err)
	}
	defer session.Close()

	if err := e.execAll(ctx, session, statements); err != nil {
		return errCtx.Error(err)
	}

	e.logger.Info().
		Str("database", database).
		Str("table", table).
		Msg("created table")
	return nil
}

// InsertInTable inserts the rows of path into table. The first row of the file
// holds the column names. An empty table selects the file stem.
// It returns the number of affected rows.
func (e *Exql) InsertInTable(ctx context.Context, database, path, table string) (int64, error) {
	table, columns, rows, err := e.readDataFile(path, table)
	errCtx := NewErrorContext("insert in table", path).WithDatabase(database).WithTable(table)
	if err != nil {
		return 0, errCtx.Error(err)
	}

	stmt, err := e.builder.Insert(table, columns, rows)
	if err != nil {
		return 0, errCtx.WithDetails(shapeDetails(columns, rows)).Error(err)
	}

	affected, err := e.execOne(ctx, "insert in table", database, stmt)
	if err != nil {
		return 0, errCtx.Error(err)
	}

	e.logger.Info().
		Str("database", database).
		Str("table", table).
		Int64("rows", affected).
		Msg("inserted rows")
	return affected, nil
}

// DeleteFromDB deletes every row of table matching one of the rows of path.
// The first row of the file holds the column names; each following row becomes
// one OR clause of column equalities. An empty table selects the file stem.
// It returns the number of affected rows.
func (e *Exql) DeleteFromDB(ctx context.Context, database, path, table string) (int64, error) {
	table, columns, rows, err := e.readDataFile(path, table)
	errCtx := NewErrorContext("delete from database", path).WithDatabase(database).WithTable(table)
	if err != nil {
		return 0, errCtx.Error(err)
	}

	stmt, err := e.builder.Delete(table, columns, rows)
	if err != nil {
		return 0, errCtx.WithDetails(shapeDetails(columns, rows)).Error(err)
	}

	affected, err := e.execOne(ctx, "delete from database", database, stmt)
	if err != nil {
		return 0, errCtx.Error(err)
	}

	e.logger.Info().
		Str("database", database).
		Str("table", table).
		Int64("rows", affected).
		Msg("deleted rows")
	return affected, nil
}

// SelectIntoFile runs statement against database and writes the result to the
// new file dir/fileName in the format of Config.Export. The statement is passed
// to the server unchanged.
func (e *Exql) SelectIntoFile(ctx context.Context, database, statement, dir, fileName string) error {
	errCtx := NewErrorContext("select into file", filepath.Join(dir, fileName)).WithDatabase(database)

	session, err := e.open(ctx, "select into file", database)
	if err != nil {
		return errCtx.Error(err)
	}
	defer session.Close()

	if err := e.selectInto(ctx, session, query.Select(statement), dir, fileName); err != nil {
		return errCtx.Error(err)
	}
	return nil
}

// WriteDBToDir exports database into the new directory dest/<database>, one
// file <table><ext> per table. When no tables are given every table of the
// database is written.
//
// dest must exist (ErrNotFound) and dest/<database> must not (ErrConflict).
func (e *Exql) WriteDBToDir(ctx context.Context, dest, database string, tables ...string) error {
	if err := driver.ValidateDatabaseName(database); err != nil {
		return NewErrorContext("write database to directory", dest).WithDatabase(database).Error(err)
	}

	target := filepath.Join(dest, database)
	errCtx := NewErrorContext("write database to directory", target).WithDatabase(database)

	if err := createExportDir(dest, target); err != nil {
		return errCtx.Error(err)
	}

	session, err := e.open(ctx, "write database to directory", database)
	if err != nil {
		if removeErr := os.Remove(target); removeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to remove directory %s: %w", target, removeErr))
		}
		return errCtx.Error(err)
	}
	defer session.Close()

	if len(tables) == 0 {
		tables, err = session.TableNames(ctx)
		if err != nil {
			return errCtx.Error(err)
		}
	}

	ext := e.cfg.Export.FileExtension()
	for _, table := range tables {
		if err := e.selectInto(ctx, session, query.SelectAll(table), target, table+ext); err != nil {
			return errCtx.WithTable(table).Error(err)
		}
	}

	e.logger.Info().
		Str("database", database).
		Str("dir", target).
		Int("tables", len(tables)).
		Msg("wrote database to directory")
	return nil
}

// TableNames lists the tables of database in name order
func (e *Exql) TableNames(ctx context.Context, database string) ([]string, error) {
	errCtx := NewErrorContext("list tables", "").WithDatabase(database)

	session, err := e.open(ctx, "list tables", database)
	if err != nil {
		return nil, errCtx.Error(err)
	}
	defer session.Close()

	names, err := session.TableNames(ctx)
	if err != nil {
		return nil, errCtx.Error(err)
	}
	return names, nil
}

// open opens a scoped session whose statements are logged under operation
func (e *Exql) open(ctx context.Context, operation, database string, opts ...driver.SessionOption) (*driver.Session, error) {
	logger := e.logger.With().Str("operation", operation).Logger()
	opts = append(opts, driver.WithLogger(logger))
	return driver.Open(ctx, e.dialect, e.cfg.driverConfig(), database, opts...)
}

// tableStatements renders CREATE TABLE for rows and, when data rows follow the
// header rows, the INSERT filling it
func (e *Exql) tableStatements(table string, rows model.Rows) ([]query.Statement, error) {
	columns, err := model.ExtractSchema(rows, e.cfg.StrictStructure)
	if err != nil {
		return nil, err
	}

	create, err := query.CreateTable(table, columns)
	if err != nil {
		return nil, err
	}
	statements := []query.Statement{create}

	data := model.ExtractRows(rows, model.TableHeaderRows)
	if len(data) == 0 {
		return statements, nil
	}

	insert, err := e.builder.Insert(table, model.ColumnNames(rows), data)
	if err != nil {
		return nil, err
	}
	return append(statements, insert), nil
}

// readDataFile reads an insert or delete file: a column-name row and at least one data row
func (e *Exql) readDataFile(path, table string) (string, []string, model.Rows, error) {
	if table == "" {
		table = model.TableFromFilePath(path)
	}

	rows, err := model.ReadRows(path)
	if err != nil {
		return table, nil, nil, err
	}
	if err := model.RequireRows(rows, model.MinDataFileRows, path); err != nil {
		return table, nil, nil, err
	}
	return table, model.ColumnNames(rows), model.ExtractRows(rows, model.DataHeaderRows), nil
}

// shapeDetails describes the data of an insert or delete file for error messages
func shapeDetails(columns []string, rows model.Rows) string {
	return fmt.Sprintf("%d columns, %d rows", len(columns), len(rows))
}

// execOne runs a single write statement on its own session
func (e *Exql) execOne(ctx context.Context, operation, database string, stmt query.Statement) (int64, error) {
	session, err := e.open(ctx, operation, database)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	return session.Exec(ctx, stmt)
}

// execAll runs statements in order, inside one transaction when Config.Transactional is set
func (e *Exql) execAll(ctx context.Context, session *driver.Session, statements []query.Statement) (err error) {
	if !e.cfg.Transactional {
		return execStatements(ctx, session, statements)
	}

	tx, err := session.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rollbackErr))
			}
		}
	}()

	if err := execStatements(ctx, tx, statements); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// execStatements runs statements in order and stops at the first failure
func execStatements(ctx context.Context, executor driver.Executor, statements []query.Statement) error {
	for _, stmt := range statements {
		if _, err := executor.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// selectInto runs stmt and writes its result to dir/fileName
func (e *Exql) selectInto(ctx context.Context, executor driver.Executor, stmt query.Statement, dir, fileName string) error {
	result, err := executor.Query(ctx, stmt)
	if err != nil {
		return err
	}

	if err := model.WriteFile(result.Columns, dir, fileName, result.Rows, e.cfg.Export); err != nil {
		return err
	}

	e.logger.Info().
		Str("file", filepath.Join(dir, fileName)).
		Int("rows", len(result.Rows)).
		Msg("wrote result set")
	return nil
}

// createExportDir creates target inside the existing directory dest
func createExportDir(dest, target string) error {
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: destination directory %s", ErrNotFound, dest)
	}

	if err := os.Mkdir(target, 0o750); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s already exists", ErrConflict, target)
		}
		return fmt.Errorf("failed to create directory %s: %w", target, err)
	}
	return nil
}
