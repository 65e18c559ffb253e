package driver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nao1215/exql/domain/model"
	"github.com/nao1215/exql/domain/query"
	"github.com/rs/zerolog"
)

// Executor runs statements against one database.
// Both Session and Tx implement it.
type Executor interface {
	// Exec runs a statement that returns no rows and reports the number of affected rows
	Exec(ctx context.Context, stmt query.Statement) (int64, error)
	// Query runs a statement that returns rows
	Query(ctx context.Context, stmt query.Statement) (*ResultSet, error)
}

// ResultSet is a fully read query result. Values are rendered as text;
// NULL becomes an empty string.
type ResultSet struct {
	// Columns holds the column names in result order
	Columns []string
	// Rows holds the result rows
	Rows model.Rows
}

// sqlRunner is the part of *sql.Conn and *sql.Tx a session needs
type sqlRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Session is a scoped connection bound to one database.
type Session struct {
	db       *sql.DB
	conn     *sql.Conn
	dialect  Dialect
	database string
	logger   zerolog.Logger
}

// Tx is a transaction opened on a Session.
type Tx struct {
	tx      *sql.Tx
	session *Session
}

// sessionOptions holds optional Open settings
type sessionOptions struct {
	create bool
	logger zerolog.Logger
}

// SessionOption configures Open
type SessionOption func(*sessionOptions)

// WithCreate tells the dialect that the session is about to create its database
func WithCreate() SessionOption {
	return func(o *sessionOptions) {
		o.create = true
	}
}

// WithLogger sets the logger statements are logged to
func WithLogger(logger zerolog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// Open opens a scoped connection for database using dialect.
// The caller must Close the session when the operation ends.
func Open(ctx context.Context, dialect Dialect, cfg Config, database string, opts ...SessionOption) (*Session, error) {
	options := sessionOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&options)
	}

	dsn, err := dialect.DSN(cfg, database, options.create)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect.Name(), err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close() // Ignore close error since we're already returning an error
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect.Name(), err)
	}

	options.logger.Debug().
		Str("dialect", dialect.Name()).
		Str("database", database).
		Str("connection", SanitizeForLog(cfg)).
		Msg("opened session")

	return &Session{
		db:       db,
		conn:     conn,
		dialect:  dialect,
		database: database,
		logger:   options.logger,
	}, nil
}

// Database returns the database the session is bound to
func (s *Session) Database() string {
	return s.database
}

// Dialect returns the session dialect
func (s *Session) Dialect() Dialect {
	return s.dialect
}

// Close releases the connection
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	connErr := s.conn.Close()
	dbErr := s.db.Close()
	s.conn = nil
	if connErr != nil {
		return connErr
	}
	return dbErr
}

// CreateDatabase creates the session database if the dialect needs a statement for it.
// No select-database directive is issued first.
func (s *Session) CreateDatabase(ctx context.Context) error {
	if s.conn == nil {
		return ErrSessionClosed
	}
	stmt, ok := s.dialect.CreateDatabase(s.database)
	if !ok {
		return nil
	}
	_, err := s.run(ctx, s.conn, stmt)
	return err
}

// Exec implements Executor. The select-database directive is issued first.
func (s *Session) Exec(ctx context.Context, stmt query.Statement) (int64, error) {
	if s.conn == nil {
		return 0, ErrSessionClosed
	}
	return s.exec(ctx, s.conn, stmt)
}

// Query implements Executor. The select-database directive is issued first.
func (s *Session) Query(ctx context.Context, stmt query.Statement) (*ResultSet, error) {
	if s.conn == nil {
		return nil, ErrSessionClosed
	}
	return s.query(ctx, s.conn, stmt)
}

// TableNames lists the tables of the session database
func (s *Session) TableNames(ctx context.Context) ([]string, error) {
	result, err := s.Query(ctx, s.dialect.TableNames(s.database))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) > 0 && row[0] != "" {
			names = append(names, row[0])
		}
	}
	return names, nil
}

// Begin starts a transaction on the session connection
func (s *Session) Begin(ctx context.Context) (*Tx, error) {
	if s.conn == nil {
		return nil, ErrSessionClosed
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, session: s}, nil
}

// Exec implements Executor
func (t *Tx) Exec(ctx context.Context, stmt query.Statement) (int64, error) {
	return t.session.exec(ctx, t.tx, stmt)
}

// Query implements Executor
func (t *Tx) Query(ctx context.Context, stmt query.Statement) (*ResultSet, error) {
	return t.session.query(ctx, t.tx, stmt)
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// selectDatabase issues the dialect's select-database directive, if any
func (s *Session) selectDatabase(ctx context.Context, runner sqlRunner) error {
	stmt, ok := s.dialect.SelectDatabase(s.database)
	if !ok {
		return nil
	}
	_, err := s.run(ctx, runner, stmt)
	return err
}

// exec selects the database and executes stmt
func (s *Session) exec(ctx context.Context, runner sqlRunner, stmt query.Statement) (int64, error) {
	if err := s.selectDatabase(ctx, runner); err != nil {
		return 0, err
	}
	result, err := s.run(ctx, runner, stmt)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil //nolint:nilerr // Some statements do not report affected rows
	}
	return affected, nil
}

// run executes stmt as is
func (s *Session) run(ctx context.Context, runner sqlRunner, stmt query.Statement) (sql.Result, error) {
	s.logger.Debug().Str("database", s.database).Int("args", len(stmt.Args)).Msg(stmt.Text)

	result, err := runner.ExecContext(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %q: %w", stmt.Text, err)
	}
	return result, nil
}

// query selects the database, runs stmt and reads every row
func (s *Session) query(ctx context.Context, runner sqlRunner, stmt query.Statement) (*ResultSet, error) {
	if err := s.selectDatabase(ctx, runner); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("database", s.database).Int("args", len(stmt.Args)).Msg(stmt.Text)

	rows, err := runner.QueryContext(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", stmt.Text, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &ResultSet{Columns: columns, Rows: model.Rows{}}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Rows = append(result.Rows, convertRowToRecord(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return result, nil
}

// convertRowToRecord renders a scanned row as text
func convertRowToRecord(values []any) model.Row {
	record := make(model.Row, len(values))
	for i, val := range values {
		switch v := val.(type) {
		case nil:
			record[i] = ""
		case []byte:
			record[i] = string(v)
		case time.Time:
			record[i] = v.Format(time.RFC3339)
		default:
			record[i] = fmt.Sprintf("%v", v)
		}
	}
	return record
}
