package driver

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/nao1215/exql/domain/model"
	"github.com/nao1215/exql/domain/query"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Dialect names
const (
	// DialectMySQL is the name of the MySQL dialect
	DialectMySQL = "mysql"
	// DialectSQLite is the name of the SQLite dialect
	DialectSQLite = "sqlite"
)

const (
	// DefaultMySQLPort is the port used when Config.Port is zero
	DefaultMySQLPort = 3306
	// sqliteFileExt is the extension of SQLite database files under Config.DataDir
	sqliteFileExt = ".db"
)

// Config holds connection parameters.
type Config struct {
	// Host is the database server host
	Host string
	// User is the database user
	User string
	// Password is the database user's password
	Password string
	// Port is the database server port
	Port int
	// DataDir is the directory holding one file per database (SQLite only)
	DataDir string
}

// Dialect describes how to connect to a database server and which
// statements it needs around exql's statements.
type Dialect interface {
	// Name returns the dialect name
	Name() string
	// DriverName returns the database/sql driver name
	DriverName() string
	// DSN returns the data source name for a session on database.
	// create is true when the session is about to create the database.
	DSN(cfg Config, database string, create bool) (string, error)
	// SelectDatabase returns the directive issued before every statement, if the dialect needs one
	SelectDatabase(database string) (query.Statement, bool)
	// CreateDatabase returns the statement creating database, if the dialect needs one
	CreateDatabase(database string) (query.Statement, bool)
	// TableNames returns a query listing the tables of database, one name per row
	TableNames(database string) query.Statement
}

// LookupDialect returns the dialect registered under name.
// An empty name selects MySQL.
func LookupDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DialectMySQL:
		return MySQL{}, nil
	case DialectSQLite, "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// MySQL is the dialect of MySQL and MariaDB servers.
// Sessions connect to the server without a default database and select it
// with USE before every statement.
type MySQL struct{}

// Name implements Dialect
func (MySQL) Name() string {
	return DialectMySQL
}

// DriverName implements Dialect
func (MySQL) DriverName() string {
	return "mysql"
}

// DSN implements Dialect
func (MySQL) DSN(cfg Config, _ string, _ bool) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = DefaultMySQLPort
	}

	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.User
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	return mysqlCfg.FormatDSN(), nil
}

// SelectDatabase implements Dialect
func (MySQL) SelectDatabase(database string) (query.Statement, bool) {
	if database == "" {
		return query.Statement{}, false
	}
	return query.UseDatabase(database), true
}

// CreateDatabase implements Dialect
func (MySQL) CreateDatabase(database string) (query.Statement, bool) {
	return query.CreateDatabase(database), true
}

// TableNames implements Dialect
func (MySQL) TableNames(database string) query.Statement {
	return query.Statement{
		Text: "SELECT table_name FROM information_schema.tables WHERE table_schema = ? ORDER BY table_name",
		Args: []any{database},
	}
}

// SQLite stores every database in its own file, Config.DataDir/<database>.db.
// Creating a database creates the file; there is no select-database directive
// because a session is bound to its file.
type SQLite struct{}

// Name implements Dialect
func (SQLite) Name() string {
	return DialectSQLite
}

// DriverName implements Dialect
func (SQLite) DriverName() string {
	return "sqlite"
}

// DSN implements Dialect
func (s SQLite) DSN(cfg Config, database string, create bool) (string, error) {
	path, err := s.DatabasePath(cfg, database)
	if err != nil {
		return "", err
	}

	if create {
		if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create data directory: %w", err)
		}
		return path, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: database %s", model.ErrNotFound, database)
		}
		return "", fmt.Errorf("failed to stat database file: %w", err)
	}
	return path, nil
}

// DatabasePath returns the file backing database
func (SQLite) DatabasePath(cfg Config, database string) (string, error) {
	if cfg.DataDir == "" {
		return "", ErrNoDataDir
	}
	if err := ValidateDatabaseName(database); err != nil {
		return "", err
	}
	return filepath.Join(cfg.DataDir, database+sqliteFileExt), nil
}

// SelectDatabase implements Dialect
func (SQLite) SelectDatabase(_ string) (query.Statement, bool) {
	return query.Statement{}, false
}

// CreateDatabase implements Dialect
func (SQLite) CreateDatabase(_ string) (query.Statement, bool) {
	return query.Statement{}, false
}

// TableNames implements Dialect
func (SQLite) TableNames(_ string) query.Statement {
	return query.Statement{
		Text: "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	}
}
