package exql

import (
	"fmt"

	"github.com/nao1215/exql/domain/model"
	"github.com/nao1215/exql/domain/query"
	"github.com/nao1215/exql/driver"
)

// DefaultPort is the MySQL port used when Config.Port is zero
const DefaultPort = driver.DefaultMySQLPort

// Type aliases for options from the domain packages
type (
	// ExportOptions represents options for writing result sets to files
	ExportOptions = model.ExportOptions
	// OutputFormat represents the output file format
	OutputFormat = model.OutputFormat
	// CompressionType represents the compression type
	CompressionType = model.CompressionType
	// QueryMode selects how row values are rendered into statements
	QueryMode = query.Mode
)

// Re-export constants for easier use
const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV = model.OutputFormatCSV
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV = model.OutputFormatTSV
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX = model.OutputFormatXLSX

	// CompressionNone represents no compression
	CompressionNone = model.CompressionNone
	// CompressionGZ represents gzip compression
	CompressionGZ = model.CompressionGZ
	// CompressionXZ represents xz compression
	CompressionXZ = model.CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD = model.CompressionZSTD

	// QueryModeRaw copies cell values into statements verbatim
	QueryModeRaw = query.ModeRaw
	// QueryModeParameterized binds cell values as statement arguments
	QueryModeParameterized = query.ModeParameterized
)

// NewExportOptions creates new ExportOptions with default values (CSV format, no compression)
var NewExportOptions = model.NewExportOptions

// Config holds everything an Exql needs. It is copied by New and never changed afterwards.
type Config struct {
	// Host is the database server host
	Host string
	// Username is the database user
	Username string
	// Password is the database user's password
	Password string
	// Port is the database server port. Zero selects DefaultPort.
	Port int

	// StrictStructure rejects subdirectories and unsupported files in source
	// directories, and header rows of different lengths. When false, those
	// entries are ignored and header rows are truncated to the shortest.
	StrictStructure bool

	// Dialect is the database dialect name, "mysql" (default) or "sqlite"
	Dialect string
	// DataDir is the directory holding SQLite database files
	DataDir string

	// QueryMode selects raw (default) or parameterized statements
	QueryMode QueryMode
	// Transactional runs the table statements of CreateDBFromDirectory in one transaction.
	// Note that MySQL commits DDL implicitly, so only SQLite honors it for CREATE TABLE.
	Transactional bool

	// Export configures the files written by SelectIntoFile and WriteDBToDir
	Export ExportOptions
}

// validate checks the configuration against dialect and fills defaults
func (c Config) validate(dialect driver.Dialect) (Config, error) {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return c, fmt.Errorf("exql: invalid port %d", c.Port)
	}

	c.Dialect = dialect.Name()

	if c.Dialect == driver.DialectSQLite && c.DataDir == "" {
		return c, driver.ErrNoDataDir
	}

	switch c.QueryMode {
	case QueryModeRaw, QueryModeParameterized:
	default:
		return c, fmt.Errorf("exql: invalid query mode %d", c.QueryMode)
	}

	return c, nil
}

// driverConfig returns the connection parameters for the driver package
func (c Config) driverConfig() driver.Config {
	return driver.Config{
		Host:     c.Host,
		User:     c.Username,
		Password: c.Password,
		Port:     c.Port,
		DataDir:  c.DataDir,
	}
}
