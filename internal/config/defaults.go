package config

import "github.com/nao1215/exql/driver"

// Default values.
const (
	DefaultHost      = "localhost"
	DefaultPort      = driver.DefaultMySQLPort
	DefaultDialect   = driver.DialectMySQL
	DefaultFormat    = "csv"
	DefaultQueryMode = "raw"
	DefaultLogLevel  = "info"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Dialect: DefaultDialect,
			Host:    DefaultHost,
			Port:    DefaultPort,
		},
		Import: ImportConfig{
			QueryMode: DefaultQueryMode,
		},
		Export: ExportConfig{
			Format: DefaultFormat,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Pretty: true,
		},
	}
}

// applyDefaults fills fields left empty by the file or environment.
func applyDefaults(cfg *Config) {
	if cfg.Connection.Dialect == "" {
		cfg.Connection.Dialect = DefaultDialect
	}
	if cfg.Connection.Port == 0 {
		cfg.Connection.Port = DefaultPort
	}
	if cfg.Import.QueryMode == "" {
		cfg.Import.QueryMode = DefaultQueryMode
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = DefaultFormat
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
