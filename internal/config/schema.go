// Package config loads the exql command configuration from a YAML file and
// EXQL_* environment variables.
package config

// Config is the file and environment configuration of the exql command.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Import     ImportConfig     `yaml:"import"`
	Export     ExportConfig     `yaml:"export"`
	Log        LogConfig        `yaml:"log"`
}

// ConnectionConfig holds database connection parameters.
type ConnectionConfig struct {
	Dialect  string `yaml:"dialect" env:"EXQL_DIALECT"`
	Host     string `yaml:"host" env:"EXQL_HOST"`
	User     string `yaml:"user" env:"EXQL_USER"`
	Password string `yaml:"password" env:"EXQL_PASSWORD"`
	Port     int    `yaml:"port" env:"EXQL_PORT"`
	DataDir  string `yaml:"data_dir" env:"EXQL_DATA_DIR"`
}

// ImportConfig controls how source files are validated and loaded.
type ImportConfig struct {
	Strict        bool   `yaml:"strict" env:"EXQL_STRICT"`
	QueryMode     string `yaml:"query_mode" env:"EXQL_QUERY_MODE"`
	Transactional bool   `yaml:"transactional" env:"EXQL_TRANSACTIONAL"`
}

// ExportConfig controls the files written by select and export.
type ExportConfig struct {
	Format      string `yaml:"format" env:"EXQL_FORMAT"`
	Compression string `yaml:"compression" env:"EXQL_COMPRESSION"`
}

// LogConfig controls command logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"EXQL_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"EXQL_LOG_PRETTY"`
}
