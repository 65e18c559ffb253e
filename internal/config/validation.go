package config

import (
	"errors"
	"fmt"

	"github.com/nao1215/exql/domain/model"
	"github.com/nao1215/exql/domain/query"
	"github.com/nao1215/exql/driver"
	"github.com/nao1215/exql/internal/logging"
)

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	dialect, err := driver.LookupDialect(c.Connection.Dialect)
	if err != nil {
		errs = append(errs, err)
	} else if dialect.Name() == driver.DialectSQLite && c.Connection.DataDir == "" {
		errs = append(errs, fmt.Errorf("connection.data_dir: %w", driver.ErrNoDataDir))
	}

	if c.Connection.Port < 1 || c.Connection.Port > 65535 {
		errs = append(errs, fmt.Errorf("connection.port: %d is out of range", c.Connection.Port))
	}

	if _, err := query.ParseMode(c.Import.QueryMode); err != nil {
		errs = append(errs, fmt.Errorf("import.query_mode: %w", err))
	}

	if _, err := model.ParseOutputFormat(c.Export.Format); err != nil {
		errs = append(errs, fmt.Errorf("export.format: %w", err))
	}

	compression, err := model.ParseCompressionType(c.Export.Compression)
	if err != nil {
		errs = append(errs, fmt.Errorf("export.compression: %w", err))
	} else if compression == model.CompressionBZ2 {
		errs = append(errs, fmt.Errorf("export.compression: %w: bzip2 output is not supported", model.ErrFormat))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
