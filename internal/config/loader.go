package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/exql"
	"github.com/nao1215/exql/domain/model"
	"github.com/nao1215/exql/domain/query"
)

// Load reads the configuration like Read and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the configuration file at path, applies EXQL_* environment
// overrides and fills defaults. An empty path skips the file.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		//nolint:gosec // G304: Config path is supplied by the user on purpose.
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: config file %s", model.ErrNotFound, path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// ToExqlConfig converts the configuration into an exql.Config.
func (c *Config) ToExqlConfig() (exql.Config, error) {
	mode, err := query.ParseMode(c.Import.QueryMode)
	if err != nil {
		return exql.Config{}, err
	}

	format, err := model.ParseOutputFormat(c.Export.Format)
	if err != nil {
		return exql.Config{}, err
	}

	compression, err := model.ParseCompressionType(c.Export.Compression)
	if err != nil {
		return exql.Config{}, err
	}

	return exql.Config{
		Host:            c.Connection.Host,
		Username:        c.Connection.User,
		Password:        c.Connection.Password,
		Port:            c.Connection.Port,
		StrictStructure: c.Import.Strict,
		Dialect:         c.Connection.Dialect,
		DataDir:         c.Connection.DataDir,
		QueryMode:       mode,
		Transactional:   c.Import.Transactional,
		Export:          exql.NewExportOptions().WithFormat(format).WithCompression(compression),
	}, nil
}
