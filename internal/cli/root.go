// Package cli implements the exql command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/exql"
	"github.com/nao1215/exql/internal/config"
	"github.com/nao1215/exql/internal/logging"
	"github.com/nao1215/exql/internal/version"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath    string
	host          string
	user          string
	password      string
	port          int
	dialect       string
	dataDir       string
	strict        bool
	parameterized bool
	transactional bool
	format        string
	compression   string
	logLevel      string
}

// NewRootCmd creates the exql root command with all subcommands.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "exql",
		Short: "exql - move CSV, TSV, XLSX and Parquet files in and out of SQL databases",
		Long: `exql turns a directory of tabular files into a database and back.

Each file in a directory becomes a table named after the file. The first three
rows of a file hold the column names, types and modifiers, the fourth repeats
the column names, and the remaining rows are inserted.

Examples:
  # Create the database "university" from ./university/*.csv
  exql create-db ./university --host localhost --user root

  # Insert rows into an existing table
  exql insert university ./new_students.csv --table student

  # Export a query result
  exql select university "SELECT * FROM student LIMIT 3" ./out students.csv

  # Export every table of a database
  exql export ./backup university

  # Use a local SQLite database instead of a MySQL server
  exql create-db ./university --dialect sqlite --data-dir ./data`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML configuration file")
	flags.StringVar(&opts.host, "host", "", "database server host")
	flags.StringVarP(&opts.user, "user", "u", "", "database user")
	flags.StringVarP(&opts.password, "password", "p", "", "database password")
	flags.IntVar(&opts.port, "port", 0, "database server port")
	flags.StringVar(&opts.dialect, "dialect", "", "database dialect (mysql, sqlite)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding SQLite database files")
	flags.BoolVar(&opts.strict, "strict", false, "reject subdirectories, unsupported files and uneven header rows")
	flags.BoolVar(&opts.parameterized, "parameterized", false, "bind cell values as statement arguments")
	flags.BoolVar(&opts.transactional, "transactional", false, "create all tables of a directory in one transaction")
	flags.StringVar(&opts.format, "format", "", "output format (csv, tsv, xlsx)")
	flags.StringVar(&opts.compression, "compression", "", "output compression (gz, xz, zstd)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")

	rootCmd.AddCommand(newCreateDBCmd(opts))
	rootCmd.AddCommand(newCreateTableCmd(opts))
	rootCmd.AddCommand(newInsertCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	rootCmd.AddCommand(newSelectCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newTablesCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("exql version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// loadConfig merges the configuration file, the environment and the flags set on cmd.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Connection.Host = o.host
	}
	if flags.Changed("user") {
		cfg.Connection.User = o.user
	}
	if flags.Changed("password") {
		cfg.Connection.Password = o.password
	}
	if flags.Changed("port") {
		cfg.Connection.Port = o.port
	}
	if flags.Changed("dialect") {
		cfg.Connection.Dialect = o.dialect
	}
	if flags.Changed("data-dir") {
		cfg.Connection.DataDir = o.dataDir
	}
	if flags.Changed("strict") {
		cfg.Import.Strict = o.strict
	}
	if flags.Changed("parameterized") {
		cfg.Import.QueryMode = exql.QueryModeRaw.String()
		if o.parameterized {
			cfg.Import.QueryMode = exql.QueryModeParameterized.String()
		}
	}
	if flags.Changed("transactional") {
		cfg.Import.Transactional = o.transactional
	}
	if flags.Changed("format") {
		cfg.Export.Format = o.format
	}
	if flags.Changed("compression") {
		cfg.Export.Compression = o.compression
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newExql builds the logger and the Exql instance for a subcommand.
func (o *globalOptions) newExql(cmd *cobra.Command) (*exql.Exql, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewWithComponent(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	}, "cli")

	exqlCfg, err := cfg.ToExqlConfig()
	if err != nil {
		return nil, err
	}

	e, err := exql.New(exqlCfg, exql.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to configure exql: %w", err)
	}
	return e, nil
}
