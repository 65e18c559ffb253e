package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateDBCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-db DIR",
		Short: "Create a database from a directory of files",
		Long: `Create a database named after DIR with one table per supported file.

Subdirectories and unsupported files are skipped unless --strict is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			if err := e.CreateDBFromDirectory(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Created database from %s\n", args[0])
			return nil
		},
	}
}

func newCreateTableCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-table DATABASE FILE",
		Short: "Create a table from a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			if err := e.CreateTableFromFile(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Created table from %s in %s\n", args[1], args[0])
			return nil
		},
	}
}

func newInsertCmd(opts *globalOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "insert DATABASE FILE",
		Short: "Insert the rows of a file into a table",
		Long: `Insert the rows of FILE into a table. The first row of FILE holds the
column names. The table defaults to the file name without extensions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			n, err := e.InsertInTable(cmd.Context(), args[0], args[1], table)
			if err != nil {
				return err
			}
			cmd.Printf("Inserted %d rows\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "target table (defaults to the file name)")
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "delete DATABASE FILE",
		Short: "Delete the rows matching a file from a table",
		Long: `Delete every row of a table that matches one of the rows of FILE on all
of its columns. The first row of FILE holds the column names.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			n, err := e.DeleteFromDB(cmd.Context(), args[0], args[1], table)
			if err != nil {
				return err
			}
			cmd.Printf("Deleted %d rows\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "target table (defaults to the file name)")
	return cmd
}

func newSelectCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select DATABASE QUERY DIR FILE",
		Short: "Write the result of a query to a new file",
		Long: `Run QUERY against DATABASE and write the result to DIR/FILE.
FILE must not exist and must end with the extension of --format and --compression.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			if err := e.SelectIntoFile(cmd.Context(), args[0], args[1], args[2], args[3]); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", args[3])
			return nil
		},
	}
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export DEST DATABASE [TABLE...]",
		Short: "Write a database to a new directory",
		Long: `Write the tables of DATABASE into the new directory DEST/DATABASE, one
file per table. All tables are written when none are given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			if err := e.WriteDBToDir(cmd.Context(), args[0], args[1], args[2:]...); err != nil {
				return err
			}
			cmd.Printf("Exported %s to %s\n", args[1], args[0])
			return nil
		},
	}
}

func newTablesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables DATABASE",
		Short: "List the tables of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newExql(cmd)
			if err != nil {
				return err
			}
			names, err := e.TableNames(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
