// Package exql moves spreadsheet-style files in and out of a SQL database.
//
// A directory of CSV, TSV, XLSX or Parquet files becomes a database: the
// directory name is the database name, each file stem is a table name, and
// the first rows of each file describe the columns. Tables can also be created,
// filled and pruned from single files, and query results or whole databases
// can be exported back to files.
//
// # File layout
//
// A table creation file starts with four header rows:
//
//	id,name,year
//	INT,VARCHAR(64),INT
//	PRIMARY KEY,NOT NULL,
//	id,name,year
//	1,'alice',2
//	2,'bob',3
//
// The rows are the column names, the column types, the column modifiers and
// the column names again. Every following row is inserted. Insert and delete
// files have a single column-name row followed by data rows.
//
// Files may be compressed with gzip (.gz), bzip2 (.bz2), xz (.xz) or
// zstandard (.zst); the table name never includes either extension.
//
// # Basic Usage
//
//	e, err := exql.New(exql.Config{
//	    Host:     "localhost",
//	    Username: "root",
//	    Password: "secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := e.CreateDBFromDirectory(ctx, "./university"); err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := e.InsertInTable(ctx, "university", "./more_students.csv", "student")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = e.SelectIntoFile(ctx, "university", "SELECT * FROM student LIMIT 3;", "./out", "students.csv")
//
// # Values
//
// By default cell values are copied into the statements verbatim, so string
// values must be written as SQL literals ('alice'). This is unsafe for files
// from untrusted sources; set Config.QueryMode to QueryModeParameterized to
// bind values as statement arguments instead.
//
// # Dialects
//
// The default dialect is MySQL, which selects the database with USE before
// every statement. The SQLite dialect stores each database as the file
// <DataDir>/<database>.db and needs no server.
//
// # Errors
//
// Errors wrap ErrNotFound, ErrStructure, ErrFormat, ErrShape, ErrConflict or
// ErrName and can be tested with errors.Is. Database errors are returned as
// reported by the driver.
package exql
