package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxSheetName is the sheet written by the XLSX writer
const xlsxSheetName = "Sheet1"

// WriteFile writes columns as a header row followed by rows into a new file
// dir/fileName. Existing files are never overwritten or appended to.
//
// It fails with ErrNotFound if dir is not an existing directory, ErrName if
// fileName does not end with opts.FileExtension(), and ErrConflict if the
// target already exists.
func WriteFile(columns []string, dir, fileName string, rows Rows, opts ExportOptions) (err error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a valid directory", ErrNotFound, dir)
	}

	ext := opts.FileExtension()
	if filepath.Base(fileName) != fileName || !strings.HasSuffix(strings.ToLower(fileName), ext) || len(fileName) == len(ext) {
		return fmt.Errorf("%w: %s must be a plain file name ending in %s", ErrName, fileName, ext)
	}

	path := filepath.Join(dir, fileName)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConflict, path)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path) // Do not leave a partial export behind
		}
	}()

	writer, flush, err := newCompressWriter(opts.Compression, file)
	if err != nil {
		return err
	}

	switch opts.Format {
	case OutputFormatTSV:
		err = writeDelimited(writer, tsvDelimiter, columns, rows)
	case OutputFormatXLSX:
		err = writeXLSX(writer, columns, rows)
	default:
		err = writeDelimited(writer, csvDelimiter, columns, rows)
	}
	if err != nil {
		_ = flush()
		return err
	}
	if err := flush(); err != nil {
		return fmt.Errorf("failed to finish compressed output: %w", err)
	}
	return file.Sync()
}

// writeDelimited writes CSV or TSV content
func writeDelimited(w io.Writer, delimiter rune, columns []string, rows Rows) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := csvWriter.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeXLSX writes a single-sheet workbook
func writeXLSX(w io.Writer, columns []string, rows Rows) error {
	xlsxFile := excelize.NewFile()
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	if err := setXLSXRow(xlsxFile, 1, columns); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setXLSXRow(xlsxFile, i+2, row); err != nil {
			return err
		}
	}

	_, err := xlsxFile.WriteTo(w)
	return err
}

// setXLSXRow writes values as text cells into the given 1-based row
func setXLSXRow(xlsxFile *excelize.File, rowNumber int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return xlsxFile.SetSheetRow(xlsxSheetName, cell, &cells)
}
