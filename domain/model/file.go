package model

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// FileType represents supported file types, without compression
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtXLSX is the Excel XLSX file extension
	ExtXLSX = ".xlsx"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// utf8BOM is stripped from the start of delimited files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extension returns the file extension for the FileType
func (ft FileType) Extension() string {
	switch ft {
	case FileTypeCSV:
		return ExtCSV
	case FileTypeTSV:
		return ExtTSV
	case FileTypeXLSX:
		return ExtXLSX
	case FileTypeParquet:
		return ExtParquet
	default:
		return ""
	}
}

// String returns the name of the FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// File represents a tabular file on disk
type File struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// NewFile creates a new File. The format is detected from the extension.
func NewFile(path string) *File {
	return &File{
		path:        path,
		fileType:    detectFileType(path),
		compression: detectCompressionType(path),
	}
}

// ReadRows reads every row of the file at path.
func ReadRows(path string) (Rows, error) {
	return NewFile(path).Rows()
}

// IsSupportedFile checks if the file has a supported extension
func IsSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// Path returns file path
func (f *File) Path() string {
	return f.path
}

// Type returns file type
func (f *File) Type() FileType {
	return f.fileType
}

// Compression returns the compression of the file
func (f *File) Compression() CompressionType {
	return f.compression
}

// IsCompressed returns true if file is compressed
func (f *File) IsCompressed() bool {
	return f.compression != CompressionNone
}

// TableName returns the table name derived from the file name
func (f *File) TableName() string {
	return TableFromFilePath(f.path)
}

// Rows reads the whole file. Header and data rows are returned undifferentiated,
// without trimming or type inference.
func (f *File) Rows() (Rows, error) {
	if f.fileType == FileTypeUnsupported {
		return nil, fmt.Errorf("%w: unsupported file type: %s", ErrFormat, f.path)
	}

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory, not a file", ErrNotFound, f.path)
	}

	var rows Rows
	switch f.fileType {
	case FileTypeCSV:
		rows, err = f.parseDelimited(csvDelimiter)
	case FileTypeTSV:
		rows, err = f.parseDelimited(tsvDelimiter)
	case FileTypeXLSX:
		rows, err = f.parseXLSX()
	case FileTypeParquet:
		rows, err = f.parseParquet()
	}
	if err != nil {
		if errors.Is(err, ErrFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrFormat, f.path, err)
	}
	if err := validateUTF8(rows, f.path); err != nil {
		return nil, err
	}
	return rows, nil
}

// validateUTF8 rejects rows holding cells that are not valid UTF-8 text
func validateUTF8(rows Rows, path string) error {
	for i, row := range rows {
		for _, cell := range row {
			if !utf8.ValidString(cell) {
				return fmt.Errorf("%w: invalid UTF-8 in %s at row %d", ErrFormat, path, i+1)
			}
		}
	}
	return nil
}

// detectFileType detects file type from extension, considering compressed files
func detectFileType(path string) FileType {
	basePath := strings.ToLower(path)

	// Remove compression extensions
	for _, ext := range compressionExtensions() {
		if strings.HasSuffix(basePath, ext) {
			basePath = strings.TrimSuffix(basePath, ext)
			break
		}
	}

	switch filepath.Ext(basePath) {
	case ExtCSV:
		return FileTypeCSV
	case ExtTSV:
		return FileTypeTSV
	case ExtXLSX:
		return FileTypeXLSX
	case ExtParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// openReader opens file and returns a reader that handles compression
func (f *File) openReader() (io.Reader, func() error, error) {
	file, err := os.Open(f.path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, nil, err
	}

	reader, cleanup, err := newDecompressReader(f.compression, file)
	if err != nil {
		_ = file.Close() // Ignore close error during error handling
		return nil, nil, err
	}

	closer := func() error {
		cleanupErr := cleanup()
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}
	return reader, closer, nil
}

// parseDelimited parses CSV or TSV files with specified delimiter.
// Rows may have different lengths; shape checks belong to the consumers.
func (f *File) parseDelimited(delimiter rune) (Rows, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer() // Ignore close error on read path
	}()

	buffered := bufio.NewReader(reader)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := buffered.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	csvReader := csv.NewReader(buffered)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	return NewRows(records), nil
}

// parseXLSX parses the first sheet of an XLSX file
func (f *File) parseXLSX() (Rows, error) {
	var (
		xlsxFile *excelize.File
		err      error
	)

	if f.IsCompressed() {
		// excelize needs the whole archive, so decompress it first
		reader, closer, err := f.openReader()
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = closer()
		}()
		xlsxFile, err = excelize.OpenReader(reader)
		if err != nil {
			return nil, err
		}
	} else {
		xlsxFile, err = excelize.OpenFile(f.path)
		if err != nil {
			return nil, err
		}
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in Excel file: %s", ErrFormat, f.path)
	}

	records, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetNames[0], err)
	}
	return padRows(NewRows(records)), nil
}

// padRows pads every row with empty cells up to the width of the widest row.
// Spreadsheets omit trailing empty cells, which would drop an empty modifiers cell.
func padRows(rows Rows) Rows {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make(Row, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

// parseParquet parses a Parquet file. Row 0 holds the schema field names,
// following rows hold every value rendered as text; nulls become empty cells.
func (f *File) parseParquet() (Rows, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer()
	}()

	// Parquet requires random access
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty parquet file: %s", ErrFormat, f.path)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make(Row, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	rows := Rows{header}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make(Row, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}
	return rows, nil
}
