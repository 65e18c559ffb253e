package model

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

const studentCSV = "id,name,year\nINT,VARCHAR(64),INT\nPRIMARY KEY,NOT NULL,\nid,name,year\n1,'alice',2\n2,'bob',3\n"

var studentRows = Rows{
	{"id", "name", "year"},
	{"INT", "VARCHAR(64)", "INT"},
	{"PRIMARY KEY", "NOT NULL", ""},
	{"id", "name", "year"},
	{"1", "'alice'", "2"},
	{"2", "'bob'", "3"},
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func xlsxBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func parquetBytes(t *testing.T) []byte {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	builder.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	builder.Field(1).(*array.StringBuilder).AppendValues([]string{"alice", ""}, []bool{true, false})

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(table, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		fileType    FileType
		compression CompressionType
		table       string
	}{
		{name: "CSV file", path: "student.csv", fileType: FileTypeCSV, compression: CompressionNone, table: "student"},
		{name: "TSV file", path: "dir/student.tsv", fileType: FileTypeTSV, compression: CompressionNone, table: "student"},
		{name: "XLSX file", path: "student.xlsx", fileType: FileTypeXLSX, compression: CompressionNone, table: "student"},
		{name: "Parquet file", path: "student.parquet", fileType: FileTypeParquet, compression: CompressionNone, table: "student"},
		{name: "gzip CSV", path: "student.csv.gz", fileType: FileTypeCSV, compression: CompressionGZ, table: "student"},
		{name: "bzip2 TSV", path: "student.tsv.bz2", fileType: FileTypeTSV, compression: CompressionBZ2, table: "student"},
		{name: "xz CSV", path: "student.csv.xz", fileType: FileTypeCSV, compression: CompressionXZ, table: "student"},
		{name: "zstd CSV", path: "student.csv.zst", fileType: FileTypeCSV, compression: CompressionZSTD, table: "student"},
		{name: "upper case extension", path: "STUDENT.CSV", fileType: FileTypeCSV, compression: CompressionNone, table: "STUDENT"},
		{name: "unsupported", path: "notes.txt", fileType: FileTypeUnsupported, compression: CompressionNone, table: "notes"},
		{name: "legacy xls", path: "student.xls", fileType: FileTypeUnsupported, compression: CompressionNone, table: "student"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := NewFile(tt.path)
			assert.Equal(t, tt.path, file.Path())
			assert.Equal(t, tt.fileType, file.Type())
			assert.Equal(t, tt.compression, file.Compression())
			assert.Equal(t, tt.compression != CompressionNone, file.IsCompressed())
			assert.Equal(t, tt.table, file.TableName())
			assert.Equal(t, tt.fileType != FileTypeUnsupported, IsSupportedFile(tt.path))
		})
	}
}

func TestReadRows_Formats(t *testing.T) {
	t.Parallel()

	tsv := bytes.ReplaceAll([]byte(studentCSV), []byte(","), []byte("\t"))

	tests := []struct {
		name string
		file string
		data func(t *testing.T) []byte
	}{
		{name: "csv", file: "student.csv", data: func(*testing.T) []byte { return []byte(studentCSV) }},
		{name: "csv with BOM", file: "student.csv", data: func(*testing.T) []byte { return append([]byte{0xEF, 0xBB, 0xBF}, studentCSV...) }},
		{name: "tsv", file: "student.tsv", data: func(*testing.T) []byte { return tsv }},
		{name: "gzip csv", file: "student.csv.gz", data: func(t *testing.T) []byte { return gzipBytes(t, []byte(studentCSV)) }},
		{name: "xz csv", file: "student.csv.xz", data: func(t *testing.T) []byte { return xzBytes(t, []byte(studentCSV)) }},
		{name: "zstd tsv", file: "student.tsv.zst", data: func(t *testing.T) []byte { return zstdBytes(t, tsv) }},
		{name: "xlsx", file: "student.xlsx", data: func(t *testing.T) []byte { return xlsxBytes(t, studentRows.records()) }},
		{name: "gzip xlsx", file: "student.xlsx.gz", data: func(t *testing.T) []byte { return gzipBytes(t, xlsxBytes(t, studentRows.records())) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTestFile(t, t.TempDir(), tt.file, tt.data(t))

			rows, err := ReadRows(path)
			require.NoError(t, err)
			assert.Equal(t, studentRows, rows)
		})
	}
}

func TestReadRows_CSVKeepsRaggedRows(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, t.TempDir(), "ragged.csv", []byte("a,b,c\nINT,INT\nx\n"))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, Rows{{"a", "b", "c"}, {"INT", "INT"}, {"x"}}, rows)
}

func TestReadRows_XLSXPadsTrailingEmptyCells(t *testing.T) {
	t.Parallel()

	// The last modifier is empty, so the spreadsheet row has only two cells.
	data := xlsxBytes(t, [][]string{
		{"id", "name", "year"},
		{"INT", "TEXT", "INT"},
		{"PRIMARY KEY", "NOT NULL"},
	})
	path := writeTestFile(t, t.TempDir(), "padded.xlsx", data)

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{"PRIMARY KEY", "NOT NULL", ""}, rows[2])
}

func TestReadRows_Parquet(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, t.TempDir(), "people.parquet", parquetBytes(t))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, Rows{
		{"id", "name"},
		{"1", "alice"},
		{"2", ""},
	}, rows)
}

func TestReadRows_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unsupported := writeTestFile(t, dir, "notes.txt", []byte("hello"))
	malformed := writeTestFile(t, dir, "broken.csv", []byte("a,\"b\nc,d\n"))
	badGzip := writeTestFile(t, dir, "broken.csv.gz", []byte("not gzip at all"))
	emptyParquet := writeTestFile(t, dir, "empty.parquet", nil)
	invalidText := writeTestFile(t, dir, "latin1.csv", []byte("id,name\n1,\xff\xfe\n"))
	invalidGzip := writeTestFile(t, dir, "latin1.tsv.gz", gzipBytes(t, []byte("id\tname\n1\t\xe9t\xe9\n")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0o750))

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "unsupported extension", path: unsupported, want: ErrFormat},
		{name: "missing file", path: filepath.Join(dir, "missing.csv"), want: ErrNotFound},
		{name: "directory", path: filepath.Join(dir, "folder.csv"), want: ErrNotFound},
		{name: "malformed csv", path: malformed, want: ErrFormat},
		{name: "corrupt gzip", path: badGzip, want: ErrFormat},
		{name: "empty parquet", path: emptyParquet, want: ErrFormat},
		{name: "invalid utf-8", path: invalidText, want: ErrFormat},
		{name: "invalid utf-8 in gzip tsv", path: invalidGzip, want: ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadRows(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFileType_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".csv", FileTypeCSV.Extension())
	assert.Equal(t, ".tsv", FileTypeTSV.Extension())
	assert.Equal(t, ".xlsx", FileTypeXLSX.Extension())
	assert.Equal(t, ".parquet", FileTypeParquet.Extension())
	assert.Empty(t, FileTypeUnsupported.Extension())
}

// records converts rows back to the [][]string used by the fixtures
func (rs Rows) records() [][]string {
	records := make([][]string, len(rs))
	for i, row := range rs {
		records[i] = row
	}
	return records
}
