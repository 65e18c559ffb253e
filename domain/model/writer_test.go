package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	exportColumns = []string{"id", "name", "note"}
	exportRows    = Rows{
		{"1", "alice", "likes, commas"},
		{"2", "bob", ""},
		{"3", "carol \"cc\"", "007"},
	}
)

func TestWriteFile_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts ExportOptions
	}{
		{name: "csv", opts: NewExportOptions()},
		{name: "tsv", opts: NewExportOptions().WithFormat(OutputFormatTSV)},
		{name: "xlsx", opts: NewExportOptions().WithFormat(OutputFormatXLSX)},
		{name: "csv gzip", opts: NewExportOptions().WithCompression(CompressionGZ)},
		{name: "tsv xz", opts: NewExportOptions().WithFormat(OutputFormatTSV).WithCompression(CompressionXZ)},
		{name: "csv zstd", opts: NewExportOptions().WithCompression(CompressionZSTD)},
		{name: "xlsx zstd", opts: NewExportOptions().WithFormat(OutputFormatXLSX).WithCompression(CompressionZSTD)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			fileName := "result" + tt.opts.FileExtension()

			require.NoError(t, WriteFile(exportColumns, dir, fileName, exportRows, tt.opts))

			rows, err := ReadRows(filepath.Join(dir, fileName))
			require.NoError(t, err)
			require.NotEmpty(t, rows)
			assert.Equal(t, Row(exportColumns), rows[0])
			assert.Equal(t, exportRows, rows[1:])
		})
	}
}

func TestWriteFile_CSVContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, WriteFile([]string{"a", "b"}, dir, "out.csv", Rows{{"1", "2"}, {"3", "4"}}, NewExportOptions()))

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data))
}

func TestWriteFile_HeaderOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, WriteFile([]string{"a", "b"}, dir, "empty.csv", Rows{}, NewExportOptions()))

	rows, err := ReadRows(filepath.Join(dir, "empty.csv"))
	require.NoError(t, err)
	assert.Equal(t, Rows{{"a", "b"}}, rows)
}

func TestWriteFile_Conflict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "taken.csv", []byte("keep me\n"))

	err := WriteFile(exportColumns, dir, "taken.csv", exportRows, NewExportOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data), "existing file must be left untouched")
}

func TestWriteFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	regular := writeTestFile(t, dir, "plain.txt", []byte("x"))

	tests := []struct {
		name     string
		dir      string
		fileName string
		opts     ExportOptions
		want     error
	}{
		{name: "missing directory", dir: filepath.Join(dir, "missing"), fileName: "out.csv", opts: NewExportOptions(), want: ErrNotFound},
		{name: "directory is a file", dir: regular, fileName: "out.csv", opts: NewExportOptions(), want: ErrNotFound},
		{name: "wrong extension", dir: dir, fileName: "out.txt", opts: NewExportOptions(), want: ErrName},
		{name: "extension only", dir: dir, fileName: ".csv", opts: NewExportOptions(), want: ErrName},
		{name: "missing compression extension", dir: dir, fileName: "out.csv", opts: NewExportOptions().WithCompression(CompressionGZ), want: ErrName},
		{name: "path in file name", dir: dir, fileName: filepath.Join("sub", "out.csv"), opts: NewExportOptions(), want: ErrName},
		{name: "bzip2 output", dir: dir, fileName: "out.csv.bz2", opts: NewExportOptions().WithCompression(CompressionBZ2), want: ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := WriteFile(exportColumns, tt.dir, tt.fileName, exportRows, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteFile_FailureRemovesPartialFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := WriteFile(exportColumns, dir, "out.csv.bz2", exportRows, NewExportOptions().WithCompression(CompressionBZ2))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "out.csv.bz2"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
