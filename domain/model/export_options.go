package model

import (
	"fmt"
	"strings"
)

// OutputFormat represents the output file format
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatCSV:
		return "csv"
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatCSV:
		return ExtCSV
	case OutputFormatTSV:
		return ExtTSV
	case OutputFormatXLSX:
		return ExtXLSX
	default:
		return ExtCSV
	}
}

// ParseOutputFormat parses a format name such as "csv" or "xlsx".
// An empty name selects CSV.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return OutputFormatCSV, nil
	case "tsv":
		return OutputFormatTSV, nil
	case "xlsx":
		return OutputFormatXLSX, nil
	default:
		return OutputFormatCSV, fmt.Errorf("%w: unknown output format %q", ErrFormat, name)
	}
}

// ExportOptions configures how result sets are written to files.
//
// Example:
//
//	options := NewExportOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
type ExportOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type
	Compression CompressionType
}

// NewExportOptions creates default export options (CSV, no compression).
//
// Modify with:
//   - WithFormat(): Change file format (CSV, TSV, XLSX)
//   - WithCompression(): Add compression (GZ, XZ, ZSTD)
func NewExportOptions() ExportOptions {
	return ExportOptions{
		Format:      OutputFormatCSV,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
func (o ExportOptions) WithFormat(format OutputFormat) ExportOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to output files.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
//
// CompressionBZ2 is accepted here but rejected when writing.
func (o ExportOptions) WithCompression(compression CompressionType) ExportOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension including compression
func (o ExportOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}
