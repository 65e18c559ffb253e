package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ScanDirectory validates dirPath and reads every supported file in it.
//
// In strict mode any subdirectory or unsupported file is an ErrStructure error.
// Otherwise they are skipped. The directory must contain at least one supported
// file, and each file must have at least the three schema rows.
func ScanDirectory(dirPath string, strict bool) (FileMap, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", ErrNotFound, dirPath)
		}
		return nil, fmt.Errorf("failed to stat path %s: %w", dirPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files, err := collectDirectoryFiles(dirPath, entries, strict)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no supported files found in directory %s", ErrStructure, dirPath)
	}

	fileMap := make(FileMap, len(files))
	for tableName, filePath := range files {
		rows, err := ReadRows(filePath)
		if err != nil {
			return nil, err
		}
		if err := RequireRows(rows, SchemaRows, filePath); err != nil {
			return nil, err
		}
		fileMap[tableName] = rows
	}
	return fileMap, nil
}

// collectDirectoryFiles maps table names to file paths and checks the directory layout
func collectDirectoryFiles(dirPath string, entries []os.DirEntry, strict bool) (map[string]string, error) {
	files := make(map[string]string)

	for _, entry := range entries {
		filePath := filepath.Join(dirPath, entry.Name())

		if entry.IsDir() {
			if strict {
				return nil, fmt.Errorf("%w: subdirectory %s is not allowed in strict mode", ErrStructure, filePath)
			}
			continue // Skip subdirectories
		}

		// A file named only by its extension, such as ".csv", has no table name
		tableName := TableFromFilePath(filePath)
		if !IsSupportedFile(entry.Name()) || tableName == "" {
			if strict {
				return nil, fmt.Errorf("%w: unsupported file %s is not allowed in strict mode", ErrStructure, filePath)
			}
			continue
		}

		if existing, exists := files[tableName]; exists {
			return nil, fmt.Errorf("%w: table '%s' from files '%s' and '%s'",
				ErrStructure, tableName, existing, filePath)
		}
		files[tableName] = filePath
	}

	return files, nil
}
