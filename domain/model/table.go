package model

import (
	"path/filepath"
	"strings"
)

// TableFromFilePath creates table name from file path.
// "users.csv" becomes "users", "/path/to/logs.tsv.gz" becomes "logs".
func TableFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	// Remove compression extensions first
	for _, ext := range compressionExtensions() {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			fileName = fileName[:len(fileName)-len(ext)]
			break
		}
	}
	// Then remove the file type extension
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// DatabaseFromDirPath returns the database name for a directory: its base name.
func DatabaseFromDirPath(dirPath string) string {
	return filepath.Base(filepath.Clean(dirPath))
}
