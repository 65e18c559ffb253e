package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const courseCSV = "code,title\nVARCHAR(8),TEXT\nPRIMARY KEY,\ncode,title\n'CS101','Intro'\n"

func newUniversityDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "university")
	require.NoError(t, os.Mkdir(dir, 0o750))
	writeTestFile(t, dir, "student.csv", []byte(studentCSV))
	writeTestFile(t, dir, "course.csv.gz", gzipBytes(t, []byte(courseCSV)))
	return dir
}

func TestScanDirectory(t *testing.T) {
	t.Parallel()

	dir := newUniversityDir(t)

	for _, strict := range []bool{true, false} {
		fileMap, err := ScanDirectory(dir, strict)
		require.NoError(t, err)
		assert.Equal(t, []string{"course", "student"}, fileMap.TableNames())
		assert.Equal(t, studentRows, fileMap["student"])
		assert.Len(t, fileMap["course"], 5)
	}
}

func TestScanDirectory_Subdirectory(t *testing.T) {
	t.Parallel()

	dir := newUniversityDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o750))

	_, err := ScanDirectory(dir, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)

	fileMap, err := ScanDirectory(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"course", "student"}, fileMap.TableNames())
}

func TestScanDirectory_UnsupportedFile(t *testing.T) {
	t.Parallel()

	dir := newUniversityDir(t)
	writeTestFile(t, dir, "README.md", []byte("# university"))

	_, err := ScanDirectory(dir, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)

	fileMap, err := ScanDirectory(dir, false)
	require.NoError(t, err)
	assert.Len(t, fileMap, 2)
}

func TestScanDirectory_ExtensionOnlyFileName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{".csv", ".tsv.gz"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := newUniversityDir(t)
			writeTestFile(t, dir, name, []byte(studentCSV))

			_, err := ScanDirectory(dir, true)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructure)

			fileMap, err := ScanDirectory(dir, false)
			require.NoError(t, err)
			assert.Equal(t, []string{"course", "student"}, fileMap.TableNames())
		})
	}
}

func TestScanDirectory_NoEligibleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "notes.txt", []byte("nothing here"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))

	// Lenient mode skips both entries and then finds nothing
	_, err := ScanDirectory(dir, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)

	_, err = ScanDirectory(t.TempDir(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestScanDirectory_DuplicateTable(t *testing.T) {
	t.Parallel()

	dir := newUniversityDir(t)
	writeTestFile(t, dir, "student.tsv", []byte("id\nINT\n\n"))

	_, err := ScanDirectory(dir, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
	assert.Contains(t, err.Error(), "student")
}

func TestScanDirectory_ShortFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "short.csv", []byte("id,name\nINT,TEXT\n"))

	_, err := ScanDirectory(dir, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestScanDirectory_NotADirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeTestFile(t, dir, "student.csv", []byte(studentCSV))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing")},
		{name: "regular file", path: file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ScanDirectory(tt.path, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
