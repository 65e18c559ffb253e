package exql

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/require"
)

func gzipString(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.WriteString(s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
