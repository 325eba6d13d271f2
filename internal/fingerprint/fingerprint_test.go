package fingerprint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "id,name,amount\n1,alpha,10.5\n2,beta,20.0\n3,gamma,30.25\n"

func TestFromCSV(t *testing.T) {
	fp, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "amount"}, fp.Columns)
	assert.Equal(t, 3, fp.RowCount)
	assert.Len(t, fp.ContentHash, 64)
}

func TestFromCSV_Deterministic(t *testing.T) {
	a, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	b, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.Equal(t, a.String(), b.String())
}

func TestFromCSV_ContentSensitive(t *testing.T) {
	a, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	b, err := FromCSV(strings.NewReader("id,name,amount\n1,alpha,10.5\n"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}

func TestFromCSV_TrimsHeaderWhitespace(t *testing.T) {
	fp, err := FromCSV(strings.NewReader("id, name , amount\n1,x,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "amount"}, fp.Columns)
}

func TestFromCSV_Empty(t *testing.T) {
	_, err := FromCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	fp, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	s := fp.String()
	assert.True(t, strings.HasPrefix(s, fp.ContentHash[:12]))
	assert.True(t, strings.HasSuffix(s, "-c3-r3"))
}

func TestFromCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	fp, err := FromCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, fp.RowCount)

	_, err = FromCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
