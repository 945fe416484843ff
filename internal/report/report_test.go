package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row []string

func (r row) Values() []string { return r }

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	rows := []row{
		{"plain", "1"},
		{"with,comma", `with "quote"`},
		{"multi\nline", ""},
	}

	require.NoError(t, Write(&buf, []string{"name", "value"}, rows, Options{}))

	want := "name,value\n" +
		"plain,1\n" +
		"\"with,comma\",\"with \"\"quote\"\"\"\n" +
		"\"multi\nline\",\n"
	assert.Equal(t, want, buf.String())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"with,comma", `with "quote"`}, records[2])
}

func TestWrite_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write[row](&buf, []string{"a", "b"}, nil, Options{}))
	assert.Equal(t, "a,b\n", buf.String())
}

func TestWrite_PreservesOrder(t *testing.T) {
	var buf bytes.Buffer
	rows := []row{{"3"}, {"1"}, {"2"}}
	require.NoError(t, Write(&buf, []string{"n"}, rows, Options{}))
	assert.Equal(t, "n\n3\n1\n2\n", buf.String())
}

func TestWrite_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	rows := []row{{"a;b", "c"}}
	require.NoError(t, Write(&buf, []string{"x", "y"}, rows, Options{Delimiter: ';'}))
	assert.Equal(t, "x;y\n\"a;b\";c\n", buf.String())
}

func TestWrite_InvalidDelimiter(t *testing.T) {
	var buf bytes.Buffer
	err := Write[row](&buf, []string{"x"}, nil, Options{Delimiter: '"'})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	require.NoError(t, WriteFile(path, []string{"a"}, []row{{"1"}}, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}

func TestWriteFile_RemovesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	err := WriteFile[row](path, []string{"a"}, nil, Options{Delimiter: '\n'})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
