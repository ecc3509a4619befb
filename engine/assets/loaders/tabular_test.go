package loaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTableTrimsSpacesAndQuotes(t *testing.T) {
	src := "\ufeff\"a\", b ,c\r\n 1 ,\"2\",  3\n\n4,5,6\n"
	table, err := ReadTable(strings.NewReader(src), DefaultTabularConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, table.Header)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"1", "2", "3"}, table.Rows[0])

	col, ok := table.Column("b")
	require.True(t, ok)
	v, err := table.Float(1, col)
	require.NoError(t, err)
	assert.Equal(t, float32(5), v)

	_, ok = table.Column("d")
	assert.False(t, ok)
}

func TestReadTableQuotingDisabledSplitsInsideQuotes(t *testing.T) {
	src := "x,y\n~1,2~,3\n"
	table, err := ReadTable(strings.NewReader(src), DefaultTabularConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"~1", "2~", "3"}, table.Rows[0])

	cfg := DefaultTabularConfig()
	cfg.Quoting = true
	table, err = ReadTable(strings.NewReader(src), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"1,2", "3"}, table.Rows[0])
}

func TestReadTableHeaderRow(t *testing.T) {
	cfg := DefaultTabularConfig()
	cfg.HeaderRow = 3
	src := "exported by scanner\n# units: m\nx;y\n1;2\n"
	cfg.Delimiter = ';'
	table, err := ReadTable(strings.NewReader(src), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, table.Header)
	assert.Equal(t, 1, table.Len())

	_, err = ReadTable(strings.NewReader("only one line\n"), cfg)
	assert.Error(t, err)
}

func TestTableFloatErrors(t *testing.T) {
	table, err := ReadTable(strings.NewReader("a,b\n1\nx,2\n"), DefaultTabularConfig())
	require.NoError(t, err)

	_, err = table.Float(0, 1)
	assert.ErrorContains(t, err, "no value for column 1")

	_, err = table.Float(1, 0)
	assert.ErrorContains(t, err, `"x" is not a number`)
}
