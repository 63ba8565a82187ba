package genoshard

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *FeatureTable {
	t := &FeatureTable{
		Individuals: []string{"a", "b"},
		Variants:    []string{"v1", "v2"},
	}
	t.setDosages([]float64{0, 1.5, 2, math.NaN()})
	return t
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testTable().Write(&buf, ShapeTable))

	assert.Equal(t, "individual\tv1\tv2\na\t0\t1.5\nb\t2\tNA\n", buf.String())
}

func TestWriteKeyed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testTable().Write(&buf, ShapeKeyed))

	var got map[string][]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, []interface{}{"a", "b"}, got["individual"])
	assert.Equal(t, []interface{}{0.0, 2.0}, got["v1"])
	assert.Equal(t, []interface{}{1.5, nil}, got["v2"])
}

func TestEmptyTable(t *testing.T) {
	table := &FeatureTable{Individuals: []string{"a"}}
	table.setDosages(nil)

	rows, cols := table.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 0, cols)
	assert.Nil(t, table.Dosages)

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf, ShapeTable))
	assert.Equal(t, "individual\na\n", buf.String())
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("keyed")
	require.NoError(t, err)
	assert.Equal(t, ShapeKeyed, s)

	s, err = ParseShape("")
	require.NoError(t, err)
	assert.Equal(t, ShapeTable, s)

	_, err = ParseShape("long")
	assert.Error(t, err)
}

func TestJoinDuplicateVariant(t *testing.T) {
	left := testTable()
	right := &FeatureTable{Individuals: []string{"a"}, Variants: []string{"v2"}}
	right.setDosages([]float64{1})

	_, err := innerJoin([]*FeatureTable{left, right})
	assert.Error(t, err)
}
