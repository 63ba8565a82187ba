package genoshard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/guregu/null.v3"
)

const missing = "NA"

// FeatureTable holds dosages with one row per individual and one column per
// variant. Dosages is nil when the table has no rows or no columns.
type FeatureTable struct {
	Individuals []string
	Variants    []string
	Dosages     *mat.Dense
}

// setDosages installs row-major data sized to the table's labels.
func (t *FeatureTable) setDosages(data []float64) {
	if len(t.Individuals) == 0 || len(t.Variants) == 0 {
		t.Dosages = nil
		return
	}

	t.Dosages = mat.NewDense(len(t.Individuals), len(t.Variants), data)
}

// Dims returns the number of individuals and variants.
func (t *FeatureTable) Dims() (int, int) {
	return len(t.Individuals), len(t.Variants)
}

func (t *FeatureTable) At(i, j int) float64 {
	return t.Dosages.At(i, j)
}

// Value returns the dosage of one variant for one individual.
func (t *FeatureTable) Value(individual, variant string) (float64, bool) {
	i, j := indexOf(t.Individuals, individual), indexOf(t.Variants, variant)
	if i < 0 || j < 0 {
		return 0, false
	}

	return t.At(i, j), true
}

// Column returns a copy of the dosages of one variant, in row order.
func (t *FeatureTable) Column(variant string) ([]float64, bool) {
	j := indexOf(t.Variants, variant)
	if j < 0 {
		return nil, false
	}

	out := make([]float64, len(t.Individuals))
	if t.Dosages != nil {
		mat.Col(out, j, t.Dosages)
	}

	return out, true
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Shape selects how a FeatureTable is serialized.
type Shape int

const (
	// ShapeTable is a wide, tab-delimited table with an individual column.
	ShapeTable Shape = iota

	// ShapeKeyed is a JSON object mapping every column, including
	// individual, to its values.
	ShapeKeyed
)

func (s Shape) String() string {
	switch s {
	case ShapeTable:
		return "table"
	case ShapeKeyed:
		return "keyed"
	}

	return fmt.Sprintf("Shape(%d)", int(s))
}

func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return ShapeTable, nil
	case "keyed":
		return ShapeKeyed, nil
	}

	return ShapeTable, fmt.Errorf("unknown output shape %q, expected table or keyed", s)
}

// Write serializes the table to w. Missing dosages are written as NA in a
// table and as null when keyed.
func (t *FeatureTable) Write(w io.Writer, shape Shape) error {
	switch shape {
	case ShapeTable:
		return t.writeTable(w)
	case ShapeKeyed:
		return t.writeKeyed(w)
	}

	return fmt.Errorf("unknown output shape %v", shape)
}

func (t *FeatureTable) writeTable(w io.Writer) error {
	buf := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(buf, strings.Join(append([]string{IndividualColumn}, t.Variants...), "\t")); err != nil {
		return err
	}

	row := make([]string, len(t.Variants)+1)
	for i, id := range t.Individuals {
		row[0] = id
		for j := range t.Variants {
			row[j+1] = formatDosage(t.At(i, j))
		}
		if _, err := fmt.Fprintln(buf, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return buf.Flush()
}

func (t *FeatureTable) writeKeyed(w io.Writer) error {
	out := make(map[string]interface{}, len(t.Variants)+1)
	out[IndividualColumn] = append(make([]string, 0, len(t.Individuals)), t.Individuals...)

	for j, variant := range t.Variants {
		values := make([]null.Float, len(t.Individuals))
		for i := range t.Individuals {
			if v := t.At(i, j); !math.IsNaN(v) {
				values[i] = null.FloatFrom(v)
			}
		}
		out[variant] = values
	}

	return json.NewEncoder(w).Encode(out)
}

func formatDosage(v float64) string {
	if math.IsNaN(v) {
		return missing
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}
