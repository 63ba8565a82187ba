package gwas

import (
	"strings"
	"testing"

	"github.com/carbocation/gwasbetas/weightdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *weightdb.Index {
	t.Helper()

	idx, err := weightdb.NewIndex([]weightdb.Entry{
		{RSID: "rs1", Gene: "ENSG1", Weight: 0.1, RefAllele: "A", EffAllele: "T"},
		{RSID: "rs2", Gene: "ENSG1", Weight: 0.2, RefAllele: "C", EffAllele: "G", VarID: "chr3_500_C_G_b38"},
		{RSID: "rs3", Gene: "ENSG2", Weight: 0.3, RefAllele: "G", EffAllele: "A"},
	})
	require.NoError(t, err)
	return idx
}

func process(t *testing.T, cols Columns, scheme Scheme, policy DuplicatePolicy, header string, lines ...string) (*ResultSet, Counters) {
	t.Helper()

	format := NewFormat(strings.Fields(header), cols)
	p := NewProcessor(testIndex(t), format, scheme, policy)
	rs := NewResultSet()
	var c Counters
	for _, line := range lines {
		p.Process(strings.Fields(line), rs, &c)
	}
	return rs, c
}

func TestProcessorAlleleSwap(t *testing.T) {
	rs, c := process(t, allColumns, SchemeBeta, LastWins, "SNP A1 A2 BETA",
		"rs1 T A 0.5",
	)

	rec, ok := rs.Get("rs1")
	require.True(t, ok)
	assert.Equal(t, -0.5, rec.Beta)
	assert.Equal(t, 1, c.Matched)
}

func TestProcessorDirectMatchKeepsSign(t *testing.T) {
	rs, _ := process(t, allColumns, SchemeBetaSignP, LastWins, "SNP A1 A2 SIGN P",
		"rs1 a t -1 0.05",
	)

	rec, ok := rs.Get("rs1")
	require.True(t, ok)
	assert.InDelta(t, -1.959964, rec.Beta, 1e-5)
	assert.InDelta(t, -1.959964, rec.Z.Float64, 1e-5)
}

func TestProcessorSwapNegatesZ(t *testing.T) {
	rs, _ := process(t, allColumns, SchemeBetaSE, LastWins, "SNP A1 A2 BETA SE Z",
		"rs1 T A 0.4 0.2 2",
	)
	rec, _ := rs.Get("rs1")
	assert.Equal(t, -0.4, rec.Beta)
	assert.Equal(t, 0.2, rec.SE.Float64)

	rs, _ = process(t, allColumns, SchemeZ, LastWins, "SNP A1 A2 Z",
		"rs1 T A 2",
	)
	rec, _ = rs.Get("rs1")
	assert.Equal(t, -2.0, rec.Z.Float64)
	assert.Equal(t, -2.0, rec.Beta)
}

func TestProcessorDiscards(t *testing.T) {
	rs, c := process(t, allColumns, SchemeBeta, LastWins, "SNP A1 A2 BETA FRQ",
		"rs9 A T 0.5 0.1",  // not in model
		"rs10 A T 0.5 0.1", // not in model
		"rs1 A C 0.5 0.1",  // wrong alleles
		"rs3 C T 0.5 0.1",  // strand flip is not attempted
		"rs3 G A NA 0.1",   // unparsable
		"rs3 G A 0.25 NA",  // a bad frequency is not fatal
	)

	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, Counters{Lines: 6, Matched: 1, AlleleMismatch: 2, NotInModel: 2, Unparsable: 1}, c)

	rec, ok := rs.Get("rs3")
	require.True(t, ok)
	assert.Equal(t, 0.25, rec.Beta)
	assert.False(t, rec.Frequency.Valid)
}

func TestProcessorNothingMatches(t *testing.T) {
	rs, c := process(t, allColumns, SchemeBeta, LastWins, "SNP A1 A2 BETA",
		"rs100 A T 0.5",
		"rs101 A T 0.5",
	)

	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, 2, c.NotInModel)
}

func TestProcessorDuplicates(t *testing.T) {
	lines := []string{"rs1 A T 0.1", "rs3 G A 0.3", "rs1 A T 0.9"}

	rs, c := process(t, allColumns, SchemeBeta, LastWins, "SNP A1 A2 BETA", lines...)
	rec, _ := rs.Get("rs1")
	assert.Equal(t, 0.9, rec.Beta)
	assert.Equal(t, 1, c.Duplicates)
	assert.Equal(t, []string{"rs1", "rs3"}, ids(rs))

	rs, _ = process(t, allColumns, SchemeBeta, FirstWins, "SNP A1 A2 BETA", lines...)
	rec, _ = rs.Get("rs1")
	assert.Equal(t, 0.1, rec.Beta)
}

func TestProcessorChrPosFallback(t *testing.T) {
	cols := allColumns
	cols.Chromosome = "CHR"
	cols.Position = "BP"

	rs, c := process(t, cols, SchemeBeta, LastWins, "SNP CHR BP A1 A2 BETA FRQ",
		"3:500 chr3 500 C G 0.7 0.4",
	)

	rec, ok := rs.Get("rs2")
	require.True(t, ok)
	assert.Equal(t, 0.7, rec.Beta)
	assert.Equal(t, 0.4, rec.Frequency.Float64)
	assert.Equal(t, 1, c.Matched)
}

func ids(rs *ResultSet) []string {
	out := make([]string, 0, rs.Len())
	for _, rec := range rs.Records() {
		out = append(out, rec.RSID)
	}
	return out
}

func TestProcessorReportsScheme(t *testing.T) {
	format := NewFormat([]string{"SNP", "A1", "A2", "Z"}, allColumns)
	p := NewProcessor(testIndex(t), format, SchemeZ, LastWins)
	assert.Equal(t, SchemeZ, p.Scheme())
}
