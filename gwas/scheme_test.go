package gwas

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allColumns = Columns{
	SNP: "SNP", A1: "A1", A2: "A2",
	Beta: "BETA", OR: "OR", SE: "SE", Z: "Z", PValue: "P", Sign: "SIGN", Frequency: "FRQ",
}

func formatOf(header string) *Format {
	return NewFormat(strings.Fields(header), allColumns)
}

func TestResolveSchemeInference(t *testing.T) {
	for _, tc := range []struct {
		header   string
		expected Scheme
	}{
		{"SNP A1 A2 BETA", SchemeBeta},
		{"SNP A1 A2 OR", SchemeBeta},
		{"SNP A1 A2 BETA SE", SchemeBetaSE},
		{"SNP A1 A2 OR SE", SchemeBetaSE},
		{"SNP A1 A2 Z", SchemeZ},
		{"SNP A1 A2 SIGN P", SchemeBetaSignP},
		{"SNP A1 A2 BETA P", SchemeBetaP},

		// beta_se and beta_p are equally specific; standard error wins
		{"SNP A1 A2 BETA SE P", SchemeBetaSE},
		// beta with a p-value keeps more than a bare z-score
		{"SNP A1 A2 BETA P Z", SchemeBetaP},
		// z outranks sign+p
		{"SNP A1 A2 Z SIGN P", SchemeZ},
		{"SNP A1 A2 BETA SIGN P SE Z FRQ", SchemeBetaSE},
	} {
		s, err := ResolveScheme(formatOf(tc.header), "")
		require.NoError(t, err, tc.header)
		assert.Equal(t, tc.expected, s, tc.header)
	}
}

func TestResolveSchemeAmbiguous(t *testing.T) {
	_, err := ResolveScheme(formatOf("SNP A1 A2 SE P FRQ"), "")

	var ase *AmbiguousSchemeError
	require.True(t, errors.As(err, &ase))
	assert.Contains(t, ase.Available, "se")
}

func TestResolveSchemeMissingIdentity(t *testing.T) {
	_, err := ResolveScheme(formatOf("SNP A1 BETA SE"), "")

	var sve *SchemeValidationError
	require.True(t, errors.As(err, &sve))
	assert.Equal(t, []string{"a2"}, sve.Missing)
}

func TestResolveSchemeExplicit(t *testing.T) {
	s, err := ResolveScheme(formatOf("SNP A1 A2 BETA SE"), "beta_se_to_z")
	require.NoError(t, err)
	assert.Equal(t, SchemeBetaSEToZ, s)

	// Explicit schemes may be less informative than what inference would pick
	s, err = ResolveScheme(formatOf("SNP A1 A2 BETA SE"), "beta")
	require.NoError(t, err)
	assert.Equal(t, SchemeBeta, s)

	_, err = ResolveScheme(formatOf("SNP A1 A2 BETA"), "beta_sign_p")
	var sve *SchemeValidationError
	require.True(t, errors.As(err, &sve))
	assert.Equal(t, []string{"beta_sign", "pvalue"}, sve.Missing)

	_, err = ResolveScheme(formatOf("SNP A1 A2 BETA"), "beta_se")
	require.True(t, errors.As(err, &sve))
	assert.Equal(t, []string{"se"}, sve.Missing)

	_, err = ResolveScheme(formatOf("SNP A1 A2 BETA"), "nonsense")
	require.True(t, errors.As(err, &sve))
	assert.Empty(t, sve.Missing)
}

func TestSchemeRoundTripsNames(t *testing.T) {
	for _, name := range strings.Split(SchemeNames(), ", ") {
		s, err := ParseScheme(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}
}

func transform(t *testing.T, s Scheme, header, line string) estimate {
	t.Helper()

	e, err := schemeSpecs[s].transform(formatOf(header), strings.Fields(line))
	require.NoError(t, err)
	return e
}

func TestTransformBetaSEToZ(t *testing.T) {
	e := transform(t, SchemeBetaSEToZ, "SNP A1 A2 BETA SE", "rs1 A T 1.0 0.5")
	assert.Equal(t, 2.0, e.Beta)
	assert.Equal(t, 2.0, e.Z.Float64)
}

func TestTransformBetaSignP(t *testing.T) {
	e := transform(t, SchemeBetaSignP, "SNP A1 A2 SIGN P", "rs1 A T -1 0.05")
	assert.InDelta(t, -1.959964, e.Beta, 1e-5)

	e = transform(t, SchemeBetaSignP, "SNP A1 A2 SIGN P", "rs1 A T + 0.05")
	assert.InDelta(t, 1.959964, e.Beta, 1e-5)
}

func TestTransformOddsRatio(t *testing.T) {
	e := transform(t, SchemeBeta, "SNP A1 A2 OR", "rs1 A T 2.718281828459045")
	assert.InDelta(t, 1.0, e.Beta, 1e-12)

	_, err := schemeSpecs[SchemeBeta].transform(formatOf("SNP A1 A2 OR"), strings.Fields("rs1 A T 0"))
	assert.ErrorIs(t, err, errUnparsable)
}

func TestTransformBetaP(t *testing.T) {
	e := transform(t, SchemeBetaP, "SNP A1 A2 BETA P", "rs1 A T -0.2 0.05")
	assert.Equal(t, -0.2, e.Beta)
	assert.InDelta(t, -1.959964, e.Z.Float64, 1e-5)
	assert.InDelta(t, 0.2/1.959964, e.SE.Float64, 1e-6)

	// p = 1 gives z = 0, so no standard error can be implied
	e = transform(t, SchemeBetaP, "SNP A1 A2 BETA P", "rs1 A T 0.1 1")
	assert.Equal(t, 0.0, e.Z.Float64)
	assert.False(t, e.SE.Valid)
}

func TestTransformRejectsBadValues(t *testing.T) {
	for _, tc := range []struct {
		scheme Scheme
		header string
		line   string
	}{
		{SchemeBeta, "SNP A1 A2 BETA", "rs1 A T NA"},
		{SchemeBetaSE, "SNP A1 A2 BETA SE", "rs1 A T 0.1 0"},
		{SchemeBetaSEToZ, "SNP A1 A2 BETA SE", "rs1 A T 0.1 -1"},
		{SchemeZ, "SNP A1 A2 Z", "rs1 A T inf"},
		{SchemeBetaSignP, "SNP A1 A2 SIGN P", "rs1 A T 1 1.5"},
		{SchemeBetaP, "SNP A1 A2 BETA P", "rs1 A T 0.1 -0.01"},
	} {
		_, err := schemeSpecs[tc.scheme].transform(formatOf(tc.header), strings.Fields(tc.line))
		assert.ErrorIs(t, err, errUnparsable, tc.line)
	}
}

func TestZFromPExtremes(t *testing.T) {
	z, err := ZFromP(0)
	require.NoError(t, err)
	assert.False(t, math.IsInf(z, 0))
	assert.Greater(t, z, 30.0)

	z, err = ZFromP(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)

	_, err = ZFromP(math.NaN())
	assert.Error(t, err)
}
