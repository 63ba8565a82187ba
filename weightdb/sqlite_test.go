package weightdb

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWeightDB(t *testing.T, withVarID bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.db")
	db, err := sqlx.Connect("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()

	if withVarID {
		db.MustExec(`CREATE TABLE weights (rsid TEXT, gene TEXT, weight DOUBLE, ref_allele CHARACTER, eff_allele CHARACTER, varID TEXT)`)
		db.MustExec(`INSERT INTO weights VALUES ('rs1', 'ENSG1', 0.5, 'A', 'T', 'chr1_100_A_T_b38')`)
		db.MustExec(`INSERT INTO weights VALUES ('rs2', 'ENSG1', 0.25, 'C', 'G', NULL)`)
	} else {
		db.MustExec(`CREATE TABLE weights (rsid TEXT, gene TEXT, weight DOUBLE, ref_allele CHARACTER, eff_allele CHARACTER)`)
		db.MustExec(`INSERT INTO weights VALUES ('rs1', 'ENSG1', 0.5, 'A', 'T')`)
	}

	return path
}

func TestOpenSqlite(t *testing.T) {
	idx, err := Open(writeWeightDB(t, true))
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	v, ok := idx.LookupChrPos("1", 100)
	require.True(t, ok)
	assert.Equal(t, "rs1", v.RSID)
	assert.Equal(t, Allele("T"), v.EffAllele)
}

func TestOpenSqliteWithoutVarID(t *testing.T) {
	idx, err := Open(writeWeightDB(t, false))
	require.NoError(t, err)

	v, ok := idx.Lookup("rs1")
	require.True(t, ok)
	assert.Equal(t, 0.5, v.Weights[0].Weight)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))

	var mle *ModelLoadError
	require.True(t, errors.As(err, &mle))
}
