package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/gwasbetas/keyedset"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"
)

func writeModel(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.db")
	db, err := sqlx.Connect("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(`CREATE TABLE weights (rsid TEXT, gene TEXT, weight DOUBLE, ref_allele CHARACTER, eff_allele CHARACTER)`)
	db.MustExec(`INSERT INTO weights VALUES ('rs1', 'ENSG1', 0.5, 'A', 'T')`)
	db.MustExec(`INSERT INTO weights VALUES ('rs2', 'ENSG2', 0.1, 'C', 'G')`)

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestBetasCommand(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "study.txt"),
		[]byte("SNP A1 A2 BETA SE\nrs1 T A 0.5 0.1\nrs2 C G 0.2 0.1\nrs9 A G 1 1\n"), 0o644))
	outDir := filepath.Join(t.TempDir(), "out")
	metrics := filepath.Join(t.TempDir(), "gwasbetas.prom")

	_, err := execute(t, "betas",
		"--verbosity", "40",
		"--model", writeModel(t),
		"--gwas-folder", in,
		"--output-folder", outDir,
		"--beta-column", "BETA",
		"--se-column", "SE",
		"--metrics-textfile", metrics)
	require.NoError(t, err)

	got, err := keyedset.Read(filepath.Join(outDir, "study.txt"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// rs1 is reported with its alleles swapped relative to the model
	assert.Equal(t, "rs1", got[0].RSID)
	assert.Equal(t, -0.5, got[0].Beta)
	assert.Equal(t, 0.2, got[1].Beta)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `gwasbetas_lines_total{file="study.txt",outcome="matched"} 2`)
}

func TestBetasStrictFailsOnBadFile(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "study.txt"), []byte("SNP A1 A2 P\nrs1 A T 0.1\n"), 0o644))

	args := []string{"betas",
		"--verbosity", "40",
		"--model", writeModel(t),
		"--gwas-folder", in,
		"--output-folder", t.TempDir(),
	}

	_, err := execute(t, args...)
	assert.NoError(t, err)

	_, err = execute(t, append(args, "--strict")...)
	assert.Error(t, err)
}

func TestBetasRejectsUnknownScheme(t *testing.T) {
	_, err := execute(t, "betas",
		"--verbosity", "40",
		"--model", writeModel(t),
		"--gwas-folder", t.TempDir(),
		"--output-folder", t.TempDir(),
		"--scheme", "nope")
	assert.Error(t, err)
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("verbosity = 30\n[genotype]\nshape = \"keyed\"\n"), 0o644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.tsv"), []byte("id\tchromosome\nv1\t1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feat.tsv"), []byte("individual\tv1\n1\t2\n"), 0o644))
	out := filepath.Join(dir, "out.tsv")

	_, err := execute(t, "genotype",
		"--config", cfgPath,
		"--verbosity", "40",
		"--features", filepath.Join(dir, "feat.tsv"),
		"--metadata", filepath.Join(dir, "meta.tsv"),
		"--shape", "table",
		"--output", out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "individual\tv1\n1\t2\n", string(got))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--verbosity", "40")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "built with"))
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, verbosityLevel(10))
	assert.Equal(t, zapcore.InfoLevel, verbosityLevel(20))
	assert.Equal(t, zapcore.WarnLevel, verbosityLevel(30))
	assert.Equal(t, zapcore.ErrorLevel, verbosityLevel(40))
}

func TestEveryFlagHasAnOverride(t *testing.T) {
	root := newRootCmd()
	for _, cmd := range root.Commands() {
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || f.Name == "help" {
				return
			}
			_, ok := overrides[f.Name]
			assert.True(t, ok, "--%s", f.Name)
		})
	}
}
