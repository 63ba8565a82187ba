// Package config holds the settings of a gwasbetas run, read from an optional
// TOML file.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/gwasbetas/gwas"
	"github.com/carbocation/pfx"
)

type Config struct {
	// Model is the PredictDB sqlite file whose weights define the variants of
	// interest.
	Model string `toml:"model"`

	GWASFolder      string `toml:"gwas_folder"`
	GWASFilePattern string `toml:"gwas_file_pattern"`
	OutputFolder    string `toml:"output_folder"`

	// Scheme forces a beta derivation scheme; empty infers one per file.
	Scheme string `toml:"scheme"`

	// Separator is the field delimiter of the GWAS files. Empty splits on
	// whitespace and "auto" detects it per file.
	Separator string `toml:"separator"`

	Compressed bool   `toml:"compressed"`
	Strict     bool   `toml:"strict"`
	Duplicates string `toml:"duplicates"`

	Verbosity       int    `toml:"verbosity"`
	MetricsTextfile string `toml:"metrics_textfile"`

	Columns  gwas.Columns `toml:"columns"`
	Genotype Genotype     `toml:"genotype"`
}

// Genotype configures the genotype dosage loader. Features and Metadata may
// contain a {chr} placeholder.
type Genotype struct {
	Features       string `toml:"features"`
	Metadata       string `toml:"metadata"`
	VariantList    string `toml:"variant_whitelist"`
	IndividualList string `toml:"individual_whitelist"`
	Output         string `toml:"output"`
	Shape          string `toml:"shape"`
	Parallelism    int    `toml:"parallelism"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Duplicates: "last",
		Verbosity:  10,
		Columns:    gwas.DefaultColumns(),
		Genotype: Genotype{
			Shape:       "table",
			Parallelism: 1,
		},
	}
}

// Load decodes path on top of Default. Keys absent from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(gwasbetas.ExpandHome(path), &cfg)
	if err != nil {
		return cfg, pfx.Err(err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, &UnknownKeysError{Path: path, Keys: keyStrings(undecoded)}
	}

	return cfg, nil
}

type UnknownKeysError struct {
	Path string
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	return "config " + e.Path + ": unknown keys " + strings.Join(e.Keys, ", ")
}

func keyStrings(keys []toml.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}
