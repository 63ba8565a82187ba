package main

import "github.com/carbocation/gwasbetas/config"

// overrides copies one flag's value from src onto dst, keyed by flag name.
var overrides = map[string]func(dst, src *config.Config){
	"verbosity":         func(d, s *config.Config) { d.Verbosity = s.Verbosity },
	"model":             func(d, s *config.Config) { d.Model = s.Model },
	"gwas-folder":       func(d, s *config.Config) { d.GWASFolder = s.GWASFolder },
	"gwas-file-pattern": func(d, s *config.Config) { d.GWASFilePattern = s.GWASFilePattern },
	"output-folder":     func(d, s *config.Config) { d.OutputFolder = s.OutputFolder },
	"scheme":            func(d, s *config.Config) { d.Scheme = s.Scheme },
	"separator":         func(d, s *config.Config) { d.Separator = s.Separator },
	"compressed":        func(d, s *config.Config) { d.Compressed = s.Compressed },
	"strict":            func(d, s *config.Config) { d.Strict = s.Strict },
	"duplicates":        func(d, s *config.Config) { d.Duplicates = s.Duplicates },
	"metrics-textfile":  func(d, s *config.Config) { d.MetricsTextfile = s.MetricsTextfile },

	"snp-column":         func(d, s *config.Config) { d.Columns.SNP = s.Columns.SNP },
	"a1-column":          func(d, s *config.Config) { d.Columns.A1 = s.Columns.A1 },
	"a2-column":          func(d, s *config.Config) { d.Columns.A2 = s.Columns.A2 },
	"beta-column":        func(d, s *config.Config) { d.Columns.Beta = s.Columns.Beta },
	"or-column":          func(d, s *config.Config) { d.Columns.OR = s.Columns.OR },
	"se-column":          func(d, s *config.Config) { d.Columns.SE = s.Columns.SE },
	"beta-zscore-column": func(d, s *config.Config) { d.Columns.Z = s.Columns.Z },
	"pvalue-column":      func(d, s *config.Config) { d.Columns.PValue = s.Columns.PValue },
	"beta-sign-column":   func(d, s *config.Config) { d.Columns.Sign = s.Columns.Sign },
	"frequency-column":   func(d, s *config.Config) { d.Columns.Frequency = s.Columns.Frequency },
	"chromosome-column":  func(d, s *config.Config) { d.Columns.Chromosome = s.Columns.Chromosome },
	"position-column":    func(d, s *config.Config) { d.Columns.Position = s.Columns.Position },

	"features":             func(d, s *config.Config) { d.Genotype.Features = s.Genotype.Features },
	"metadata":             func(d, s *config.Config) { d.Genotype.Metadata = s.Genotype.Metadata },
	"variant-whitelist":    func(d, s *config.Config) { d.Genotype.VariantList = s.Genotype.VariantList },
	"individual-whitelist": func(d, s *config.Config) { d.Genotype.IndividualList = s.Genotype.IndividualList },
	"output":               func(d, s *config.Config) { d.Genotype.Output = s.Genotype.Output },
	"shape":                func(d, s *config.Config) { d.Genotype.Shape = s.Genotype.Shape },
	"parallelism":          func(d, s *config.Config) { d.Genotype.Parallelism = s.Genotype.Parallelism },
}
