package main

import (
	"context"
	"fmt"
	"regexp"

	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/gwasbetas/gwas"
	"github.com/carbocation/gwasbetas/keyedset"
	"github.com/carbocation/gwasbetas/weightdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBetasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "betas",
		Short: "Build one file of model-aligned betas per GWAS file",
		Long: `Reads every file of --gwas-folder, works out from its header how a beta can
be derived (or uses --scheme), and writes the betas of the variants present in
the --model weights to --output-folder, one file per input. Inputs whose
output already exists are skipped.

Schemes: ` + gwas.SchemeNames() + `. Without --scheme the first
one the header supports is used, in the order beta_se, beta_p, z, beta_sign_p,
beta.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBetas(cmd.Context(), a)
		},
	}

	f := cmd.Flags()
	c := &a.flags
	f.StringVar(&c.Model, "model", c.Model, "PredictDB sqlite file with the weights of the model.")
	f.StringVar(&c.GWASFolder, "gwas-folder", c.GWASFolder, "Folder with the GWAS summary statistics files. May be gs:// or s3://.")
	f.StringVar(&c.GWASFilePattern, "gwas-file-pattern", c.GWASFilePattern, "Regular expression that file names in --gwas-folder must match.")
	f.StringVar(&c.OutputFolder, "output-folder", c.OutputFolder, "Local folder for the output files.")
	f.StringVar(&c.Scheme, "scheme", c.Scheme, "Force a beta derivation scheme instead of inferring one per file.")
	f.StringVar(&c.Separator, "separator", c.Separator, `Field delimiter of the GWAS files. Empty splits on whitespace; "auto" detects it.`)
	f.BoolVar(&c.Compressed, "compressed", c.Compressed, "Read the GWAS files as gzip regardless of their contents.")
	f.BoolVar(&c.Strict, "strict", c.Strict, "Stop at the first GWAS file that cannot be processed.")
	f.StringVar(&c.Duplicates, "duplicates", c.Duplicates, "Which record to keep when an rsid repeats within a file: last or first.")
	f.StringVar(&c.MetricsTextfile, "metrics-textfile", c.MetricsTextfile, "Write per-file line counters here in the prometheus text format.")

	cols := &c.Columns
	f.StringVar(&cols.SNP, "snp-column", cols.SNP, "Column with the variant rsid.")
	f.StringVar(&cols.A1, "a1-column", cols.A1, "Column with the reference allele.")
	f.StringVar(&cols.A2, "a2-column", cols.A2, "Column with the effect allele.")
	f.StringVar(&cols.Beta, "beta-column", cols.Beta, "Column with the effect size.")
	f.StringVar(&cols.OR, "or-column", cols.OR, "Column with the odds ratio. Ignored when the beta column is present.")
	f.StringVar(&cols.SE, "se-column", cols.SE, "Column with the standard error of the effect size.")
	f.StringVar(&cols.Z, "beta-zscore-column", cols.Z, "Column with the z-score of the effect size.")
	f.StringVar(&cols.PValue, "pvalue-column", cols.PValue, "Column with the p-value.")
	f.StringVar(&cols.Sign, "beta-sign-column", cols.Sign, "Column with the sign of the effect (+/- or a number).")
	f.StringVar(&cols.Frequency, "frequency-column", cols.Frequency, "Column with the effect allele frequency, copied to the output.")
	f.StringVar(&cols.Chromosome, "chromosome-column", cols.Chromosome, "Column with the chromosome, used with --position-column when the rsid is unknown to the model.")
	f.StringVar(&cols.Position, "position-column", cols.Position, "Column with the base pair position.")

	return cmd
}

func runBetas(ctx context.Context, a *app) error {
	cfg := a.cfg
	if cfg.Model == "" || cfg.GWASFolder == "" || cfg.OutputFolder == "" {
		return fmt.Errorf("--model, --gwas-folder and --output-folder are all required")
	}

	var pattern *regexp.Regexp
	if cfg.GWASFilePattern != "" {
		var err error
		if pattern, err = regexp.Compile(cfg.GWASFilePattern); err != nil {
			return fmt.Errorf("--gwas-file-pattern: %w", err)
		}
	}

	duplicates, err := gwas.ParseDuplicatePolicy(cfg.Duplicates)
	if err != nil {
		return err
	}

	// An invalid explicit scheme is an error for every file, so reject it up front
	if cfg.Scheme != "" {
		if _, err := gwas.ParseScheme(cfg.Scheme); err != nil {
			return err
		}
	}

	a.log.Info("Loading model", zap.String("model", cfg.Model))
	index, err := weightdb.Open(cfg.Model)
	if err != nil {
		return err
	}
	a.log.Info("Loaded model", zap.Int("variants", index.Len()), zap.Int("genes", len(index.Genes())))

	opener, err := gwasbetas.NewOpener(ctx, cfg.GWASFolder)
	if err != nil {
		return err
	}
	defer opener.Close()

	var metrics *gwas.Metrics
	if cfg.MetricsTextfile != "" {
		metrics = gwas.NewMetrics()
	}

	p := &gwas.Pipeline{
		Loader: &gwas.Loader{
			Index:  index,
			Opener: opener,
			Options: gwas.Options{
				Columns:    cfg.Columns,
				Scheme:     cfg.Scheme,
				Separator:  cfg.Separator,
				Compressed: cfg.Compressed,
				Duplicates: duplicates,
			},
			Logger: a.log,
		},
		Sink:         keyedset.Writer{},
		GWASFolder:   cfg.GWASFolder,
		Pattern:      pattern,
		OutputFolder: gwasbetas.ExpandHome(cfg.OutputFolder),
		Strict:       cfg.Strict,
		Metrics:      metrics,
	}

	summary, runErr := p.Run(ctx)
	a.log.Info("Done",
		append([]zap.Field{
			zap.Int("processed", summary.Processed),
			zap.Int("skipped", summary.Skipped),
			zap.Int("failed", summary.Failed),
		}, summary.Counters.Fields()...)...)

	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			a.log.Error("Could not write metrics", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}

	return runErr
}
