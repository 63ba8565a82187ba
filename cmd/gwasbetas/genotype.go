package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/gwasbetas/genoshard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenotypeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genotype",
		Short: "Load genotype dosages, optionally split by chromosome, into one table",
		Long: `Reads variant metadata and dosage feature files. When both paths contain
{chr}, they are expanded to chromosomes 1 through 22 and the per-chromosome
tables are inner-joined on the individual column: only individuals present in
every shard that was read are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenotype(cmd.Context(), a)
		},
	}

	f := cmd.Flags()
	g := &a.flags.Genotype
	f.StringVar(&g.Features, "features", g.Features, "Feature (dosage) file, or a template containing {chr}.")
	f.StringVar(&g.Metadata, "metadata", g.Metadata, "Variant metadata file, or a template containing {chr}.")
	f.StringVar(&g.VariantList, "variant-whitelist", g.VariantList, "File with one variant id per line. Only these variants are loaded.")
	f.StringVar(&g.IndividualList, "individual-whitelist", g.IndividualList, "File with one individual id per line. Only these individuals are kept.")
	f.StringVar(&g.Output, "output", g.Output, "Output file. Empty writes to stdout.")
	f.StringVar(&g.Shape, "shape", g.Shape, "Output shape: table (tab-delimited) or keyed (JSON by column).")
	f.IntVar(&g.Parallelism, "parallelism", g.Parallelism, "Feature shards to read at once.")

	return cmd
}

func runGenotype(ctx context.Context, a *app) (err error) {
	g := a.cfg.Genotype
	if g.Features == "" || g.Metadata == "" {
		return fmt.Errorf("--features and --metadata are both required")
	}

	shape, err := genoshard.ParseShape(g.Shape)
	if err != nil {
		return err
	}

	opener, err := gwasbetas.NewOpener(ctx, g.Features, g.Metadata, g.VariantList, g.IndividualList)
	if err != nil {
		return err
	}
	defer opener.Close()

	variants, err := readIDList(ctx, opener, g.VariantList)
	if err != nil {
		return err
	}
	individuals, err := readIDList(ctx, opener, g.IndividualList)
	if err != nil {
		return err
	}

	h, err := genoshard.NewHandler(g.Features, g.Metadata, genoshard.Options{
		Opener:      opener,
		Logger:      a.log,
		Parallelism: g.Parallelism,
	})
	if err != nil {
		return err
	}

	a.log.Debug("Resolved genotype shards", zap.Int("shards", len(h.Shards())), zap.Bool("sharded", h.Sharded()))

	metadata, err := h.LoadMetadata(ctx, variants)
	if err != nil {
		return err
	}

	table, err := h.LoadFeatures(ctx, metadata, individuals)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if g.Output != "" {
		out, cerr := os.Create(gwasbetas.ExpandHome(g.Output))
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = out
	}

	return table.Write(w, shape)
}

// readIDList returns the non-blank lines of path, or nil if path is empty.
func readIDList(ctx context.Context, opener gwasbetas.Opener, path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	rc, err := gwasbetas.MaybeDecompressReadCloser(raw, false)
	if err != nil {
		raw.Close()
		return nil, err
	}
	defer rc.Close()

	out := make([]string, 0)
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			out = append(out, id)
		}
	}

	return out, scanner.Err()
}
