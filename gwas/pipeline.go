package gwas

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/pfx"
	"go.uber.org/zap"
)

// Sink persists the ResultSet of one input file.
type Sink interface {
	Write(path string, rs *ResultSet) error
}

// Pipeline builds one output file of betas per GWAS input file in a folder.
// Files whose output already exists are skipped, so an interrupted run can be
// resumed by running it again.
type Pipeline struct {
	Loader       *Loader
	Sink         Sink
	GWASFolder   string
	Pattern      *regexp.Regexp // nil selects every file
	OutputFolder string

	// Strict stops the run at the first file that fails. Otherwise the failure
	// is logged and the next file is processed.
	Strict bool

	Metrics *Metrics // optional
}

// Summary describes a completed Run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Counters  Counters
}

// Run processes the input files one after another.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var s Summary
	log := p.Loader.logger()

	names, err := p.Loader.Opener.List(ctx, p.GWASFolder, p.Pattern)
	if err != nil {
		return s, err
	}
	log.Info("Found GWAS files", zap.String("folder", p.GWASFolder), zap.Int("files", len(names)))

	if err := os.MkdirAll(p.OutputFolder, 0o755); err != nil {
		return s, pfx.Err(err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		written, c, err := p.BuildBetas(ctx, name)
		if err != nil {
			s.Failed++
			if p.Strict {
				return s, fmt.Errorf("%s: %w", name, err)
			}
			log.Error("Skipping GWAS file", zap.String("file", name), zap.Error(err))
			continue
		}
		if !written {
			s.Skipped++
			continue
		}

		s.Processed++
		s.Counters.Add(c)
	}

	return s, nil
}

// BuildBetas processes a single file of the GWAS folder. It reports false,
// without reading the input, if the output already exists.
func (p *Pipeline) BuildBetas(ctx context.Context, name string) (bool, Counters, error) {
	log := p.Loader.logger()

	outputPath := filepath.Join(p.OutputFolder, name)
	if _, err := os.Stat(outputPath); err == nil {
		log.Info("Output already exists, delete it if you want it to be done again", zap.String("output", outputPath))
		return false, Counters{}, nil
	}

	inputPath := gwasbetas.JoinPath(p.GWASFolder, name)
	rs, c, err := p.Loader.Load(ctx, inputPath)
	if err != nil {
		return false, c, err
	}

	if err := p.Sink.Write(outputPath, rs); err != nil {
		return false, c, err
	}

	fields := append([]zap.Field{zap.String("file", name), zap.String("output", outputPath)}, c.Fields()...)
	if d, err := Summarize(rs); err == nil {
		fields = append(fields, d.Fields()...)
	}
	log.Info("Built betas", fields...)
	if p.Metrics != nil {
		p.Metrics.Observe(name, c)
	}

	return true, c, nil
}
