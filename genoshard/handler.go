// Package genoshard loads genotype dosages that may be split into one
// metadata and one feature file per chromosome, and joins the per-chromosome
// pieces into a single table keyed by individual.
package genoshard

import (
	"context"
	"fmt"
	"sort"

	"github.com/carbocation/gwasbetas"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State tracks the progress of a Handler.
type State int

const (
	StateInit State = iota
	StateMetadataLoaded
	StatePerChromosomeLoading
	StateJoining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateMetadataLoaded:
		return "metadata_loaded"
	case StatePerChromosomeLoading:
		return "per_chromosome_loading"
	case StateJoining:
		return "joining"
	case StateDone:
		return "done"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

type Options struct {
	Opener gwasbetas.Opener
	Logger *zap.Logger

	// Parallelism is the number of feature shards read at once. Values below 2
	// read them one at a time.
	Parallelism int
}

// Handler is not safe for concurrent use.
type Handler struct {
	shards  []Shard
	sharded bool
	opts    Options
	log     *zap.Logger
	state   State
}

// NewHandler resolves the metadata and feature paths. Either both contain the
// {chr} placeholder or neither does.
func NewHandler(features, metadata string, opts Options) (*Handler, error) {
	shards, sharded, err := Shards(metadata, features)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Handler{
		shards:  shards,
		sharded: sharded,
		opts:    opts,
		log:     log,
	}, nil
}

func (h *Handler) Shards() []Shard { return append([]Shard(nil), h.shards...) }

func (h *Handler) Sharded() bool { return h.sharded }

func (h *Handler) State() State { return h.state }

// LoadMetadata reads every metadata shard in chromosome order and concatenates
// their rows. Identifiers repeated across shards are kept. A non-empty
// whitelist restricts the rows to the ids it names.
func (h *Handler) LoadMetadata(ctx context.Context, whitelist []string) ([]VariantMetadata, error) {
	var allowed map[string]struct{}
	if len(whitelist) > 0 {
		allowed = toSet(whitelist)
	}

	out := make([]VariantMetadata, 0)
	for _, shard := range h.shards {
		rows, err := readMetadata(ctx, h.opts.Opener, shard.Metadata, allowed)
		if err != nil {
			return nil, &ShardReadError{Chromosome: shard.Chromosome, Path: shard.Metadata, Err: err}
		}
		h.log.Debug("Loaded metadata shard",
			zap.Int("chromosome", shard.Chromosome),
			zap.String("path", shard.Metadata),
			zap.Int("variants", len(rows)))
		out = append(out, rows...)
	}

	h.state = StateMetadataLoaded
	h.log.Info("Loaded metadata", zap.Int("shards", len(h.shards)), zap.Int("variants", len(out)))

	return out, nil
}

// LoadFeatures reads the dosages of the variants named in metadata. With a
// non-empty individuals list only those individuals are kept. When the data is
// sharded, each chromosome present in metadata is read from its own shard and
// the pieces are inner-joined on individual, in ascending chromosome order.
func (h *Handler) LoadFeatures(ctx context.Context, metadata []VariantMetadata, individuals []string) (*FeatureTable, error) {
	var allowed map[string]struct{}
	if len(individuals) > 0 {
		allowed = toSet(individuals)
	}

	if !h.sharded {
		h.state = StatePerChromosomeLoading
		shard := h.shards[0]
		table, err := readFeatures(ctx, h.opts.Opener, shard.Features, variantIDs(metadata), allowed)
		if err != nil {
			return nil, &ShardReadError{Path: shard.Features, Err: err}
		}
		h.state = StateDone
		h.logTable(table, allowed)
		return table, nil
	}

	byChromosome := make(map[int][]VariantMetadata)
	for _, row := range metadata {
		chr := gwasbetas.ChromosomeNumber(row.Chromosome)
		if chr == 0 {
			return nil, &ShardReadError{Err: fmt.Errorf("variant %s is on chromosome %q, which has no shard", row.ID, row.Chromosome)}
		}
		byChromosome[chr] = append(byChromosome[chr], row)
	}

	chromosomes := make([]int, 0, len(byChromosome))
	for chr := range byChromosome {
		chromosomes = append(chromosomes, chr)
	}
	sort.Ints(chromosomes)

	h.state = StatePerChromosomeLoading
	parts := make([]*FeatureTable, len(chromosomes))

	eg, egCtx := errgroup.WithContext(ctx)
	limit := h.opts.Parallelism
	if limit < 1 {
		limit = 1
	}
	eg.SetLimit(limit)

	for i, chr := range chromosomes {
		i, chr := i, chr
		shard := h.shards[chr-1]
		eg.Go(func() error {
			table, err := readFeatures(egCtx, h.opts.Opener, shard.Features, variantIDs(byChromosome[chr]), allowed)
			if err != nil {
				return &ShardReadError{Chromosome: chr, Path: shard.Features, Err: err}
			}
			h.log.Debug("Loaded feature shard",
				zap.Int("chromosome", chr),
				zap.String("path", shard.Features),
				zap.Int("individuals", len(table.Individuals)),
				zap.Int("variants", len(table.Variants)))
			parts[i] = table
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	h.state = StateJoining
	table, err := innerJoin(parts)
	if err != nil {
		return nil, &ShardReadError{Err: err}
	}
	h.state = StateDone
	h.logTable(table, allowed)

	return table, nil
}

// logTable also reports how many whitelisted individuals did not make it into
// the table, either because a shard lacked them or because no shard had them.
func (h *Handler) logTable(table *FeatureTable, allowed map[string]struct{}) {
	rows, cols := table.Dims()
	h.log.Info("Loaded features", zap.Int("individuals", rows), zap.Int("variants", cols))

	if allowed == nil {
		return
	}
	found := toSet(table.Individuals)
	missing := 0
	for id := range allowed {
		if _, ok := found[id]; !ok {
			missing++
		}
	}
	if missing > 0 {
		h.log.Debug("Whitelisted individuals not found",
			zap.Int("missing", missing),
			zap.Int("whitelisted", len(allowed)))
	}
}

// variantIDs lists the distinct ids of metadata in first-seen order.
func variantIDs(metadata []VariantMetadata) []string {
	seen := make(map[string]struct{}, len(metadata))
	out := make([]string, 0, len(metadata))
	for _, row := range metadata {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		out = append(out, row.ID)
	}

	return out
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}
