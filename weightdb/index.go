package weightdb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/gwasbetas"
)

// Index is a read-only lookup from variant identifier to Variant. Once built
// it is safe for concurrent use.
type Index struct {
	byRSID   map[string]*Variant
	byChrPos map[string]*Variant
	genes    map[string]struct{}
}

// NewIndex builds an Index from weight model entries. Entries that share an
// RSID (one per gene) are merged into a single Variant; they must agree on the
// allele pair.
func NewIndex(entries []Entry) (*Index, error) {
	idx := &Index{
		byRSID:   make(map[string]*Variant),
		byChrPos: make(map[string]*Variant),
		genes:    make(map[string]struct{}),
	}

	for i, e := range entries {
		if e.RSID == "" {
			return nil, &ModelLoadError{Err: fmt.Errorf("entry %d has no rsid", i)}
		}
		if e.RefAllele == "" || e.EffAllele == "" {
			return nil, &ModelLoadError{Err: fmt.Errorf("entry %d (%s) is missing an allele", i, e.RSID)}
		}

		if e.Gene != "" {
			idx.genes[e.Gene] = struct{}{}
		}

		if v, exists := idx.byRSID[e.RSID]; exists {
			if !v.RefAllele.Equal(e.RefAllele) || !v.EffAllele.Equal(e.EffAllele) {
				return nil, &ModelLoadError{Err: fmt.Errorf("%s has alleles %s/%s for gene %s but %s/%s elsewhere",
					e.RSID, e.RefAllele, e.EffAllele, e.Gene, v.RefAllele, v.EffAllele)}
			}
			v.Weights = append(v.Weights, e)
			continue
		}

		v := &Variant{
			RSID:      e.RSID,
			RefAllele: e.RefAllele,
			EffAllele: e.EffAllele,
			Weights:   []Entry{e},
		}
		v.Chromosome, v.Position = parseVarID(e.VarID)
		if v.Chromosome == 0 {
			// Some models use chr:pos identifiers in place of rsids
			v.Chromosome, v.Position = parseChrPos(e.RSID)
		}

		idx.byRSID[e.RSID] = v
		if v.Chromosome != 0 && v.Position > 0 {
			idx.byChrPos[gwasbetas.ChrPosKey(strconv.Itoa(v.Chromosome), v.Position)] = v
		}
	}

	return idx, nil
}

// Lookup returns the variant with the given identifier.
func (idx *Index) Lookup(rsid string) (*Variant, bool) {
	v, ok := idx.byRSID[rsid]
	return v, ok
}

// LookupChrPos returns the variant at a chromosomal position, if the weight
// model carries positions.
func (idx *Index) LookupChrPos(chromosome string, position int) (*Variant, bool) {
	v, ok := idx.byChrPos[gwasbetas.ChrPosKey(chromosome, position)]
	return v, ok
}

// Len is the number of distinct variants.
func (idx *Index) Len() int {
	return len(idx.byRSID)
}

// Genes returns the sorted names of the genes (model features) in the model.
func (idx *Index) Genes() []string {
	out := make([]string, 0, len(idx.genes))
	for g := range idx.genes {
		out = append(out, g)
	}
	sort.Strings(out)

	return out
}

// parseVarID understands PredictDB variant ids such as chr1_12345_A_G_b38.
func parseVarID(varID string) (chromosome, position int) {
	parts := strings.Split(varID, "_")
	if len(parts) < 2 {
		return 0, 0
	}

	return chrPos(parts[0], parts[1])
}

// parseChrPos understands identifiers such as 1:12345 or chr1:12345:A:G.
func parseChrPos(id string) (chromosome, position int) {
	parts := strings.Split(id, ":")
	if len(parts) < 2 {
		return 0, 0
	}

	return chrPos(parts[0], parts[1])
}

func chrPos(chrom, pos string) (int, int) {
	c := gwasbetas.ChromosomeNumber(chrom)
	p, err := strconv.Atoi(pos)
	if c == 0 || err != nil || p <= 0 {
		return 0, 0
	}

	return c, p
}
