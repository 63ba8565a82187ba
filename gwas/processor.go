package gwas

import (
	"strconv"
	"strings"

	"github.com/carbocation/gwasbetas/weightdb"
	"gopkg.in/guregu/null.v3"
)

// Processor reconciles single lines of a summary statistics file against the
// weight model. A Processor belongs to one file and is not safe for concurrent
// use; the Index it reads may be shared.
type Processor struct {
	index      *weightdb.Index
	format     *Format
	scheme     Scheme
	duplicates DuplicatePolicy
}

func NewProcessor(index *weightdb.Index, format *Format, scheme Scheme, duplicates DuplicatePolicy) *Processor {
	return &Processor{
		index:      index,
		format:     format,
		scheme:     scheme,
		duplicates: duplicates,
	}
}

func (p *Processor) Scheme() Scheme {
	return p.scheme
}

// Process handles one line's fields. Records that cannot be used are counted
// and dropped; nothing escapes as an error.
func (p *Processor) Process(fields []string, rs *ResultSet, c *Counters) {
	c.Lines++

	variant, ok := p.lookup(fields)
	if !ok {
		c.NotInModel++
		return
	}

	a1 := weightdb.Allele(strings.TrimSpace(fields[p.format.Index(RoleA1)]))
	a2 := weightdb.Allele(strings.TrimSpace(fields[p.format.Index(RoleA2)]))
	orientation := variant.Orient(a1, a2)
	if orientation == weightdb.OrientationMismatch {
		c.AlleleMismatch++
		return
	}

	est, err := schemeSpecs[p.scheme].transform(p.format, fields)
	if err != nil {
		c.Unparsable++
		return
	}

	if orientation == weightdb.OrientationSwapped {
		est.Beta = -est.Beta
		if est.Z.Valid {
			est.Z.Float64 = -est.Z.Float64
		}
	}

	rec := BetaRecord{
		RSID: variant.RSID,
		Beta: est.Beta,
		SE:   est.SE,
		Z:    est.Z,
	}
	if p.format.Has(RoleFrequency) {
		if freq, err := parseRole(p.format, fields, RoleFrequency); err == nil {
			rec.Frequency = null.FloatFrom(freq)
		}
	}

	c.Matched++
	if rs.Put(rec, p.duplicates) {
		c.Duplicates++
	}
}

// lookup finds the variant by identifier, then by chromosome and position when
// the file has those columns.
func (p *Processor) lookup(fields []string) (*weightdb.Variant, bool) {
	id := strings.TrimSpace(fields[p.format.Index(RoleSNP)])
	if v, ok := p.index.Lookup(id); ok {
		return v, true
	}

	if !p.format.Has(RoleChromosome) || !p.format.Has(RolePosition) {
		return nil, false
	}
	pos, err := strconv.Atoi(strings.TrimSpace(fields[p.format.Index(RolePosition)]))
	if err != nil {
		return nil, false
	}
	return p.index.LookupChrPos(fields[p.format.Index(RoleChromosome)], pos)
}
