package weightdb

import "strings"

// Allele is a single-character-or-longer allele code.
type Allele string

// Equal compares alleles case-insensitively.
func (a Allele) Equal(b Allele) bool {
	return strings.EqualFold(string(a), string(b))
}

// Entry is one row of the weight model's weights table.
type Entry struct {
	RSID      string  `db:"rsid"`
	Gene      string  `db:"gene"`
	Weight    float64 `db:"weight"`
	RefAllele Allele  `db:"ref_allele"`
	EffAllele Allele  `db:"eff_allele"`
	VarID     string  `db:"varID"`
}

// Variant is the canonical unit of the weight model. EffAllele is the allele
// that every beta is expressed against.
type Variant struct {
	RSID       string
	Chromosome int // 0 if not known
	Position   int
	RefAllele  Allele
	EffAllele  Allele
	Weights    []Entry
}

// Orientation describes how a pair of alleles relates to a Variant.
type Orientation int

const (
	OrientationMismatch Orientation = iota
	OrientationDirect
	OrientationSwapped
)

func (o Orientation) String() string {
	switch o {
	case OrientationDirect:
		return "direct"
	case OrientationSwapped:
		return "swapped"
	}

	return "mismatch"
}

// Orient compares a reference/effect allele pair from another source against
// the variant. No strand flipping is attempted.
func (v *Variant) Orient(ref, eff Allele) Orientation {
	switch {
	case v.RefAllele.Equal(ref) && v.EffAllele.Equal(eff):
		return OrientationDirect
	case v.RefAllele.Equal(eff) && v.EffAllele.Equal(ref):
		return OrientationSwapped
	}

	return OrientationMismatch
}
