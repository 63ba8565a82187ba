package gwas

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// BetaRecord is the standardized result for one variant. Beta (and Z) are
// expressed relative to the weight model's effect allele.
type BetaRecord struct {
	RSID      string
	Beta      float64
	SE        null.Float
	Z         null.Float
	Frequency null.Float
}

// DuplicatePolicy decides what happens when an identifier appears twice in
// one input file.
type DuplicatePolicy int

const (
	// LastWins replaces the earlier record, as a keyed overwrite would.
	LastWins DuplicatePolicy = iota
	// FirstWins keeps the earlier record.
	FirstWins
)

// ParseDuplicatePolicy accepts "last" (or "") and "first".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "last":
		return LastWins, nil
	case "first":
		return FirstWins, nil
	}
	return LastWins, fmt.Errorf("unknown duplicate policy %q; expected last or first", s)
}

// ResultSet holds the BetaRecords of one input file keyed by RSID, in the
// order each RSID was first seen.
type ResultSet struct {
	order   []string
	records map[string]BetaRecord
}

func NewResultSet() *ResultSet {
	return &ResultSet{records: make(map[string]BetaRecord)}
}

// Put stores rec under its RSID. It reports whether an earlier record with the
// same RSID existed; policy decides which of the two is kept.
func (rs *ResultSet) Put(rec BetaRecord, policy DuplicatePolicy) (duplicate bool) {
	if _, exists := rs.records[rec.RSID]; exists {
		if policy == LastWins {
			rs.records[rec.RSID] = rec
		}
		return true
	}

	rs.order = append(rs.order, rec.RSID)
	rs.records[rec.RSID] = rec
	return false
}

func (rs *ResultSet) Get(rsid string) (BetaRecord, bool) {
	rec, ok := rs.records[rsid]
	return rec, ok
}

func (rs *ResultSet) Len() int {
	return len(rs.order)
}

// Records returns the records in first-seen order.
func (rs *ResultSet) Records() []BetaRecord {
	out := make([]BetaRecord, 0, len(rs.order))
	for _, id := range rs.order {
		out = append(out, rs.records[id])
	}
	return out
}
