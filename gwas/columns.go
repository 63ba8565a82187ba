package gwas

import (
	"strings"

	"go.uber.org/zap"
)

// Role is the meaning of a column in a summary statistics file.
type Role int

const (
	RoleSNP Role = iota
	RoleA1
	RoleA2
	RoleBeta
	RoleOR
	RoleSE
	RoleZ
	RolePValue
	RoleSign
	RoleFrequency
	RoleChromosome
	RolePosition
	numRoles
)

var roleNames = [numRoles]string{
	RoleSNP:        "snp",
	RoleA1:         "a1",
	RoleA2:         "a2",
	RoleBeta:       "beta",
	RoleOR:         "or",
	RoleSE:         "se",
	RoleZ:          "beta_zscore",
	RolePValue:     "pvalue",
	RoleSign:       "beta_sign",
	RoleFrequency:  "frequency",
	RoleChromosome: "chromosome",
	RolePosition:   "position",
}

func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return "unknown"
	}
	return roleNames[r]
}

// Columns maps each role to the literal header name used by a file. Empty
// names mean the role is not provided.
type Columns struct {
	SNP        string `toml:"snp_column"`
	A1         string `toml:"a1_column"` // reference allele (PrediXcan / plink --dosage convention)
	A2         string `toml:"a2_column"` // dosage / effect allele
	Beta       string `toml:"beta_column"`
	OR         string `toml:"or_column"`
	SE         string `toml:"se_column"`
	Z          string `toml:"beta_zscore_column"`
	PValue     string `toml:"pvalue_column"`
	Sign       string `toml:"beta_sign_column"`
	Frequency  string `toml:"frequency_column"`
	Chromosome string `toml:"chromosome_column"`
	Position   string `toml:"position_column"`
}

// DefaultColumns are the identity columns assumed when nothing else is given.
func DefaultColumns() Columns {
	return Columns{SNP: "SNP", A1: "A1", A2: "A2"}
}

func (c Columns) name(r Role) string {
	switch r {
	case RoleSNP:
		return c.SNP
	case RoleA1:
		return c.A1
	case RoleA2:
		return c.A2
	case RoleBeta:
		return c.Beta
	case RoleOR:
		return c.OR
	case RoleSE:
		return c.SE
	case RoleZ:
		return c.Z
	case RolePValue:
		return c.PValue
	case RoleSign:
		return c.Sign
	case RoleFrequency:
		return c.Frequency
	case RoleChromosome:
		return c.Chromosome
	case RolePosition:
		return c.Position
	}
	return ""
}

// Format is the resolved layout of one file: the header and the column index
// for each role, or -1 where the role is absent.
type Format struct {
	Header []string
	index  [numRoles]int
}

// NewFormat resolves configured column names against a header. Configured
// names that are not in the header leave the role absent; the caller learns
// about these through Unresolved.
func NewFormat(header []string, c Columns) *Format {
	f := &Format{Header: header}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		if _, exists := positions[h]; !exists {
			positions[h] = i
		}
	}

	for r := Role(0); r < numRoles; r++ {
		f.index[r] = -1
		name := c.name(r)
		if name == "" {
			continue
		}
		if i, exists := positions[name]; exists {
			f.index[r] = i
		}
	}

	return f
}

// Has reports whether the role resolved to a column.
func (f *Format) Has(r Role) bool {
	return f.index[r] >= 0
}

// Index returns the column index of a role, or -1.
func (f *Format) Index(r Role) int {
	return f.index[r]
}

// Roles lists the roles available in this file.
func (f *Format) Roles() []Role {
	out := make([]Role, 0, numRoles)
	for r := Role(0); r < numRoles; r++ {
		if f.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Unresolved returns the configured column names, by role, that the header
// does not contain.
func (f *Format) Unresolved(c Columns) map[Role]string {
	out := make(map[Role]string)
	for r := Role(0); r < numRoles; r++ {
		if name := c.name(r); name != "" && !f.Has(r) {
			out[r] = name
		}
	}
	return out
}

func (f *Format) logFields() []zap.Field {
	roles := f.Roles()
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String()+"="+f.Header[f.index[r]])
	}
	return []zap.Field{zap.String("columns", strings.Join(names, ","))}
}
