package gwas

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Scheme is the closed set of ways to derive a standardized beta from the
// columns of a summary statistics file.
type Scheme int

const (
	SchemeNone Scheme = iota
	SchemeBeta
	SchemeBetaSE
	SchemeBetaSEToZ
	SchemeZ
	SchemeBetaSignP
	SchemeBetaP
)

type schemeSpec struct {
	name string

	// Each inner slice is satisfied by any one of its roles
	requires [][]Role

	transform func(f *Format, fields []string) (estimate, error)
}

var effectRoles = []Role{RoleBeta, RoleOR}

var schemeSpecs = map[Scheme]schemeSpec{
	SchemeBeta: {
		name:      "beta",
		requires:  [][]Role{effectRoles},
		transform: transformBeta,
	},
	SchemeBetaSE: {
		name:      "beta_se",
		requires:  [][]Role{effectRoles, {RoleSE}},
		transform: transformBetaSE,
	},
	SchemeBetaSEToZ: {
		name:      "beta_se_to_z",
		requires:  [][]Role{effectRoles, {RoleSE}},
		transform: transformBetaSEToZ,
	},
	SchemeZ: {
		name:      "z",
		requires:  [][]Role{{RoleZ}},
		transform: transformZ,
	},
	SchemeBetaSignP: {
		name:      "beta_sign_p",
		requires:  [][]Role{{RoleSign}, {RolePValue}},
		transform: transformBetaSignP,
	},
	SchemeBetaP: {
		name:      "beta_p",
		requires:  [][]Role{effectRoles, {RolePValue}},
		transform: transformBetaP,
	},
}

// inferenceOrder is the preference used when no scheme is requested: schemes
// that keep more information come first, and a standard error outranks a
// p-value. beta_se_to_z changes what is written, so it is never inferred.
var inferenceOrder = []Scheme{SchemeBetaSE, SchemeBetaP, SchemeZ, SchemeBetaSignP, SchemeBeta}

var identityRoles = []Role{RoleSNP, RoleA1, RoleA2}

func (s Scheme) String() string {
	if spec, ok := schemeSpecs[s]; ok {
		return spec.name
	}
	return "none"
}

// SchemeNames lists the valid scheme names.
func SchemeNames() string {
	names := make([]string, 0, len(schemeSpecs))
	for s := SchemeBeta; s <= SchemeBetaP; s++ {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// ParseScheme returns the scheme with the given name.
func ParseScheme(name string) (Scheme, error) {
	for s, spec := range schemeSpecs {
		if spec.name == name {
			return s, nil
		}
	}
	return SchemeNone, &SchemeValidationError{Scheme: name}
}

// missing returns the description of every requirement of s that f does not
// satisfy, including the identity columns every scheme needs.
func (s Scheme) missing(f *Format) []string {
	out := identityGap(f)

Requirements:
	for _, alternatives := range schemeSpecs[s].requires {
		names := make([]string, 0, len(alternatives))
		for _, r := range alternatives {
			if f.Has(r) {
				continue Requirements
			}
			names = append(names, r.String())
		}
		out = append(out, strings.Join(names, " or "))
	}

	return out
}

// ResolveScheme picks the scheme for one file. An explicit scheme name is
// validated against the available columns; otherwise the most informative
// satisfiable scheme is chosen.
func ResolveScheme(f *Format, explicit string) (Scheme, error) {
	if explicit != "" {
		s, err := ParseScheme(explicit)
		if err != nil {
			return SchemeNone, err
		}
		if missing := s.missing(f); len(missing) > 0 {
			return SchemeNone, &SchemeValidationError{Scheme: explicit, Missing: missing}
		}
		return s, nil
	}

	for _, s := range inferenceOrder {
		if len(s.missing(f)) == 0 {
			return s, nil
		}
	}

	// Missing identity columns make every scheme unsatisfiable, and that
	// deserves its own message.
	if gap := identityGap(f); len(gap) > 0 {
		return SchemeNone, &SchemeValidationError{Scheme: "any", Missing: gap}
	}

	roles := f.Roles()
	available := make([]string, 0, len(roles))
	for _, r := range roles {
		available = append(available, r.String())
	}
	return SchemeNone, &AmbiguousSchemeError{Available: available}
}

func identityGap(f *Format) []string {
	out := make([]string, 0)
	for _, r := range identityRoles {
		if !f.Has(r) {
			out = append(out, r.String())
		}
	}
	return out
}

// estimate is what a transform derives from one line, before orientation.
type estimate struct {
	Beta float64
	SE   null.Float
	Z    null.Float
}

func parseRole(f *Format, fields []string, r Role) (float64, error) {
	raw := strings.TrimSpace(fields[f.Index(r)])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q: %w", r, raw, errUnparsable)
	}
	return v, nil
}

// parseEffect reads the beta column, or the natural log of the odds ratio when
// only that is present.
func parseEffect(f *Format, fields []string) (float64, error) {
	if f.Has(RoleBeta) {
		return parseRole(f, fields, RoleBeta)
	}

	or, err := parseRole(f, fields, RoleOR)
	if err != nil {
		return 0, err
	}
	if or <= 0 {
		return 0, fmt.Errorf("odds ratio %v: %w", or, errUnparsable)
	}
	return math.Log(or), nil
}

func parseSE(f *Format, fields []string) (float64, error) {
	se, err := parseRole(f, fields, RoleSE)
	if err != nil {
		return 0, err
	}
	if se <= 0 {
		return 0, fmt.Errorf("standard error %v: %w", se, errUnparsable)
	}
	return se, nil
}

func parseP(f *Format, fields []string) (float64, error) {
	p, err := parseRole(f, fields, RolePValue)
	if err != nil {
		return 0, err
	}
	z, err := ZFromP(p)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, errUnparsable)
	}
	return z, nil
}

func parseSign(f *Format, fields []string) (float64, error) {
	switch raw := strings.TrimSpace(fields[f.Index(RoleSign)]); raw {
	case "+":
		return 1, nil
	case "-":
		return -1, nil
	}

	v, err := parseRole(f, fields, RoleSign)
	if err != nil {
		return 0, err
	}
	switch {
	case v > 0:
		return 1, nil
	case v < 0:
		return -1, nil
	}
	return 0, nil
}

func transformBeta(f *Format, fields []string) (estimate, error) {
	beta, err := parseEffect(f, fields)
	if err != nil {
		return estimate{}, err
	}
	return estimate{Beta: beta}, nil
}

func transformBetaSE(f *Format, fields []string) (estimate, error) {
	beta, err := parseEffect(f, fields)
	if err != nil {
		return estimate{}, err
	}
	se, err := parseSE(f, fields)
	if err != nil {
		return estimate{}, err
	}
	return estimate{Beta: beta, SE: null.FloatFrom(se)}, nil
}

func transformBetaSEToZ(f *Format, fields []string) (estimate, error) {
	e, err := transformBetaSE(f, fields)
	if err != nil {
		return estimate{}, err
	}
	z := e.Beta / e.SE.Float64
	return estimate{Beta: z, Z: null.FloatFrom(z)}, nil
}

func transformZ(f *Format, fields []string) (estimate, error) {
	z, err := parseRole(f, fields, RoleZ)
	if err != nil {
		return estimate{}, err
	}
	return estimate{Beta: z, Z: null.FloatFrom(z)}, nil
}

func transformBetaSignP(f *Format, fields []string) (estimate, error) {
	sign, err := parseSign(f, fields)
	if err != nil {
		return estimate{}, err
	}
	z, err := parseP(f, fields)
	if err != nil {
		return estimate{}, err
	}
	z *= sign
	return estimate{Beta: z, Z: null.FloatFrom(z)}, nil
}

func transformBetaP(f *Format, fields []string) (estimate, error) {
	beta, err := parseEffect(f, fields)
	if err != nil {
		return estimate{}, err
	}
	z, err := parseP(f, fields)
	if err != nil {
		return estimate{}, err
	}
	if beta < 0 {
		z = -z
	}

	e := estimate{Beta: beta, Z: null.FloatFrom(z)}
	if z != 0 {
		e.SE = null.FloatFrom(math.Abs(beta / z))
	}
	return e, nil
}
