package gwas

import (
	"errors"
	"fmt"
	"strings"
)

// SchemeValidationError means a scheme cannot be used with a file, either
// because the name is not a known scheme or because columns it needs are
// missing.
type SchemeValidationError struct {
	Scheme  string
	Missing []string
}

func (e *SchemeValidationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("unknown scheme %q; valid schemes are: %s", e.Scheme, SchemeNames())
	}
	return fmt.Sprintf("scheme %s requires columns that are not available: %s", e.Scheme, strings.Join(e.Missing, ", "))
}

// AmbiguousSchemeError means no scheme could be inferred for a file because
// no beta or beta-equivalent input is present.
type AmbiguousSchemeError struct {
	Available []string
}

func (e *AmbiguousSchemeError) Error() string {
	return fmt.Sprintf("could not infer a scheme: no beta, odds ratio, z-score or sign+p-value columns among available roles [%s]", strings.Join(e.Available, ", "))
}

// errUnparsable marks a record whose required numeric value could not be read.
var errUnparsable = errors.New("unparsable numeric value")
