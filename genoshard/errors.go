package genoshard

import "fmt"

// PathTemplateError reports a shard path whose placeholder is not {chr}, or a
// metadata/feature pair that disagrees on whether it is sharded.
type PathTemplateError struct {
	Path   string
	Reason string
}

func (e *PathTemplateError) Error() string {
	return fmt.Sprintf("path template %q: %s", e.Path, e.Reason)
}

// ShardReadError aborts a whole load. Chromosome is 0 for a non-sharded path.
type ShardReadError struct {
	Chromosome int
	Path       string
	Err        error
}

func (e *ShardReadError) Error() string {
	if e.Chromosome == 0 {
		return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
	}

	return fmt.Sprintf("reading chromosome %d shard %s: %v", e.Chromosome, e.Path, e.Err)
}

func (e *ShardReadError) Unwrap() error { return e.Err }
