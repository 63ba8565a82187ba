package gwas

import (
	"context"

	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/gwasbetas/weightdb"
	"go.uber.org/zap"
)

// Options describe how the summary statistics files of one study are laid
// out and processed.
type Options struct {
	Columns    Columns
	Scheme     string // empty to infer per file
	Separator  string // empty for any whitespace
	Compressed bool   // force gzip
	Duplicates DuplicatePolicy
}

// Loader drives a Processor over every line of a file.
type Loader struct {
	Index   *weightdb.Index
	Opener  gwasbetas.Opener
	Options Options
	Logger  *zap.Logger
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Load reads path, resolves its scheme and returns the betas of every line
// that matched the weight model. Scheme errors are returned before any line is
// processed.
func (l *Loader) Load(ctx context.Context, path string) (*ResultSet, Counters, error) {
	var c Counters
	log := l.logger().With(zap.String("file", path))

	r, err := OpenReader(ctx, l.Opener, path, l.Options.Compressed, l.Options.Separator)
	if err != nil {
		return nil, c, err
	}
	defer r.Close()

	format := NewFormat(r.Header(), l.Options.Columns)
	for role, name := range format.Unresolved(l.Options.Columns) {
		log.Debug("Configured column not found in header", zap.Stringer("role", role), zap.String("column", name))
	}

	scheme, err := ResolveScheme(format, l.Options.Scheme)
	if err != nil {
		return nil, c, err
	}
	proc := NewProcessor(l.Index, format, scheme, l.Options.Duplicates)
	log.Info("Processing GWAS file", append(format.logFields(), zap.Stringer("scheme", proc.Scheme()))...)
	rs := NewResultSet()
	for r.Next() {
		proc.Process(r.Fields(), rs, &c)
	}
	c.Malformed = r.Malformed()
	if err := r.Err(); err != nil {
		return nil, c, err
	}

	return rs, c, nil
}
