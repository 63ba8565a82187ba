package gwas

import "go.uber.org/zap"

// Counters tallies what happened to the lines of one or more input files.
// They are diagnostic only.
type Counters struct {
	Lines          int
	Matched        int
	AlleleMismatch int
	NotInModel     int
	Unparsable     int
	Malformed      int
	Duplicates     int
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.Lines += o.Lines
	c.Matched += o.Matched
	c.AlleleMismatch += o.AlleleMismatch
	c.NotInModel += o.NotInModel
	c.Unparsable += o.Unparsable
	c.Malformed += o.Malformed
	c.Duplicates += o.Duplicates
}

// Fields renders the counters for structured logging.
func (c Counters) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("lines", c.Lines),
		zap.Int("matched", c.Matched),
		zap.Int("allele_mismatch", c.AlleleMismatch),
		zap.Int("not_in_model", c.NotInModel),
		zap.Int("unparsable", c.Unparsable),
		zap.Int("malformed", c.Malformed),
		zap.Int("duplicates", c.Duplicates),
	}
}
