package gwas

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports per-file Counters in the prometheus text format, suitable
// for a node exporter textfile collector.
type Metrics struct {
	registry *prometheus.Registry
	lines    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gwasbetas",
			Name:      "lines_total",
			Help:      "GWAS lines by input file and outcome.",
		}, []string{"file", "outcome"}),
	}
	m.registry.MustRegister(m.lines)

	return m
}

// Observe adds the counters of one file.
func (m *Metrics) Observe(file string, c Counters) {
	for outcome, n := range map[string]int{
		"matched":         c.Matched,
		"allele_mismatch": c.AlleleMismatch,
		"not_in_model":    c.NotInModel,
		"unparsable":      c.Unparsable,
		"malformed":       c.Malformed,
		"duplicate":       c.Duplicates,
	} {
		m.lines.WithLabelValues(file, outcome).Add(float64(n))
	}
}

// WriteTextfile atomically writes all observed metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
