package gwas

import (
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"
)

// chi2Median is the median of a 1 degree of freedom chi-square distribution.
var chi2Median = distuv.ChiSquared{K: 1}.Quantile(0.5)

// Distribution summarizes the matched betas of one file.
type Distribution struct {
	N        int
	MeanBeta float64
	SDBeta   float64

	// Lambda is the genomic inflation factor, median(z^2) over the 1 df
	// chi-square median, computed over the records that carry a z-score.
	// It is 0 when no record does.
	Lambda float64
	NZ     int
}

// Summarize computes the Distribution of rs. An empty set yields the zero
// value.
func Summarize(rs *ResultSet) (Distribution, error) {
	var d Distribution

	betas := make(stats.Float64Data, 0, rs.Len())
	z2 := make(stats.Float64Data, 0, rs.Len())
	for _, rec := range rs.Records() {
		betas = append(betas, rec.Beta)
		if rec.Z.Valid {
			z2 = append(z2, rec.Z.Float64*rec.Z.Float64)
		}
	}

	d.N, d.NZ = betas.Len(), z2.Len()
	if d.N == 0 {
		return d, nil
	}

	var err error
	if d.MeanBeta, err = betas.Mean(); err != nil {
		return d, err
	}
	if d.SDBeta, err = betas.StandardDeviation(); err != nil {
		return d, err
	}

	if d.NZ > 0 {
		median, err := z2.Median()
		if err != nil {
			return d, err
		}
		d.Lambda = median / chi2Median
	}

	return d, nil
}

func (d Distribution) Fields() []zap.Field {
	return []zap.Field{
		zap.Float64("mean_beta", d.MeanBeta),
		zap.Float64("sd_beta", d.SDBeta),
		zap.Float64("lambda_gc", d.Lambda),
	}
}
