package gwas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinPValue is the smallest p-value used when converting to a z-score. Smaller
// values, including an exact 0, are raised to it so the result stays finite.
const MinPValue = 1e-300

// ZFromP returns the magnitude of the z-score whose two-sided p-value is p.
func ZFromP(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("p-value %v is not within [0, 1]", p)
	}
	if p < MinPValue {
		p = MinPValue
	}

	return math.Abs(distuv.UnitNormal.Quantile(p / 2)), nil
}
