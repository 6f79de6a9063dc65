package forest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarises regression error
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	N    int     `json:"n"`
}

// Score compares predictions with the true values. R2 is 0 when the true
// values are constant and the predictions miss them, 1 when they match.
func Score(yTrue, yPred []float64) (Metrics, error) {
	if len(yTrue) == 0 {
		return Metrics{}, fmt.Errorf("no values to score")
	}
	if len(yTrue) != len(yPred) {
		return Metrics{}, fmt.Errorf("have %d true values and %d predictions", len(yTrue), len(yPred))
	}

	n := float64(len(yTrue))
	m := Metrics{
		MAE:  floats.Distance(yTrue, yPred, 1) / n,
		RMSE: floats.Distance(yTrue, yPred, 2) / math.Sqrt(n),
		N:    len(yTrue),
	}

	if len(yTrue) == 1 || stat.Variance(yTrue, nil) == 0 {
		if floats.EqualApprox(yTrue, yPred, 1e-12) {
			m.R2 = 1
		}
		return m, nil
	}
	m.R2 = stat.RSquaredFrom(yPred, yTrue, nil)
	return m, nil
}
