package learning

import "math"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

// Loss scores raw per-class outputs against true labels. It returns the mean
// loss over the rows and its gradient with respect to the scores.
type Loss func(scores *mat.Dense, labels []int) (float64, *mat.Dense)

// CrossEntropy is the multi-class cross-entropy of softmax(scores), averaged
// over the rows. Labels must lie in [0, columns).
func CrossEntropy(scores *mat.Dense, labels []int) (float64, *mat.Dense) {
	rows, cols := scores.Dims()
	if rows != len(labels) {
		panic("cross entropy: label count does not match rows")
	}
	var grad = mat.NewDense(rows, cols, nil)
	var loss float64
	for i := 0; i < rows; i++ {
		s := scores.RawRowView(i)
		g := grad.RawRowView(i)
		loss += logSumExp(s) - s[labels[i]]
		copy(g, Softmax(s))
		g[labels[i]] -= 1
	}
	grad.Scale(1/float64(rows), grad)
	return loss / float64(rows), grad
}

// Softmax returns the class probabilities of one row of raw scores.
func Softmax(scores []float64) []float64 {
	var o = make([]float64, len(scores))
	lse := logSumExp(scores)
	for j, s := range scores {
		o[j] = math.Exp(s - lse)
	}
	return o
}

func logSumExp(s []float64) float64 {
	max := floats.Max(s)
	var sum float64
	for _, v := range s {
		sum += math.Exp(v - max)
	}
	return max + math.Log(sum)
}
