package learning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestCrossEntropyUniform(t *testing.T) {
	scores := mat.NewDense(2, 4, nil)
	loss, grad := CrossEntropy(scores, []int{0, 3})
	assert.InDelta(t, math.Log(4), loss, 1e-12)

	// softmax is 1/4 everywhere; the true class gets 1/4-1, all scaled by 1/rows
	assert.InDelta(t, (0.25-1)/2, grad.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25/2, grad.At(0, 1), 1e-12)
	assert.InDelta(t, (0.25-1)/2, grad.At(1, 3), 1e-12)
}

func TestCrossEntropyGradientRowsSumToZero(t *testing.T) {
	scores := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		-5, 0, 5,
		1000, 0, -1000,
	})
	loss, grad := CrossEntropy(scores, []int{2, 0, 0})
	assert.False(t, math.IsNaN(loss))
	assert.False(t, math.IsInf(loss, 0))
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, floats.Sum(grad.RawRowView(i)), 1e-12)
	}
	// a confident correct prediction costs almost nothing
	_, g := CrossEntropy(mat.NewDense(1, 3, []float64{1000, 0, -1000}), []int{0})
	assert.InDelta(t, 0, g.At(0, 0), 1e-12)
}

func TestCrossEntropyFiniteDifference(t *testing.T) {
	data := []float64{0.3, -1.2, 2.0, 0.5, 0.1, -0.4}
	labels := []int{2, 0}
	_, grad := CrossEntropy(mat.NewDense(2, 3, append([]float64(nil), data...)), labels)

	const h = 1e-6
	for k := range data {
		plus := append([]float64(nil), data...)
		minus := append([]float64(nil), data...)
		plus[k] += h
		minus[k] -= h
		lp, _ := CrossEntropy(mat.NewDense(2, 3, plus), labels)
		lm, _ := CrossEntropy(mat.NewDense(2, 3, minus), labels)
		assert.InDelta(t, (lp-lm)/(2*h), grad.RawMatrix().Data[k], 1e-6)
	}
}

func TestSoftmax(t *testing.T) {
	p := Softmax([]float64{1, 1, 1, 1})
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, p, 1e-12)
	assert.InDelta(t, 1, floats.Sum(Softmax([]float64{-3, 7, 0.5})), 1e-12)
}

func TestAdamFirstStep(t *testing.T) {
	params := [][]float64{{1, 1, 1}, {0}}
	grads := [][]float64{{0.5, -2, 0}, {1e-3}}
	a := NewAdam(NewHyperParameters(0.01), params)
	a.Step(params, grads)

	// the first bias corrected step moves each weight by lr*sign(g)
	assert.InDelta(t, 0.99, params[0][0], 1e-6)
	assert.InDelta(t, 1.01, params[0][1], 1e-6)
	assert.Equal(t, 1.0, params[0][2])
	assert.InDelta(t, -0.01, params[1][0], 1e-6)
	assert.Equal(t, 1, a.Steps())
}

func TestAdamMinimizesQuadratic(t *testing.T) {
	x := []float64{5, -3}
	params := [][]float64{x}
	a := NewAdam(NewHyperParameters(0.1), params)
	for i := 0; i < 2000; i++ {
		a.Step(params, [][]float64{{2 * x[0], 2 * x[1]}})
	}
	assert.InDelta(t, 0, x[0], 0.05)
	assert.InDelta(t, 0, x[1], 0.05)
}

func TestAdamShapeChangePanics(t *testing.T) {
	a := NewAdam(NewHyperParameters(0.1), [][]float64{{1}})
	assert.Panics(t, func() { a.Step([][]float64{{1, 2}}, [][]float64{{1, 2}}) })
}
