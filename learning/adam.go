// Package learning implements the loss function and the parameter update rule
// used to train the classifier.
package learning

import "math"

// Optimizer updates parameters in place given their gradients. params and
// grads hold one slice per parameter tensor, in a fixed order.
type Optimizer interface {
	Step(params, grads [][]float64)
}

// Adam is the adaptive moment estimation update rule.
type Adam struct {
	h    HyperParameters
	m, v [][]float64
	t    int
}

// NewAdam creates an Adam optimizer for parameter tensors shaped like params.
func NewAdam(h HyperParameters, params [][]float64) *Adam {
	var a = &Adam{
		h: h,
		m: make([][]float64, len(params)),
		v: make([][]float64, len(params)),
	}
	for i, p := range params {
		a.m[i] = make([]float64, len(p))
		a.v[i] = make([]float64, len(p))
	}
	return a
}

// Steps returns the number of updates applied so far.
func (a *Adam) Steps() int {
	return a.t
}

// Step applies one bias corrected Adam update.
func (a *Adam) Step(params, grads [][]float64) {
	if len(params) != len(a.m) || len(grads) != len(a.m) {
		panic("adam: parameter count changed")
	}
	a.t++
	var (
		b1, b2 = a.h.Beta1, a.h.Beta2
		c1     = 1 - math.Pow(b1, float64(a.t))
		c2     = 1 - math.Pow(b2, float64(a.t))
		lr     = a.h.LearningRate
		eps    = a.h.Epsilon
	)
	for i, p := range params {
		g, m, v := grads[i], a.m[i], a.v[i]
		if len(p) != len(m) || len(g) != len(m) {
			panic("adam: parameter shape changed")
		}
		for j := range p {
			m[j] = b1*m[j] + (1-b1)*g[j]
			v[j] = b2*v[j] + (1-b2)*g[j]*g[j]
			p[j] -= lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + eps)
		}
	}
}
