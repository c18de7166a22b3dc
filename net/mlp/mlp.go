// Package mlp implements a feed-forward classifier with one hidden layer:
// input, linear transform, ReLU, linear transform, raw per-class scores.
package mlp

import "math"
import "math/rand/v2"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/textclassifier/learning"

// ErrShape marks a dimension mismatch between the classifier and its input,
// labels or stored parameters.
var ErrShape = errors.New("shape error")

// Classifier is the network. Its parameters change only through Step.
type Classifier struct {
	input, hidden, output int

	w1 *mat.Dense    // input × hidden
	b1 *mat.VecDense // hidden
	w2 *mat.Dense    // hidden × output
	b2 *mat.VecDense // output
}

// New creates a classifier with every weight and bias drawn uniformly from
// ±1/sqrt(fan in). A nil rng uses a fixed seed.
func New(input, hidden, output int, rng *rand.Rand) (*Classifier, error) {
	if input <= 0 || hidden <= 0 || output <= 0 {
		return nil, errors.Wrapf(ErrShape, "dimensions must be positive, got %d×%d×%d", input, hidden, output)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	c := &Classifier{
		input:  input,
		hidden: hidden,
		output: output,
		w1:     mat.NewDense(input, hidden, uniform(rng, input*hidden, input)),
		b1:     mat.NewVecDense(hidden, uniform(rng, hidden, input)),
		w2:     mat.NewDense(hidden, output, uniform(rng, hidden*output, hidden)),
		b2:     mat.NewVecDense(output, uniform(rng, output, hidden)),
	}
	return c, nil
}

func uniform(rng *rand.Rand, n, fanIn int) []float64 {
	bound := 1 / math.Sqrt(float64(fanIn))
	var o = make([]float64, n)
	for i := range o {
		o[i] = (2*rng.Float64() - 1) * bound
	}
	return o
}

// Dims returns the input width, hidden width and class count.
func (c *Classifier) Dims() (input, hidden, output int) {
	return c.input, c.hidden, c.output
}

// Params returns the backing storage of W1, b1, W2 and b2, in that order.
// The slices alias the classifier: writing to them changes the parameters.
func (c *Classifier) Params() [][]float64 {
	return [][]float64{
		c.w1.RawMatrix().Data,
		c.b1.RawVector().Data,
		c.w2.RawMatrix().Data,
		c.b2.RawVector().Data,
	}
}

// CopyFrom overwrites the parameters with those of o, which must have the
// same dimensions.
func (c *Classifier) CopyFrom(o *Classifier) error {
	if c.input != o.input || c.hidden != o.hidden || c.output != o.output {
		return errors.Wrapf(ErrShape, "cannot copy %d×%d×%d parameters into %d×%d×%d classifier",
			o.input, o.hidden, o.output, c.input, c.hidden, c.output)
	}
	c.w1.Copy(o.w1)
	c.b1.CopyVec(o.b1)
	c.w2.Copy(o.w2)
	c.b2.CopyVec(o.b2)
	return nil
}

// Forward returns the raw scores, one row per input row. It does not modify
// the classifier and may be called concurrently.
func (c *Classifier) Forward(x mat.Matrix) (*mat.Dense, error) {
	if _, cols := x.Dims(); cols != c.input {
		return nil, errors.Wrapf(ErrShape, "input width %d, classifier expects %d", cols, c.input)
	}
	h := affine(x, c.w1, c.b1)
	relu(h)
	return affine(h, c.w2, c.b2), nil
}

// Predict returns the arg-max class of every input row.
func (c *Classifier) Predict(x mat.Matrix) ([]int, error) {
	scores, err := c.Forward(x)
	if err != nil {
		return nil, err
	}
	rows, _ := scores.Dims()
	var o = make([]int, rows)
	for i := range o {
		o[i] = floats.MaxIdx(scores.RawRowView(i))
	}
	return o, nil
}

// Step trains on one batch: forward pass, loss against labels, gradients of
// every parameter by backpropagation, then one optimizer update. It returns
// the batch loss.
func (c *Classifier) Step(x *mat.Dense, labels []int, loss learning.Loss, opt learning.Optimizer) (float64, error) {
	rows, cols := x.Dims()
	if cols != c.input {
		return 0, errors.Wrapf(ErrShape, "input width %d, classifier expects %d", cols, c.input)
	}
	if rows != len(labels) {
		return 0, errors.Wrapf(ErrShape, "%d rows but %d labels", rows, len(labels))
	}
	for _, l := range labels {
		if l < 0 || l >= c.output {
			return 0, errors.Wrapf(ErrShape, "label %d outside [0, %d)", l, c.output)
		}
	}

	h := affine(x, c.w1, c.b1)
	relu(h)
	scores := affine(h, c.w2, c.b2)

	value, ds := loss(scores, labels)

	var dw2 mat.Dense
	dw2.Mul(h.T(), ds)
	db2 := colSums(ds)

	var dh mat.Dense
	dh.Mul(ds, c.w2.T())
	dh.Apply(func(i, j int, v float64) float64 {
		if h.At(i, j) <= 0 {
			return 0
		}
		return v
	}, &dh)

	var dw1 mat.Dense
	dw1.Mul(x.T(), &dh)
	db1 := colSums(&dh)

	opt.Step(c.Params(), [][]float64{
		dw1.RawMatrix().Data,
		db1,
		dw2.RawMatrix().Data,
		db2,
	})
	return value, nil
}

// affine returns x·w + b with b added to every row.
func affine(x mat.Matrix, w *mat.Dense, b *mat.VecDense) *mat.Dense {
	var z mat.Dense
	z.Mul(x, w)
	rows, _ := z.Dims()
	bias := b.RawVector().Data
	for i := 0; i < rows; i++ {
		floats.Add(z.RawRowView(i), bias)
	}
	return &z
}

func relu(m *mat.Dense) {
	m.Apply(func(i, j int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, m)
}

func colSums(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	var o = make([]float64, cols)
	for i := 0; i < rows; i++ {
		floats.Add(o, m.RawRowView(i))
	}
	return o
}
