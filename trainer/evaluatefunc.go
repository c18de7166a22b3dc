package trainer

import "sync/atomic"

import "go.uber.org/multierr"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/textclassifier/datasets"
import "github.com/neurlang/textclassifier/parallel"
import "github.com/neurlang/textclassifier/tfidf"

// Result is the outcome of one evaluation pass.
type Result struct {
	Accuracy float64 // 100 * Correct / Total, 0 when Total is 0
	Correct  int
	Total    int

	// Fingerprint is a digest of every predicted class in batch order.
	Fingerprint [32]byte
}

// Predictor is the part of a classifier the evaluation needs.
type Predictor interface {
	Predict(x mat.Matrix) ([]int, error)
}

// Batch is a dense group of feature rows with their labels. Offset is the
// position of the first row within the whole pass.
type Batch struct {
	X      *mat.Dense
	Labels []int
	Offset int
}

// BatchSource yields the batches of one pass in a fixed order.
type BatchSource interface {
	Len() int     // number of batches
	Samples() int // number of rows over all batches
	Batch(i int) Batch
}

type vectorSource struct {
	vectors []tfidf.Vector
	labels  []int
	order   [][]int
	offsets []int
	total   int
}

// NewBatchSource groups vectors and their labels by order, one batch per
// element of order.
func NewBatchSource(vectors []tfidf.Vector, labels []int, order [][]int) BatchSource {
	var s = &vectorSource{
		vectors: vectors,
		labels:  labels,
		order:   order,
		offsets: make([]int, len(order)),
	}
	for i, rows := range order {
		s.offsets[i] = s.total
		s.total += len(rows)
	}
	return s
}

// NewFixedSource batches vectors in their natural order.
func NewFixedSource(vectors []tfidf.Vector, labels []int, batchSize int) BatchSource {
	return NewBatchSource(vectors, labels, datasets.Batches(len(vectors), batchSize, nil))
}

func (s *vectorSource) Len() int {
	return len(s.order)
}

func (s *vectorSource) Samples() int {
	return s.total
}

func (s *vectorSource) Batch(i int) Batch {
	rows := s.order[i]
	var labels = make([]int, len(rows))
	for j, r := range rows {
		labels[j] = s.labels[r]
	}
	return Batch{
		X:      tfidf.Stack(s.vectors, rows),
		Labels: labels,
		Offset: s.offsets[i],
	}
}

// Evaluate predicts every batch of src and counts the rows whose predicted
// class equals the label. Batches are predicted concurrently; the result
// does not depend on scheduling.
func Evaluate(model Predictor, src BatchSource) (Result, error) {
	var total = src.Samples()
	var hsh = parallel.NewUint16Hasher(total)
	var correct atomic.Int64
	var errs = make([]error, src.Len())

	parallel.ForEach(src.Len(), parallel.Threads(), func(i int) {
		batch := src.Batch(i)
		predicted, err := model.Predict(batch.X)
		if err != nil {
			errs[i] = err
			return
		}
		var ok int64
		for j, p := range predicted {
			hsh.MustPutUint16(batch.Offset+j, uint16(p))
			if p == batch.Labels[j] {
				ok++
			}
		}
		correct.Add(ok)
	})
	if err := multierr.Combine(errs...); err != nil {
		return Result{}, err
	}

	var r = Result{
		Correct:     int(correct.Load()),
		Total:       total,
		Fingerprint: hsh.Sum(),
	}
	if total > 0 {
		r.Accuracy = 100 * float64(r.Correct) / float64(total)
	}
	return r, nil
}
