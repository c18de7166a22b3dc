package tfidf

import "sort"

import "gonum.org/v1/gonum/mat"

// Vector is a feature vector of fixed width stored sparsely: Index holds the
// ascending positions of the non-zero entries and Value their weights.
type Vector struct {
	Width int
	Index []int
	Value []float64
}

// Dim returns the width of the vector.
func (v Vector) Dim() int {
	return v.Width
}

// At returns the i-th entry.
func (v Vector) At(i int) float64 {
	if i < 0 || i >= v.Width {
		panic("tfidf: vector index out of range")
	}
	if j := sort.SearchInts(v.Index, i); j < len(v.Index) && v.Index[j] == i {
		return v.Value[j]
	}
	return 0
}

// Dense returns all Width entries.
func (v Vector) Dense() []float64 {
	var o = make([]float64, v.Width)
	v.Scatter(o)
	return o
}

// Scatter writes the non-zero entries into dst, which must have Width
// elements. Other elements of dst are left alone.
func (v Vector) Scatter(dst []float64) {
	for j, i := range v.Index {
		dst[i] = v.Value[j]
	}
}

// Stack builds the dense matrix whose r-th row is vectors[rows[r]]. All
// vectors must share one width.
func Stack(vectors []Vector, rows []int) *mat.Dense {
	if len(rows) == 0 {
		panic("tfidf: stacking zero rows")
	}
	width := vectors[rows[0]].Dim()
	m := mat.NewDense(len(rows), width, nil)
	for r, n := range rows {
		if vectors[n].Dim() != width {
			panic("tfidf: stacking vectors of different width")
		}
		vectors[n].Scatter(m.RawRowView(r))
	}
	return m
}
