// Package tfidf implements the term-frequency/inverse-document-frequency
// feature extractor: a vocabulary of at most a fixed number of terms is fit
// on training text once, then every text is projected onto it.
package tfidf

import "math"
import "sort"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/textclassifier/parallel"

// ErrVectorization marks input the extractor cannot fit or transform.
var ErrVectorization = errors.New("vectorization error")

// State is a fitted extractor. It is never modified after Fit returns, so a
// State can be shared and Transform called concurrently.
type State struct {
	width      int
	terms      []string
	idf        []float64
	vocabulary map[string]int
}

// Fit learns a vocabulary of at most maxFeatures terms from texts. Terms are
// ranked by their total count over all texts, ties broken alphabetically; the
// kept terms are then indexed in alphabetical order. Each term is weighted by
// the smoothed inverse document frequency ln((1+n)/(1+df)) + 1.
func Fit(texts []string, maxFeatures int) (*State, error) {
	if len(texts) == 0 {
		return nil, errors.Wrap(ErrVectorization, "no texts to fit")
	}
	if maxFeatures <= 0 {
		return nil, errors.Wrapf(ErrVectorization, "max features must be positive, got %d", maxFeatures)
	}

	var tokens = make([][]string, len(texts))
	parallel.ForEach(len(texts), parallel.Threads(), func(i int) {
		tokens[i] = Tokenize(texts[i])
	})

	var tf = make(map[string]int)
	var df = make(map[string]int)
	for _, doc := range tokens {
		var seen = make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			tf[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}
	if len(tf) == 0 {
		return nil, errors.Wrap(ErrVectorization, "empty vocabulary: texts contain no tokens")
	}

	var terms = make([]string, 0, len(tf))
	for t := range tf {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if tf[terms[i]] != tf[terms[j]] {
			return tf[terms[i]] > tf[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	var n = float64(len(texts))
	var idf = make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return newState(maxFeatures, terms, idf)
}

func newState(width int, terms []string, idf []float64) (*State, error) {
	if width <= 0 {
		return nil, errors.Wrapf(ErrVectorization, "width must be positive, got %d", width)
	}
	if len(terms) != len(idf) {
		return nil, errors.Wrapf(ErrVectorization, "%d terms but %d weights", len(terms), len(idf))
	}
	if len(terms) > width {
		return nil, errors.Wrapf(ErrVectorization, "%d terms do not fit width %d", len(terms), width)
	}
	var s = &State{
		width:      width,
		terms:      terms,
		idf:        idf,
		vocabulary: make(map[string]int, len(terms)),
	}
	for i, t := range terms {
		if _, dup := s.vocabulary[t]; dup {
			return nil, errors.Wrapf(ErrVectorization, "duplicate term %q", t)
		}
		s.vocabulary[t] = i
	}
	return s, nil
}

// Width returns the length of every vector produced by Transform.
func (s *State) Width() int {
	return s.width
}

// Len returns the vocabulary size, which never exceeds Width.
func (s *State) Len() int {
	return len(s.terms)
}

// Terms returns a copy of the vocabulary in index order.
func (s *State) Terms() []string {
	return append([]string(nil), s.terms...)
}

// Index returns the feature position of term.
func (s *State) Index(term string) (int, bool) {
	i, ok := s.vocabulary[term]
	return i, ok
}

// IDF returns the weight of the i-th term.
func (s *State) IDF(i int) float64 {
	return s.idf[i]
}

// Equal reports whether both states produce identical transforms.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.width != o.width || len(s.terms) != len(o.terms) {
		return false
	}
	for i := range s.terms {
		if s.terms[i] != o.terms[i] || s.idf[i] != o.idf[i] {
			return false
		}
	}
	return true
}

// Transform projects every text onto the vocabulary: raw term counts times
// IDF, scaled to unit euclidean length. Terms outside the vocabulary are
// ignored, so a text without known terms maps to the zero vector.
func (s *State) Transform(texts []string) ([]Vector, error) {
	if len(s.terms) != len(s.idf) || len(s.terms) > s.width {
		return nil, errors.Wrapf(ErrVectorization, "state of %d terms, %d weights does not fit width %d",
			len(s.terms), len(s.idf), s.width)
	}
	var o = make([]Vector, len(texts))
	parallel.ForEach(len(texts), parallel.Threads(), func(i int) {
		o[i] = s.vectorize(texts[i])
	})
	return o, nil
}

func (s *State) vectorize(text string) Vector {
	var counts = make(map[int]float64)
	for _, tok := range Tokenize(text) {
		if i, ok := s.vocabulary[tok]; ok {
			counts[i]++
		}
	}
	var v = Vector{
		Width: s.width,
		Index: make([]int, 0, len(counts)),
		Value: make([]float64, len(counts)),
	}
	for i := range counts {
		v.Index = append(v.Index, i)
	}
	sort.Ints(v.Index)
	for j, i := range v.Index {
		v.Value[j] = counts[i] * s.idf[i]
	}
	if norm := floats.Norm(v.Value, 2); norm > 0 {
		floats.Scale(1/norm, v.Value)
	}
	return v
}
