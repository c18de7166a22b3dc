package tfidf

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"The movie was great, great acting!",
	"A terrible movie. Terrible plot.",
	"Great plot and great music",
	"I",
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "movie", "was", "great", "great", "acting"}, Tokenize(corpus[0]))
	assert.Empty(t, Tokenize("I a ! ?"))
	assert.Equal(t, []string{"über", "naïve", "snake_case", "42"}, Tokenize("Über naïve snake_case 42"))
	// decomposed accents: the combining mark ends the token
	assert.Equal(t, []string{"cafe", "cre", "me"}, Tokenize("cafe\u0301 cre\u0300me"))
}

func TestFitVocabulary(t *testing.T) {
	s, err := Fit(corpus, 3)
	require.NoError(t, err)

	// great x4, movie x2, plot x2, terrible x2: ties broken alphabetically,
	// then indexed alphabetically
	if diff := cmp.Diff([]string{"great", "movie", "plot"}, s.Terms()); diff != "" {
		t.Errorf("vocabulary mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, s.Width())
	assert.Equal(t, 3, s.Len())

	i, ok := s.Index("great")
	require.True(t, ok)
	// "great" occurs in 2 of 4 documents
	assert.InDelta(t, math.Log(5.0/3.0)+1, s.IDF(i), 1e-12)
	_, ok = s.Index("terrible")
	assert.False(t, ok)
}

func TestFitErrors(t *testing.T) {
	_, err := Fit(nil, 10)
	assert.True(t, errors.Is(err, ErrVectorization), "got %v", err)

	_, err = Fit([]string{"a b c", "!"}, 10)
	assert.True(t, errors.Is(err, ErrVectorization), "got %v", err)

	_, err = Fit(corpus, 0)
	assert.True(t, errors.Is(err, ErrVectorization), "got %v", err)
}

func TestFitIsIndependent(t *testing.T) {
	first, err := Fit(corpus, 10)
	require.NoError(t, err)
	before := first.Terms()

	second, err := Fit([]string{"completely different words"}, 10)
	require.NoError(t, err)

	assert.Equal(t, before, first.Terms())
	assert.False(t, first.Equal(second))
}

func TestTransformWidthIsConstant(t *testing.T) {
	s, err := Fit(corpus, 1000)
	require.NoError(t, err)
	assert.Less(t, s.Len(), 1000)

	vectors, err := s.Transform(append(corpus, "", "unseen words only", "great "+string(bytes.Repeat([]byte("great "), 500))))
	require.NoError(t, err)
	for _, v := range vectors {
		assert.Equal(t, 1000, v.Dim())
		assert.Len(t, v.Dense(), 1000)
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	s, err := Fit(corpus, 6)
	require.NoError(t, err)

	first, err := s.Transform(corpus)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Transform(corpus)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTransformValues(t *testing.T) {
	s, err := Fit(corpus, 100)
	require.NoError(t, err)

	vectors, err := s.Transform([]string{"great great movie zebra", "zebra", ""})
	require.NoError(t, err)

	great, _ := s.Index("great")
	movie, _ := s.Index("movie")
	wg, wm := 2*s.IDF(great), s.IDF(movie)
	norm := math.Sqrt(wg*wg + wm*wm)

	v := vectors[0]
	assert.Equal(t, []int{great, movie}, v.Index)
	assert.InDelta(t, wg/norm, v.At(great), 1e-12)
	assert.InDelta(t, wm/norm, v.At(movie), 1e-12)
	assert.Equal(t, 0.0, v.At(0))

	var sq float64
	for _, x := range v.Value {
		sq += x * x
	}
	assert.InDelta(t, 1, sq, 1e-12)

	assert.Empty(t, vectors[1].Index, "unseen terms contribute nothing")
	assert.Empty(t, vectors[2].Index)
}

func TestStack(t *testing.T) {
	vectors := []Vector{
		{Width: 3, Index: []int{0}, Value: []float64{1}},
		{Width: 3, Index: []int{1, 2}, Value: []float64{2, 3}},
	}
	m := Stack(vectors, []int{1, 0})
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{0, 2, 3}, m.RawRowView(0))
	assert.Equal(t, []float64{1, 0, 0}, m.RawRowView(1))
}

func TestCompressedRoundTrip(t *testing.T) {
	s, err := Fit(corpus, 5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteCompressed(&buf))

	loaded, err := ReadCompressed(&buf)
	require.NoError(t, err)
	assert.True(t, s.Equal(loaded))

	want, err := s.Transform(corpus)
	require.NoError(t, err)
	got, err := loaded.Transform(corpus)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadCompressedRejectsGarbage(t *testing.T) {
	_, err := ReadCompressed(bytes.NewReader([]byte("definitely not lzw json")))
	assert.True(t, errors.Is(err, ErrVectorization), "got %v", err)
}

func TestNewStateRejectsMismatch(t *testing.T) {
	_, err := newState(2, []string{"a", "b", "c"}, []float64{1, 1, 1})
	assert.True(t, errors.Is(err, ErrVectorization))
	_, err = newState(5, []string{"a", "b"}, []float64{1})
	assert.True(t, errors.Is(err, ErrVectorization))
	_, err = newState(5, []string{"a", "a"}, []float64{1, 1})
	assert.True(t, errors.Is(err, ErrVectorization))
}

// sanity check fuzz
func FuzzTransform(f *testing.F) {
	f.Add("The movie was great", "great plot")
	f.Add("", "zzz")
	f.Fuzz(func(t *testing.T, train, text string) {
		s, err := Fit([]string{train}, 8)
		if err != nil {
			if !errors.Is(err, ErrVectorization) {
				t.Errorf("Fit(%q) failed with foreign error %v", train, err)
			}
			return
		}
		vectors, err := s.Transform([]string{text, text})
		if err != nil {
			t.Fatal(err)
		}
		if vectors[0].Dim() != 8 {
			t.Errorf("width %d != 8", vectors[0].Dim())
		}
		var sq float64
		for _, x := range vectors[0].Value {
			sq += x * x
		}
		if sq > 1+1e-9 {
			t.Errorf("Transform(%q) has length %f > 1", text, sq)
		}
		if !cmp.Equal(vectors[0], vectors[1]) {
			t.Errorf("Transform(%q) not deterministic", text)
		}
	})
}
