// Package datasets implements the labeled text dataset types
package datasets

import "github.com/pkg/errors"

// ErrDataLoad marks a dataset or split that is missing, unreadable or malformed.
var ErrDataLoad = errors.New("data load error")

// Sample is one labeled text. Samples are never modified after loading.
type Sample struct {
	Text  string
	Label int
}

// Dataslice is a random access sequence of samples.
type Dataslice interface {
	Get(n int) Sample
	Len() int
}

// Samples is an in-memory Dataslice.
type Samples []Sample

func (s Samples) Get(n int) Sample {
	return s[n]
}

func (s Samples) Len() int {
	return len(s)
}

// Split is a dataset divided into a training and a test part.
type Split struct {
	Train Dataslice
	Test  Dataslice
}

// Subset returns the first n samples of d. A request larger than d is clamped
// to d.Len() and reported through clamped.
func Subset(d Dataslice, n int) (s Samples, clamped bool) {
	if n > d.Len() {
		n = d.Len()
		clamped = true
	}
	if n < 0 {
		n = 0
	}
	s = make(Samples, n)
	for i := range s {
		s[i] = d.Get(i)
	}
	return
}

// Texts returns the text of every sample in order.
func Texts(d Dataslice) []string {
	var o = make([]string, d.Len())
	for i := range o {
		o[i] = d.Get(i).Text
	}
	return o
}

// Labels returns the label of every sample in order.
func Labels(d Dataslice) []int {
	var o = make([]int, d.Len())
	for i := range o {
		o[i] = d.Get(i).Label
	}
	return o
}

// MaxLabel returns the largest label in d, or -1 when d is empty.
func MaxLabel(d Dataslice) int {
	var max = -1
	for i := 0; i < d.Len(); i++ {
		if l := d.Get(i).Label; l > max {
			max = l
		}
	}
	return max
}
