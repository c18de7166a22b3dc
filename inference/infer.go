// Package inference classifies raw text with a saved checkpoint.
package inference

import "github.com/pkg/errors"

import "github.com/neurlang/textclassifier/checkpoint"
import "github.com/neurlang/textclassifier/datasets"
import "github.com/neurlang/textclassifier/tfidf"
import "github.com/neurlang/textclassifier/trainer"

// DefaultBatchSize bounds the rows densified at once by Predict.
const DefaultBatchSize = 64

// Model pairs a classifier with the extractor it was trained on.
type Model struct {
	cp *checkpoint.Checkpoint
}

// Load reads the checkpoint in dir.
func Load(dir string) (*Model, error) {
	cp, err := checkpoint.Load(dir)
	if err != nil {
		return nil, err
	}
	return New(cp), nil
}

// New wraps an already loaded checkpoint.
func New(cp *checkpoint.Checkpoint) *Model {
	return &Model{cp: cp}
}

// Descriptor returns the shape of the classifier.
func (m *Model) Descriptor() checkpoint.Descriptor {
	return m.cp.Descriptor
}

func (m *Model) source(texts []string, labels []int, batchSize int) (trainer.BatchSource, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	vectors, err := m.cp.Extractor.Transform(texts)
	if err != nil {
		return nil, err
	}
	return trainer.NewFixedSource(vectors, labels, batchSize), nil
}

// Predict returns the most likely class of every text.
func (m *Model) Predict(texts []string) ([]int, error) {
	src, err := m.source(texts, make([]int, len(texts)), DefaultBatchSize)
	if err != nil {
		return nil, err
	}
	var o = make([]int, 0, len(texts))
	for i := 0; i < src.Len(); i++ {
		predicted, err := m.cp.Model.Predict(src.Batch(i).X)
		if err != nil {
			return nil, errors.Wrapf(err, "batch %d", i+1)
		}
		o = append(o, predicted...)
	}
	return o, nil
}

// Evaluate scores the model on every sample of d.
func (m *Model) Evaluate(d datasets.Dataslice, batchSize int) (trainer.Result, error) {
	src, err := m.source(datasets.Texts(d), datasets.Labels(d), batchSize)
	if err != nil {
		return trainer.Result{}, err
	}
	return trainer.Evaluate(m.cp.Model, src)
}

// Extractor returns the fitted extractor.
func (m *Model) Extractor() *tfidf.State {
	return m.cp.Extractor
}
