// Package checkpoint persists and restores the best model of a training run:
// classifier parameters, the fitted feature extractor and a descriptor of the
// model shape, side by side in one directory.
package checkpoint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/neurlang/textclassifier/net/mlp"
	"github.com/neurlang/textclassifier/tfidf"
)

// File names inside a checkpoint directory. The parameter and extractor
// names are the ones downstream tooling already looks for.
const (
	ModelFile      = "pytorch_model.bin"
	DescriptorFile = "config.json"
	ExtractorFile  = "tfidf_vectorizer.pkl"
)

// ModelType tags the descriptor of every checkpoint written here.
const ModelType = "mlp"

var (
	// ErrIO marks a checkpoint that could not be written or read.
	ErrIO = errors.New("checkpoint i/o error")

	// ErrInconsistent marks checkpoint parts that do not belong together.
	ErrInconsistent = errors.New("inconsistent checkpoint")
)

// Descriptor is the textual record of the model shape.
type Descriptor struct {
	InputSize  int    `json:"input_size"`
	HiddenSize int    `json:"hidden_size"`
	OutputSize int    `json:"output_size"`
	ModelType  string `json:"model_type"`
}

// Describe returns the descriptor of model.
func Describe(model *mlp.Classifier) Descriptor {
	in, hidden, out := model.Dims()
	return Descriptor{
		InputSize:  in,
		HiddenSize: hidden,
		OutputSize: out,
		ModelType:  ModelType,
	}
}

// Checkpoint is a loaded artifact set.
type Checkpoint struct {
	Descriptor Descriptor
	Model      *mlp.Classifier
	Extractor  *tfidf.State
}

// Verify checks that the descriptor, the classifier and the extractor agree.
func Verify(d Descriptor, model *mlp.Classifier, extractor *tfidf.State) error {
	if d.ModelType != ModelType {
		return errors.Wrapf(ErrInconsistent, "model type %q, want %q", d.ModelType, ModelType)
	}
	if got := Describe(model); got != d {
		return errors.Wrapf(ErrInconsistent, "classifier shape %+v does not match descriptor %+v", got, d)
	}
	if extractor.Width() != d.InputSize {
		return errors.Wrapf(ErrInconsistent, "extractor width %d does not match input size %d", extractor.Width(), d.InputSize)
	}
	return nil
}

// Save writes the three artifacts into dir, creating it when absent. The
// write is not atomic: an interrupted Save can leave a mixed set behind.
func Save(dir string, model *mlp.Classifier, extractor *tfidf.State, d Descriptor) error {
	if err := Verify(d, model, extractor); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, dir, err)
	}
	path := filepath.Join(dir, ModelFile)
	if err := model.WriteWeightsToFile(path); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	path = filepath.Join(dir, DescriptorFile)
	if err := d.WriteToFile(path); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	path = filepath.Join(dir, ExtractorFile)
	if err := extractor.WriteCompressedToFile(path); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return nil
}

// WriteToFile writes the descriptor as indented JSON.
func (d Descriptor) WriteToFile(name string) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, file.Close()) }()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ReadDescriptorFromFile reads a descriptor written by WriteToFile.
func ReadDescriptorFromFile(name string) (d Descriptor, err error) {
	file, err := os.Open(name)
	if err != nil {
		return d, err
	}
	defer file.Close()
	err = json.NewDecoder(bufio.NewReader(file)).Decode(&d)
	return d, err
}

// Exists reports whether dir holds a checkpoint descriptor.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, DescriptorFile))
	return err == nil && !info.IsDir()
}

// Load reads the artifacts in dir and checks that they belong together.
// A file that cannot be read is ErrIO, one that cannot be decoded is
// ErrInconsistent; the underlying cause stays reachable with errors.Is.
func Load(dir string) (*Checkpoint, error) {
	var cp Checkpoint
	var err error

	path := filepath.Join(dir, DescriptorFile)
	if cp.Descriptor, err = ReadDescriptorFromFile(path); err != nil {
		return nil, loadError(path, err)
	}
	path = filepath.Join(dir, ModelFile)
	if cp.Model, err = mlp.ReadWeightsFromFile(path); err != nil {
		return nil, loadError(path, err)
	}
	path = filepath.Join(dir, ExtractorFile)
	if cp.Extractor, err = tfidf.ReadCompressedFromFile(path); err != nil {
		return nil, loadError(path, err)
	}

	if err := Verify(cp.Descriptor, cp.Model, cp.Extractor); err != nil {
		return nil, errors.Wrapf(err, "checkpoint %s", dir)
	}
	return &cp, nil
}

func loadError(path string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return fmt.Errorf("%w: decode %s: %w", ErrInconsistent, path, err)
}
