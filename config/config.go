// Package config holds the training run configuration.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks an invalid training configuration.
var ErrConfig = errors.New("invalid configuration")

// TrainingRun is the configuration snapshot of one training run. It is passed
// by value and never changes while the run is in progress.
type TrainingRun struct {
	DatasetName    string  `yaml:"dataset_name" arg:"--dataset_name" help:"name of the dataset to use"`
	DataDir        string  `yaml:"data_dir" arg:"--data_dir" help:"extra directory searched for the dataset"`
	OutputDir      string  `yaml:"output_dir" arg:"--output_dir" help:"directory to save the model and results"`
	NumTrainEpochs int     `yaml:"num_train_epochs" arg:"--num_train_epochs" help:"number of training epochs"`
	BatchSize      int     `yaml:"batch_size" arg:"--batch_size" help:"batch size for training and evaluation"`
	SubsetSize     int     `yaml:"subset_size" arg:"--subset_size" help:"number of samples to use for training"`
	EvalSubsetSize int     `yaml:"eval_subset_size" arg:"--eval_subset_size" help:"number of samples to use for evaluation"`
	LoggingSteps   int     `yaml:"logging_steps" arg:"--logging_steps" help:"report the running loss every this many batches"`
	InputSize      int     `yaml:"input_size" arg:"--input_size" help:"number of TF-IDF features"`
	HiddenSize     int     `yaml:"hidden_size" arg:"--hidden_size" help:"number of neurons in the hidden layer"`
	OutputSize     int     `yaml:"output_size" arg:"--output_size" help:"number of output classes"`
	LearningRate   float64 `yaml:"learning_rate" arg:"--learning_rate" help:"Adam learning rate"`
	Seed           uint64  `yaml:"seed" arg:"--seed" help:"seed for weight initialization and shuffling"`
	Device         string  `yaml:"device" arg:"--device" help:"compute target (cpu or auto)"`
	Resume         bool    `yaml:"resume" arg:"--resume" help:"resume from the checkpoint in the output directory"`
}

// Default returns the stock configuration: binary sentiment classification
// on imdb.
func Default() TrainingRun {
	return TrainingRun{
		DatasetName:    "imdb",
		OutputDir:      "./results",
		NumTrainEpochs: 2,
		BatchSize:      8,
		SubsetSize:     20000,
		EvalSubsetSize: 5000,
		LoggingSteps:   100,
		InputSize:      5000,
		HiddenSize:     128,
		OutputSize:     2,
		LearningRate:   0.001,
		Seed:           42,
		Device:         "cpu",
	}
}

// LoadFile decodes the YAML file at path on top of base. Keys missing from
// the file keep the value from base, an empty file changes nothing; unknown
// keys are an error.
func LoadFile(path string, base TrainingRun) (TrainingRun, error) {
	file, err := os.Open(path)
	if err != nil {
		return base, errors.Wrapf(ErrConfig, "open config file: %v", err)
	}
	defer file.Close()

	run := base
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	switch err := decoder.Decode(&run); {
	case err == io.EOF:
		return base, nil
	case err != nil:
		return base, errors.Wrapf(ErrConfig, "decode config file %s: %v", path, err)
	}
	return run, nil
}

// Validate reports the first setting that cannot drive a run.
func (r TrainingRun) Validate() error {
	switch {
	case r.DatasetName == "":
		return errors.Wrap(ErrConfig, "dataset_name is empty")
	case r.OutputDir == "":
		return errors.Wrap(ErrConfig, "output_dir is empty")
	case r.NumTrainEpochs < 1:
		return errors.Wrapf(ErrConfig, "num_train_epochs must be positive, got %d", r.NumTrainEpochs)
	case r.BatchSize < 1:
		return errors.Wrapf(ErrConfig, "batch_size must be positive, got %d", r.BatchSize)
	case r.SubsetSize < 1:
		return errors.Wrapf(ErrConfig, "subset_size must be positive, got %d", r.SubsetSize)
	case r.EvalSubsetSize < 1:
		return errors.Wrapf(ErrConfig, "eval_subset_size must be positive, got %d", r.EvalSubsetSize)
	case r.LoggingSteps < 1:
		return errors.Wrapf(ErrConfig, "logging_steps must be positive, got %d", r.LoggingSteps)
	case r.InputSize < 1:
		return errors.Wrapf(ErrConfig, "input_size must be positive, got %d", r.InputSize)
	case r.HiddenSize < 1:
		return errors.Wrapf(ErrConfig, "hidden_size must be positive, got %d", r.HiddenSize)
	case r.OutputSize < 2:
		return errors.Wrapf(ErrConfig, "output_size must be at least 2, got %d", r.OutputSize)
	case r.OutputSize > 1<<16:
		return errors.Wrapf(ErrConfig, "output_size must fit 16 bits, got %d", r.OutputSize)
	case !(r.LearningRate > 0):
		return errors.Wrapf(ErrConfig, "learning_rate must be positive, got %g", r.LearningRate)
	}
	_, err := r.ComputeTarget()
	return err
}
