package main

import "fmt"
import "os"

import "github.com/alexflint/go-arg"
import "go.uber.org/zap"

import "github.com/neurlang/textclassifier/datasets"
import "github.com/neurlang/textclassifier/datasets/textfile"
import "github.com/neurlang/textclassifier/inference"

type args struct {
	ModelDir       string `arg:"--model_dir" help:"directory holding the checkpoint"`
	DatasetName    string `arg:"--dataset_name" help:"name of the dataset to use"`
	DataDir        string `arg:"--data_dir" help:"extra directory searched for the dataset"`
	EvalSubsetSize int    `arg:"--eval_subset_size" help:"number of test samples to evaluate"`
	BatchSize      int    `arg:"--batch_size" help:"rows predicted at once"`
}

func (args) Description() string {
	return "Evaluate a saved sentiment classifier."
}

func infer(a args, logger *zap.Logger) error {
	model, err := inference.Load(a.ModelDir)
	if err != nil {
		return err
	}
	d := model.Descriptor()
	logger.Info("Loaded checkpoint",
		zap.String("dir", a.ModelDir),
		zap.Int("input", d.InputSize),
		zap.Int("hidden", d.HiddenSize),
		zap.Int("output", d.OutputSize))

	split, err := textfile.Load(a.DatasetName, textfile.SearchDirectories(a.DataDir))
	if err != nil {
		return err
	}
	test, clamped := datasets.Subset(split.Test, a.EvalSubsetSize)
	if clamped {
		logger.Warn("Requested subset larger than split, using whole split",
			zap.Int("requested", a.EvalSubsetSize),
			zap.Int("available", test.Len()))
	}

	result, err := model.Evaluate(test, a.BatchSize)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Evaluation results: accuracy %.2f%%", result.Accuracy),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
		zap.String("fingerprint", fmt.Sprintf("%x", result.Fingerprint)))
	return nil
}

// newLogger returns the development logger with stack traces reserved for
// errors, so routine warnings stay one line.
func newLogger(opts ...zap.Option) (*zap.Logger, error) {
	return zap.NewDevelopment(append(opts, zap.AddStacktrace(zap.ErrorLevel))...)
}

func main() {
	var a = args{
		ModelDir:       "./results",
		DatasetName:    "imdb",
		EvalSubsetSize: 5000,
		BatchSize:      8,
	}
	arg.MustParse(&a)

	logger, err := newLogger()
	if err != nil {
		panic(err.Error())
	}
	if err := infer(a, logger); err != nil {
		logger.Error("infer_sentiment failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
