package main

import "fmt"
import "os"
import "strings"

import "github.com/alexflint/go-arg"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/textclassifier/checkpoint"
import "github.com/neurlang/textclassifier/config"
import "github.com/neurlang/textclassifier/datasets/textfile"
import "github.com/neurlang/textclassifier/trainer"

type args struct {
	config.TrainingRun

	Config string `arg:"--config" help:"YAML file with settings, overridden by flags"`
	PGO    bool   `arg:"--pgo" help:"write a CPU profile to default.pgo"`
}

func (args) Description() string {
	return "Train an MLP for sentiment analysis."
}

// configPath finds the --config value before the full parse, so that the
// file can supply defaults the flags then override.
func configPath(argv []string) string {
	for i, a := range argv {
		if a == "--config" && i+1 < len(argv) {
			return argv[i+1]
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
	}
	return ""
}

func parse(argv []string) (a args, help bool, err error) {
	a.TrainingRun = config.Default()
	if path := configPath(argv); path != "" {
		if a.TrainingRun, err = config.LoadFile(path, a.TrainingRun); err != nil {
			return a, false, err
		}
	}
	parser, err := arg.NewParser(arg.Config{Program: "train_sentiment"}, &a)
	if err != nil {
		return a, false, errors.Wrap(config.ErrConfig, err.Error())
	}
	switch err := parser.Parse(argv); {
	case err == arg.ErrHelp:
		parser.WriteHelp(os.Stdout)
		return a, true, nil
	case err != nil:
		return a, false, errors.Wrap(config.ErrConfig, err.Error())
	}
	return a, false, a.Validate()
}

func train(a args, logger *zap.Logger) error {
	target, err := a.ComputeTarget()
	if err != nil {
		return err
	}
	logger.Info("Compute target",
		zap.String("device", target.Name),
		zap.String("cpu", target.Brand),
		zap.Int("threads", target.Threads),
		zap.Bool("avx2", target.AVX2),
		zap.Bool("fma3", target.FMA3))

	if a.PGO {
		defer startProfile(logger)()
	}

	split, err := textfile.Load(a.DatasetName, textfile.SearchDirectories(a.DataDir))
	if err != nil {
		return err
	}

	store := checkpoint.NewStore(a.OutputDir, logger)
	t := trainer.New(a.TrainingRun, store, logger)
	if err := t.PrepareData(split); err != nil {
		return err
	}
	if err := t.BuildModel(); err != nil {
		return err
	}
	best, err := t.Train()
	if err != nil {
		return err
	}
	logger.Info("Training finished",
		zap.Float64("best_accuracy", best.Accuracy),
		zap.Int("best_epoch", best.Epoch),
		zap.Bool("saved", best.Saved),
		zap.String("output_dir", store.Dir()))

	result, err := t.Evaluate()
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Evaluation results: accuracy %.2f%%", result.Accuracy),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total))
	return nil
}

// newLogger returns the development logger with stack traces reserved for
// errors, so routine warnings stay one line.
func newLogger(opts ...zap.Option) (*zap.Logger, error) {
	return zap.NewDevelopment(append(opts, zap.AddStacktrace(zap.ErrorLevel))...)
}

func main() {
	logger, err := newLogger()
	if err != nil {
		panic(err.Error())
	}

	a, help, err := parse(os.Args[1:])
	if err == nil && !help {
		err = train(a, logger)
	}
	if err != nil {
		logger.Error("train_sentiment failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
