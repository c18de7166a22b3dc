package trainer

import "math/rand/v2"

import "github.com/dustin/go-humanize"
import "github.com/montanaflynn/stats"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/textclassifier/checkpoint"
import "github.com/neurlang/textclassifier/config"
import "github.com/neurlang/textclassifier/datasets"
import "github.com/neurlang/textclassifier/learning"
import "github.com/neurlang/textclassifier/net/mlp"
import "github.com/neurlang/textclassifier/tfidf"

// Store persists the best model of a run and reads it back on resume.
type Store interface {
	Dir() string
	Save(model *mlp.Classifier, extractor *tfidf.State, d checkpoint.Descriptor) error
	Load() (*checkpoint.Checkpoint, error)
}

// Trainer runs one training run. It owns the extractor and the classifier
// and moves through the states Uninitialized, DataReady, ModelReady,
// EpochRunning and Evaluating, and Done; each method is legal only in the
// states it names.
type Trainer struct {
	run    config.TrainingRun
	store  Store
	logger *zap.Logger
	rng    *rand.Rand
	state  State

	extractor    *tfidf.State
	trainVectors []tfidf.Vector
	trainLabels  []int
	maxLabel     int
	eval         BatchSource

	model     *mlp.Classifier
	loss      learning.Loss
	optimizer *learning.Adam
	best      Best
}

// New creates a trainer for run. Every random choice of the run is drawn
// from a generator seeded with run.Seed.
func New(run config.TrainingRun, store Store, logger *zap.Logger) *Trainer {
	return &Trainer{
		run:    run,
		store:  store,
		logger: logger,
		rng:    rand.New(rand.NewPCG(run.Seed, run.Seed)),
	}
}

// State returns the current phase.
func (t *Trainer) State() State {
	return t.state
}

// Model returns the classifier, nil before BuildModel.
func (t *Trainer) Model() *mlp.Classifier {
	return t.model
}

// Extractor returns the fitted extractor, nil before PrepareData.
func (t *Trainer) Extractor() *tfidf.State {
	return t.extractor
}

// Best returns the best evaluation recorded so far.
func (t *Trainer) Best() Best {
	return t.best
}

// PrepareData slices the configured subsets out of split, fits the extractor
// on the training text only and vectorizes both subsets.
func (t *Trainer) PrepareData(split datasets.Split) error {
	if err := expect("PrepareData", t.state, Uninitialized); err != nil {
		return err
	}

	train := t.subset("train", split.Train, t.run.SubsetSize)
	eval := t.subset("test", split.Test, t.run.EvalSubsetSize)
	t.logger.Info("Loaded dataset",
		zap.String("dataset", t.run.DatasetName),
		zap.String("train", humanize.Comma(int64(train.Len()))),
		zap.String("eval", humanize.Comma(int64(eval.Len()))))

	extractor, err := tfidf.Fit(datasets.Texts(train), t.run.InputSize)
	if err != nil {
		return errors.Wrap(err, "fit extractor")
	}
	trainVectors, err := extractor.Transform(datasets.Texts(train))
	if err != nil {
		return errors.Wrap(err, "vectorize training text")
	}
	evalVectors, err := extractor.Transform(datasets.Texts(eval))
	if err != nil {
		return errors.Wrap(err, "vectorize evaluation text")
	}
	t.logger.Info("Fitted TF-IDF vectorizer",
		zap.Int("vocabulary", extractor.Len()),
		zap.Int("width", extractor.Width()))

	t.extractor = extractor
	t.trainVectors = trainVectors
	t.trainLabels = datasets.Labels(train)
	t.maxLabel = datasets.MaxLabel(train)
	if m := datasets.MaxLabel(eval); m > t.maxLabel {
		t.maxLabel = m
	}
	t.eval = NewFixedSource(evalVectors, datasets.Labels(eval), t.run.BatchSize)
	t.state = DataReady
	return nil
}

func (t *Trainer) subset(name string, d datasets.Dataslice, n int) datasets.Samples {
	s, clamped := datasets.Subset(d, n)
	if clamped {
		t.logger.Warn("Requested subset larger than split, using whole split",
			zap.String("split", name),
			zap.Int("requested", n),
			zap.Int("available", s.Len()))
	}
	return s
}

// BuildModel creates the classifier, the loss and the optimizer. With
// resume set, the checkpoint in the output directory is loaded and its
// accuracy becomes the score to beat.
func (t *Trainer) BuildModel() error {
	if err := expect("BuildModel", t.state, DataReady); err != nil {
		return err
	}
	if w := t.extractor.Width(); w != t.run.InputSize {
		return errors.Wrapf(mlp.ErrShape, "input_size %d, extractor width %d", t.run.InputSize, w)
	}
	if t.maxLabel >= t.run.OutputSize {
		return errors.Wrapf(mlp.ErrShape, "label %d needs more than output_size %d classes", t.maxLabel, t.run.OutputSize)
	}

	model, err := mlp.New(t.run.InputSize, t.run.HiddenSize, t.run.OutputSize, t.rng)
	if err != nil {
		return err
	}
	if t.run.Resume {
		resumed, err := Resume(model, t.extractor, t.store, t.logger)
		if err != nil {
			return err
		}
		if resumed {
			result, err := Evaluate(model, t.eval)
			if err != nil {
				return err
			}
			t.best = Best{Accuracy: result.Accuracy, Saved: true}
			t.logger.Info("Resumed model accuracy", zap.Float64("accuracy", result.Accuracy))
		}
	}

	t.model = model
	t.loss = learning.CrossEntropy
	t.optimizer = learning.NewAdam(learning.NewHyperParameters(t.run.LearningRate), model.Params())
	t.state = ModelReady
	t.logger.Info("Built classifier",
		zap.Int("input", t.run.InputSize),
		zap.Int("hidden", t.run.HiddenSize),
		zap.Int("output", t.run.OutputSize))
	return nil
}

// Train runs the configured number of epochs and returns the best record.
// A failure leaves the trainer in the state it failed in.
func (t *Trainer) Train() (Best, error) {
	if err := expect("Train", t.state, ModelReady); err != nil {
		return t.best, err
	}
	best, err := Loop(t.run.NumTrainEpochs, t.best, t.epoch, func() (Result, error) {
		t.state = Evaluating
		return Evaluate(t.model, t.eval)
	}, func(Best) error {
		return t.store.Save(t.model, t.extractor, checkpoint.Describe(t.model))
	}, t.logger)
	t.best = best
	if err != nil {
		return best, err
	}
	t.state = Done
	return best, nil
}

// epoch trains on one freshly shuffled pass over the training set and
// returns the mean batch loss.
func (t *Trainer) epoch(epoch int) (float64, error) {
	t.state = EpochRunning
	order := datasets.Batches(len(t.trainVectors), t.run.BatchSize, t.rng)
	src := NewBatchSource(t.trainVectors, t.trainLabels, order)

	var losses = make([]float64, 0, src.Len())
	var window []float64
	for i := 0; i < src.Len(); i++ {
		batch := src.Batch(i)
		loss, err := t.model.Step(batch.X, batch.Labels, t.loss, t.optimizer)
		if err != nil {
			return 0, errors.Wrapf(err, "epoch %d batch %d", epoch, i+1)
		}
		losses = append(losses, loss)
		window = append(window, loss)
		if len(window) == t.run.LoggingSteps {
			mean, _ := stats.Mean(window)
			t.logger.Info("Training loss",
				zap.Int("epoch", epoch),
				zap.Int("step", i+1),
				zap.Float64("loss", mean))
			window = window[:0]
		}
	}
	// stats.Mean fails only on an empty pass, which Fit already rejected.
	mean, _ := stats.Mean(losses)
	t.logger.Debug("Finished epoch",
		zap.Int("epoch", epoch),
		zap.Int("batches", len(losses)),
		zap.Int("steps", t.optimizer.Steps()))
	return mean, nil
}

// Evaluate scores the current model on the evaluation subset. It is legal
// once the model is built and after the run is done.
func (t *Trainer) Evaluate() (Result, error) {
	if err := expect("Evaluate", t.state, ModelReady, Done); err != nil {
		return Result{}, err
	}
	return Evaluate(t.model, t.eval)
}
