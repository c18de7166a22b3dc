package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/neurlang/textclassifier/checkpoint"
	"github.com/neurlang/textclassifier/config"
	"github.com/neurlang/textclassifier/datasets"
	"github.com/neurlang/textclassifier/net/mlp"
)

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "", configPath(nil))
	assert.Equal(t, "a.yaml", configPath([]string{"--seed", "1", "--config", "a.yaml"}))
	assert.Equal(t, "b.yaml", configPath([]string{"--config=b.yaml"}))
	assert.Equal(t, "", configPath([]string{"--config"}))
}

func TestParseDefaults(t *testing.T) {
	a, help, err := parse(nil)
	require.NoError(t, err)
	assert.False(t, help)
	assert.Equal(t, config.Default(), a.TrainingRun)
}

func TestParsePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_train_epochs: 5\nhidden_size: 64\n"), 0o644))

	a, _, err := parse([]string{"--config", path, "--hidden_size", "32", "--dataset_name", "sst2"})
	require.NoError(t, err)
	assert.Equal(t, 5, a.NumTrainEpochs, "file over default")
	assert.Equal(t, 32, a.HiddenSize, "flag over file")
	assert.Equal(t, "sst2", a.DatasetName)
	assert.Equal(t, 8, a.BatchSize, "default kept")
	assert.Equal(t, path, a.Config)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, _, err := parse([]string{"--batch_size", "0"})
	assert.True(t, errors.Is(err, config.ErrConfig))

	_, _, err = parse([]string{"--device", "cuda"})
	assert.True(t, errors.Is(err, config.ErrConfig))

	_, _, err = parse([]string{"--no_such_flag"})
	assert.True(t, errors.Is(err, config.ErrConfig))
}

func writeSplit(t *testing.T, path string, samples datasets.Samples) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, s := range samples {
		require.NoError(t, enc.Encode(map[string]interface{}{"text": s.Text, "label": s.Label}))
	}
}

var toy = datasets.Samples{
	{Text: "great film, loved it", Label: 0},
	{Text: "awful film, hated it", Label: 1},
	{Text: "wonderful acting and great story", Label: 0},
	{Text: "boring story and awful acting", Label: 1},
	{Text: "loved the wonderful plot", Label: 0},
	{Text: "hated the boring plot", Label: 1},
}

func toyArgs(t *testing.T, samples datasets.Samples) args {
	t.Helper()
	root := t.TempDir()
	writeSplit(t, filepath.Join(root, "data", "toy", "train.jsonl"), samples)
	writeSplit(t, filepath.Join(root, "data", "toy", "test.jsonl"), samples)

	a := args{TrainingRun: config.Default()}
	a.DatasetName = "toy"
	a.DataDir = filepath.Join(root, "data")
	a.OutputDir = filepath.Join(root, "results")
	a.NumTrainEpochs = 3
	a.BatchSize = 2
	a.SubsetSize = 100
	a.EvalSubsetSize = 100
	a.LoggingSteps = 1
	a.InputSize = 16
	a.HiddenSize = 4
	a.LearningRate = 0.05
	require.NoError(t, a.Validate())
	return a
}

func TestTrainWritesCheckpointAndReports(t *testing.T) {
	a := toyArgs(t, toy)
	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, train(a, zap.New(core)))

	results := logs.FilterMessageSnippet("Evaluation results").All()
	require.Len(t, results, 1)
	assert.Equal(t, int64(len(toy)), results[0].ContextMap()["total"])
	assert.Equal(t, 1, logs.FilterMessage("Training finished").Len())

	for _, name := range []string{checkpoint.ModelFile, checkpoint.DescriptorFile, checkpoint.ExtractorFile} {
		_, err := os.Stat(filepath.Join(a.OutputDir, name))
		assert.NoError(t, err, name)
	}
}

func TestTrainMissingDataset(t *testing.T) {
	a := toyArgs(t, toy)
	a.DatasetName = "no_such_dataset"
	err := train(a, zap.NewNop())
	assert.True(t, errors.Is(err, datasets.ErrDataLoad), "got %v", err)
	assert.False(t, checkpoint.Exists(a.OutputDir))
}

func TestTrainLabelBeyondOutputSize(t *testing.T) {
	samples := append(datasets.Samples{{Text: "neutral film", Label: 2}}, toy...)
	a := toyArgs(t, samples)
	err := train(a, zap.NewNop())
	assert.True(t, errors.Is(err, mlp.ErrShape), "got %v", err)
}

func TestLoggerStackTraces(t *testing.T) {
	var stacks = map[zapcore.Level]string{}
	logger, err := newLogger(zap.Hooks(func(e zapcore.Entry) error {
		stacks[e.Level] = e.Stack
		return nil
	}))
	require.NoError(t, err)

	logger.Warn("subset clamped")
	logger.Error("run failed")
	assert.Empty(t, stacks[zapcore.WarnLevel])
	assert.NotEmpty(t, stacks[zapcore.ErrorLevel])
}
