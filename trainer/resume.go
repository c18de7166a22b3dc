package trainer

import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/textclassifier/checkpoint"
import "github.com/neurlang/textclassifier/net/mlp"
import "github.com/neurlang/textclassifier/tfidf"

// Resume loads the parameters of the checkpoint in store into model. The
// checkpoint extractor must equal extractor, otherwise its features would
// mean something else. A missing checkpoint is not an error: Resume reports
// false and model keeps its fresh parameters.
func Resume(model *mlp.Classifier, extractor *tfidf.State, store Store, logger *zap.Logger) (bool, error) {
	dir := store.Dir()
	if !checkpoint.Exists(dir) {
		logger.Warn("No checkpoint to resume from, starting fresh", zap.String("dir", dir))
		return false, nil
	}
	cp, err := store.Load()
	if err != nil {
		return false, errors.Wrap(err, "resume")
	}
	if !extractor.Equal(cp.Extractor) {
		return false, errors.Wrapf(checkpoint.ErrInconsistent,
			"resume: extractor in %s was fit on different training text", dir)
	}
	if err := model.CopyFrom(cp.Model); err != nil {
		return false, errors.Wrap(err, "resume")
	}
	logger.Info("Resumed from checkpoint", zap.String("dir", dir))
	return true, nil
}
