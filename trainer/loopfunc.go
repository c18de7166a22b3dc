package trainer

import "fmt"

import "go.uber.org/zap"

// Loop runs epochs rounds of train followed by evaluate. Whenever an
// evaluation beats best, save is called with the new record before it is
// adopted. The first error aborts the loop and is returned with the best
// record reached so far.
func Loop(epochs int, best Best, train func(epoch int) (float64, error), evaluate func() (Result, error),
	save func(Best) error, logger *zap.Logger) (Best, error) {

	for epoch := 1; epoch <= epochs; epoch++ {
		loss, err := train(epoch)
		if err != nil {
			return best, err
		}
		result, err := evaluate()
		if err != nil {
			return best, err
		}
		logger.Info(fmt.Sprintf("Epoch [%d/%d], Loss: %.4f, Validation Accuracy: %.2f%%",
			epoch, epochs, loss, result.Accuracy),
			zap.Int("correct", result.Correct),
			zap.Int("total", result.Total),
			zap.String("fingerprint", fmt.Sprintf("%x", result.Fingerprint[:8])))

		next, ok := best.Improve(epoch, result.Accuracy)
		if !ok {
			continue
		}
		if err := save(next); err != nil {
			return best, err
		}
		next.Saved = true
		best = next
		logger.Info(fmt.Sprintf("Best model saved with accuracy: %.2f%%", best.Accuracy),
			zap.Int("epoch", best.Epoch))
	}
	return best, nil
}
