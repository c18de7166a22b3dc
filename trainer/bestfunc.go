package trainer

// Best is the best evaluation seen so far in a run.
type Best struct {
	Accuracy float64 // percent
	Epoch    int     // 1-based, 0 before any epoch improved
	Saved    bool    // a checkpoint holding this model is on disk
}

// Improve returns the record for an epoch scoring acc and whether it beats b.
// Only a strictly higher accuracy counts; on a tie b is returned unchanged.
func (b Best) Improve(epoch int, acc float64) (Best, bool) {
	if acc > b.Accuracy {
		return Best{Accuracy: acc, Epoch: epoch}, true
	}
	return b, false
}
