package learning

// HyperParameters configures the Adam update rule.
type HyperParameters struct {
	LearningRate float64 // fixed step size

	Beta1 float64 // decay of the first moment estimate
	Beta2 float64 // decay of the second moment estimate

	Epsilon float64 // added to the denominator for numerical stability
}

// NewHyperParameters returns the usual Adam settings for learning rate lr.
func NewHyperParameters(lr float64) HyperParameters {
	return HyperParameters{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}
