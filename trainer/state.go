package trainer

import "github.com/pkg/errors"

// ErrState marks an operation called in the wrong phase of a run.
var ErrState = errors.New("invalid trainer state")

// State is the phase of a training run.
type State int

const (
	Uninitialized State = iota
	DataReady
	ModelReady
	EpochRunning
	Evaluating
	Done
)

var stateNames = [...]string{
	Uninitialized: "uninitialized",
	DataReady:     "data ready",
	ModelReady:    "model ready",
	EpochRunning:  "epoch running",
	Evaluating:    "evaluating",
	Done:          "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func expect(op string, got State, want ...State) error {
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	return errors.Wrapf(ErrState, "%s called in state %q", op, got)
}
