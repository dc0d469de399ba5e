package rbm

import "gorgonia.org/tensor"

// Snapshot is the state of a model handed to an OutputEncoder at the end of each epoch.
type Snapshot interface {
	Name() string
	Epoch() int // number of epochs completed
	Weights() *tensor.Dense
}

// OutputEncoder encodes snapshots of a training run as whatever.
//
// An example OutputEncoder is the gif.Encoder, which draws the weights of every epoch as a frame.
type OutputEncoder interface {
	Encode(s Snapshot) error
	Flush() error
}

// ExecLogger is anything that can return the execution log.
type ExecLogger interface {
	ExecLog() string
}

var (
	_ Snapshot   = &RBM{}
	_ ExecLogger = &RBM{}
)
