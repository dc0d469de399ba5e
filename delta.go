package rbm

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
	"gorgonia.org/vecf32"
)

// InputBiasPolicy says whether the input bias gradient carried by an accumulator is applied to the model.
//
// Every accumulator sums its examples' input bias gradient, but only one accumulator per minibatch
// (the first shard's, into which the others are merged) may have it applied.
type InputBiasPolicy byte

const (
	ContributesInputBias InputBiasPolicy = iota
	SkipsInputBias
)

func (p InputBiasPolicy) String() string {
	if p == ContributesInputBias {
		return "ContributesInputBias"
	}
	return "SkipsInputBias"
}

// delta accumulates the CD gradient of a set of examples.
type delta struct {
	dW       *tensor.Dense // Outputs × Inputs
	dWRows   [][]float32   // row views into dW
	dBiasIn  []float32
	dBiasOut []float32

	learningRate float32
	batchSize    int
	policy       InputBiasPolicy

	sqErr    float32 // Σ (v - vRecon)² over the examples seen
	examples int
}

func newDelta(conf *Config, policy InputBiasPolicy) *delta {
	dW := tensor.New(tensor.WithBacking(make([]float32, conf.Outputs*conf.Inputs)), tensor.WithShape(conf.Outputs, conf.Inputs))
	rows, err := native.MatrixF32(dW)
	if err != nil {
		// dW is constructed as a float32 matrix just above.
		panic(err)
	}
	return &delta{
		dW:           dW,
		dWRows:       rows,
		dBiasIn:      make([]float32, conf.Inputs),
		dBiasOut:     make([]float32, conf.Outputs),
		learningRate: float32(conf.LearningRate),
		batchSize:    conf.BatchSize,
		policy:       policy,
	}
}

// merge adds other into d and releases other. d keeps its own policy.
func (d *delta) merge(other *delta) error {
	if !d.dW.Shape().Eq(other.dW.Shape()) {
		return errors.Errorf("Cannot merge gradients of shape %v into %v", other.dW.Shape(), d.dW.Shape())
	}
	vecf32.Add(d.dW.Data().([]float32), other.dW.Data().([]float32))
	vecf32.Add(d.dBiasIn, other.dBiasIn)
	vecf32.Add(d.dBiasOut, other.dBiasOut)
	d.sqErr += other.sqErr
	d.examples += other.examples
	other.release()
	return nil
}

func (d *delta) release() {
	if d.dW != nil {
		tensor.ReturnTensor(d.dW)
	}
	d.dW = nil
	d.dWRows = nil
	d.dBiasIn = nil
	d.dBiasOut = nil
}
