package rbm

import (
	"bytes"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

var Float = G.Float32

// RBM is a restricted Boltzmann machine: a layer of visible units fully connected to a layer of hidden units,
// with no connections within a layer.
//
// The weights are stored as an Outputs × Inputs matrix, so row i holds the connections of hidden unit i.
type RBM struct {
	Config
	Statistics

	weights  *tensor.Dense
	momentum *tensor.Dense
	w, mom   [][]float32 // row views of weights and momentum

	biasIn  []float32
	biasOut []float32

	r     *rand.Rand
	epoch int

	buf    bytes.Buffer
	logger *log.Logger
}

// New creates a RBM with gaussian weights, zero biases and a zero momentum matrix.
func New(conf Config) (*RBM, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.WithMessage(err, "Invalid config")
	}
	if conf.Sampler == nil {
		conf.Sampler = NewBernoulli
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var backing []float32
	if conf.InitStdDev > 0 {
		backing = G.Gaussian(0, conf.InitStdDev)(Float, conf.Outputs, conf.Inputs).([]float32)
	} else {
		backing = make([]float32, conf.Outputs*conf.Inputs)
	}

	retVal := &RBM{
		Config:     conf,
		Statistics: makeStatistics(),
		weights:    tensor.New(tensor.WithBacking(backing), tensor.WithShape(conf.Outputs, conf.Inputs)),
		momentum:   tensor.New(tensor.WithBacking(make([]float32, conf.Outputs*conf.Inputs)), tensor.WithShape(conf.Outputs, conf.Inputs)),
		biasIn:     make([]float32, conf.Inputs),
		biasOut:    make([]float32, conf.Outputs),
		r:          rand.New(rand.NewSource(seed)),
	}
	retVal.logger = log.New(&retVal.buf, "", log.Ltime)

	var err error
	if retVal.w, err = native.MatrixF32(retVal.weights); err != nil {
		return nil, errors.Wrapf(err, "Unable to view weights")
	}
	if retVal.mom, err = native.MatrixF32(retVal.momentum); err != nil {
		return nil, errors.Wrapf(err, "Unable to view momentum")
	}
	return retVal, nil
}

// SetWeights copies w (Outputs rows of Inputs columns) into the weight matrix.
func (m *RBM) SetWeights(w [][]float32) error {
	if len(w) != m.Outputs {
		return errors.Errorf("Expected %d rows of weights. Got %d", m.Outputs, len(w))
	}
	for i, row := range w {
		if len(row) != m.Inputs {
			return errors.Errorf("Expected %d weights in row %d. Got %d", m.Inputs, i, len(row))
		}
	}
	for i, row := range w {
		copy(m.w[i], row)
	}
	return nil
}

// SetBiases copies the input and output biases into the model.
func (m *RBM) SetBiases(in, out []float32) error {
	if len(in) != m.Inputs {
		return errors.Errorf("Expected %d input biases. Got %d", m.Inputs, len(in))
	}
	if len(out) != m.Outputs {
		return errors.Errorf("Expected %d output biases. Got %d", m.Outputs, len(out))
	}
	copy(m.biasIn, in)
	copy(m.biasOut, out)
	return nil
}

// Weights returns the Outputs × Inputs weight matrix. The returned tensor is owned by the RBM.
func (m *RBM) Weights() *tensor.Dense { return m.weights }

// Momentum returns the momentum (velocity) matrix. It stays zero unless UseMomentum is set.
func (m *RBM) Momentum() *tensor.Dense { return m.momentum }

func (m *RBM) BiasInputs() []float32  { return m.biasIn }
func (m *RBM) BiasOutputs() []float32 { return m.biasOut }

// Epoch returns the number of epochs trained so far.
func (m *RBM) Epoch() int { return m.epoch }

// Name returns the name of the model.
func (m *RBM) Name() string { return m.Config.Name }

// ExecLog returns the training log.
func (m *RBM) ExecLog() string { return m.buf.String() }

// Reconstruct runs one deterministic up-down pass: it returns the hidden probabilities given v,
// and the visible probabilities given those.
func (m *RBM) Reconstruct(v []float32) (h, vRecon []float32, err error) {
	if len(v) != m.Inputs {
		return nil, nil, errors.Errorf("Expected an example of %d inputs. Got %d", m.Inputs, len(v))
	}
	h = make([]float32, m.Outputs)
	vRecon = make([]float32, m.Inputs)
	clampInput(m.w, m.biasOut, v, h)
	clampOutput(m.w, m.biasIn, h, vRecon)
	return h, vRecon, nil
}
