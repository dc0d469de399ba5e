package rbm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

// Train trains m with contrastive divergence for the given number of epochs. xs holds one example per row, and
// must have m.Inputs columns. If threads > 0, each minibatch is split across that many goroutines.
//
// Every epoch walks xs from the start in minibatches of m.BatchSize examples. Examples after the last full
// minibatch are ignored. Train returns m.
func Train(m *RBM, xs *tensor.Dense, epochs, threads int) (*RBM, error) {
	return TrainContext(context.Background(), m, xs, epochs, threads)
}

// TrainFlat is Train on a flat buffer of consecutive examples. len(data) must be a multiple of m.Inputs.
func TrainFlat(m *RBM, data []float32, epochs, threads int) (*RBM, error) {
	if err := m.checkRun(epochs, threads); err != nil {
		return m, err
	}
	if len(data)%m.Inputs != 0 {
		return m, errors.Errorf("Training data of %d values is not a multiple of %d inputs", len(data), m.Inputs)
	}
	examples := make([][]float32, len(data)/m.Inputs)
	for i := range examples {
		examples[i] = data[i*m.Inputs : (i+1)*m.Inputs]
	}
	return m.train(context.Background(), examples, epochs, threads)
}

// TrainContext is Train with cancellation. ctx is checked between minibatches, so a cancelled run never leaves
// a minibatch half applied.
func TrainContext(ctx context.Context, m *RBM, xs *tensor.Dense, epochs, threads int) (*RBM, error) {
	examples, err := m.prepare(xs, epochs, threads)
	if err != nil {
		return m, err
	}
	return m.train(ctx, examples, epochs, threads)
}

func (m *RBM) train(ctx context.Context, examples [][]float32, epochs, threads int) (*RBM, error) {
	var err error
	batches := len(examples) / m.BatchSize
	m.logger.Printf("Training %s for %d epochs. %d examples, %d batches of %d, CD-%d, %d threads", m.Name(), epochs, len(examples), batches, m.BatchSize, m.CDn, threads)
	for e := 0; e < epochs; e++ {
		start := time.Now()
		var sqErr float32
		var seen int

		m.logger.SetPrefix("\t")
		for bat := 0; bat < batches; bat++ {
			if err = ctx.Err(); err != nil {
				m.logger.SetPrefix("")
				return m, errors.WithStack(err)
			}
			batchStart := bat * m.BatchSize
			batch := examples[batchStart : batchStart+m.BatchSize]

			if m.UseMomentum {
				m.lookahead()
			}
			d, err := m.minibatch(batch, threads)
			if err != nil {
				m.logger.SetPrefix("")
				return m, errors.WithMessagef(err, "Epoch %d, batch %d", m.epoch, bat)
			}
			m.apply(d)
			sqErr += d.sqErr
			seen += d.examples
			d.release()

			if m.Verbose {
				m.logger.Printf("Batch %d done", bat)
			}
		}
		m.logger.SetPrefix("")

		var recon float32
		if seen > 0 {
			recon = sqErr / float32(seen)
		}
		m.Statistics.update(m.epoch, recon, time.Since(start))
		m.logger.Printf("Epoch %d: reconstruction error %v (%v)", m.epoch, recon, time.Since(start))
		m.epoch++

		if m.OutputEncoder != nil {
			if err = m.OutputEncoder.Encode(m); err != nil {
				return m, errors.WithMessage(err, "Unable to encode snapshot")
			}
		}
	}
	if m.OutputEncoder != nil && epochs > 0 {
		if err = m.OutputEncoder.Flush(); err != nil {
			return m, errors.WithMessage(err, "Unable to flush snapshots")
		}
	}
	return m, nil
}

// prepare checks everything that could fail before any minibatch is run, and returns the rows of xs.
func (m *RBM) prepare(xs *tensor.Dense, epochs, threads int) ([][]float32, error) {
	if err := m.checkRun(epochs, threads); err != nil {
		return nil, err
	}
	if xs == nil {
		return nil, errors.New("No training data")
	}
	if xs.Dtype() != Float {
		return nil, errors.Errorf("Expected training data of %v. Got %v", Float, xs.Dtype())
	}
	shape := xs.Shape()
	if shape.Dims() != 2 || shape[1] != m.Inputs {
		return nil, errors.Errorf("Expected training data of shape (n, %d). Got %v", m.Inputs, shape)
	}
	if strides := xs.Strides(); xs.DataOrder().IsColMajor() || strides[0] != shape[1] || strides[1] != 1 {
		var err error
		if xs, err = rowMajor(xs); err != nil {
			return nil, err
		}
	}
	rows, err := native.MatrixF32(xs)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to view training data")
	}
	return rows, nil
}

// rowMajor copies xs into a new contiguous row-major matrix.
func rowMajor(xs *tensor.Dense) (*tensor.Dense, error) {
	shape := xs.Shape()
	backing := make([]float32, 0, shape[0]*shape[1])
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			v, err := xs.At(i, j)
			if err != nil {
				return nil, errors.Wrapf(err, "Unable to read training data at (%d, %d)", i, j)
			}
			backing = append(backing, v.(float32))
		}
	}
	return tensor.New(tensor.WithBacking(backing), tensor.WithShape(shape[0], shape[1])), nil
}

func (m *RBM) checkRun(epochs, threads int) error {
	if err := m.Config.Validate(); err != nil {
		return errors.WithMessage(err, "Invalid config")
	}
	if shape := m.weights.Shape(); shape[0] != m.Outputs || shape[1] != m.Inputs || len(m.biasIn) != m.Inputs || len(m.biasOut) != m.Outputs {
		return errors.Errorf("Config of %d inputs and %d outputs does not match weights of shape %v", m.Inputs, m.Outputs, shape)
	}
	if m.Sampler == nil {
		return errors.New("No sampler")
	}
	if epochs < 0 {
		return errors.Errorf("Cannot train for %d epochs", epochs)
	}
	if threads > m.BatchSize {
		return errors.Errorf("%d threads leave some threads with no examples in a batch of %d", threads, m.BatchSize)
	}
	return nil
}
