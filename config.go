package rbm

import "github.com/pkg/errors"

// GradientScale says how the summed gradient of a minibatch is scaled before it is applied.
type GradientScale int

const (
	// MeanGradient divides the summed gradient by the batch size.
	MeanGradient GradientScale = iota
	// SumGradient applies the summed gradient as is.
	SumGradient
)

func (s GradientScale) String() string {
	switch s {
	case MeanGradient:
		return "mean"
	case SumGradient:
		return "sum"
	}
	return "unknown"
}

// Config configures the RBM and its trainer.
type Config struct {
	Name string

	Inputs  int // visible units
	Outputs int // hidden units

	LearningRate float64
	BatchSize    int
	CDn          int // Gibbs steps per example

	UseMomentum   bool
	MomentumDecay float64

	Scale      GradientScale
	Seed       int64   // 0 seeds from the clock
	InitStdDev float64 // std dev of the initial weights

	// extensions
	Sampler       SamplerFunc
	OutputEncoder OutputEncoder
	Verbose       bool
}

// DefaultConf returns a config following the usual recipe for binary RBMs:
// small gaussian weights, CD-1, plain gradient steps.
func DefaultConf(inputs, outputs int) Config {
	return Config{
		Name:         "RBM",
		Inputs:       inputs,
		Outputs:      outputs,
		LearningRate: 0.1,
		BatchSize:    10,
		CDn:          1,
		Scale:        MeanGradient,
		InitStdDev:   0.01,
	}
}

func (conf Config) IsValid() bool { return conf.Validate() == nil }

// Validate returns an error naming the first bad field.
func (conf Config) Validate() error {
	switch {
	case conf.Inputs <= 0:
		return errors.Errorf("Inputs must be positive. Got %d", conf.Inputs)
	case conf.Outputs <= 0:
		return errors.Errorf("Outputs must be positive. Got %d", conf.Outputs)
	case !(conf.LearningRate > 0):
		return errors.Errorf("LearningRate must be positive. Got %v", conf.LearningRate)
	case conf.BatchSize <= 0:
		return errors.Errorf("BatchSize must be positive. Got %d", conf.BatchSize)
	case conf.CDn < 1:
		return errors.Errorf("CDn must be at least 1. Got %d", conf.CDn)
	case conf.UseMomentum && (conf.MomentumDecay < 0 || conf.MomentumDecay >= 1):
		return errors.Errorf("MomentumDecay must be in [0, 1). Got %v", conf.MomentumDecay)
	case conf.Scale != MeanGradient && conf.Scale != SumGradient:
		return errors.Errorf("Unknown gradient scale %d", conf.Scale)
	case conf.InitStdDev < 0:
		return errors.Errorf("InitStdDev cannot be negative. Got %v", conf.InitStdDev)
	}
	return nil
}
