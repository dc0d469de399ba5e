package rbm

import "gorgonia.org/vecf32"

// Momentum follows Nesterov's accelerated gradient as formulated by Sutskever (2013), eq. 7.10 and 7.11:
// the decayed velocity is added to the weights before the gradient is evaluated (lookahead), and
// the gradient step is then added to both the weights and the velocity (apply).
// Biases do not use momentum.

// lookahead takes the first half of a momentum step: v = μv; θ = θ + v.
func (m *RBM) lookahead() {
	decay := float32(m.MomentumDecay)
	for i, row := range m.mom {
		vecf32.Scale(row, decay)
		vecf32.Add(m.w[i], row)
	}
}

// stepSize is the factor applied to summed gradients.
func (m *RBM) stepSize(d *delta) float32 {
	if m.Scale == SumGradient {
		return d.learningRate
	}
	return d.learningRate / float32(d.batchSize)
}

// apply adds the gradient in d to the model. With momentum enabled the step is also added to the velocity.
//
// apply is the only place the weights and biases are written to during training.
func (m *RBM) apply(d *delta) {
	step := m.stepSize(d)
	for i, row := range d.dWRows {
		m.biasOut[i] += step * d.dBiasOut[i]
		w := m.w[i]
		for j, g := range row {
			s := step * g
			w[j] += s
			if m.UseMomentum {
				m.mom[i][j] += s
			}
		}
	}
	if d.policy == ContributesInputBias {
		for j, g := range d.dBiasIn {
			m.biasIn[j] += step * g
		}
	}
}
