package rbm

import "github.com/pkg/errors"

// doBatchMember runs CD-k Gibbs sampling for one example and adds its gradient to d.
//
// The model is only read.
func (m *RBM) doBatchMember(v []float32, d *delta, s Sampler) error {
	if len(v) != m.Inputs {
		return errors.Errorf("Expected an example of %d inputs. Got %d", m.Inputs, len(v))
	}

	h0 := borrowScratch(m.Outputs)
	hRecon := borrowScratch(m.Outputs)
	vRecon := borrowScratch(m.Inputs)
	defer returnScratch(h0)
	defer returnScratch(hRecon)
	defer returnScratch(vRecon)

	// p(h | v) with the example clamped to the visible units
	clampInput(m.w, m.biasOut, v, h0)
	copy(hRecon, h0)
	for cd := 0; cd < m.CDn; cd++ {
		clampOutput(m.w, m.biasIn, hRecon, vRecon)
		clampInput(m.w, m.biasOut, vRecon, hRecon)
	}
	if !allFinite(hRecon) || !allFinite(vRecon) {
		return errors.Errorf("Non-finite activation after %d Gibbs steps", m.CDn)
	}

	// <v_j h_i>_data - <v_j h_i>_recon. The data side samples the hidden state afresh for every weight,
	// the reconstruction side uses probabilities.
	for i, row := range d.dWRows {
		d.dBiasOut[i] += h0[i] - hRecon[i]
		for j := range row {
			row[j] += s.Bernoulli(h0[i])*v[j] - hRecon[i]*vRecon[j]
		}
	}
	for j := range d.dBiasIn {
		diff := v[j] - vRecon[j]
		d.dBiasIn[j] += diff
		d.sqErr += diff * diff
	}
	d.examples++
	return nil
}
