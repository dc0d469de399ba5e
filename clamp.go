package rbm

import "github.com/chewxy/math32"

func sigmoid(x float32) float32 { return 1 / (1 + math32.Exp(-x)) }

// clampInput computes p(h_i = 1 | v) = σ(b_i + Σ_j w_ij v_j) for every hidden unit.
func clampInput(w [][]float32, biasOut, v, h []float32) {
	for i, row := range w {
		act := biasOut[i]
		for j, wij := range row {
			act += wij * v[j]
		}
		h[i] = sigmoid(act)
	}
}

// clampOutput computes p(v_j = 1 | h) = σ(a_j + Σ_i w_ij h_i) for every visible unit.
func clampOutput(w [][]float32, biasIn, h, v []float32) {
	copy(v, biasIn)
	for i, row := range w {
		hi := h[i]
		for j, wij := range row {
			v[j] += wij * hi
		}
	}
	for j := range v {
		v[j] = sigmoid(v[j])
	}
}

func allFinite(a []float32) bool {
	for _, v := range a {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
