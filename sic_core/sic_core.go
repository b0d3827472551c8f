package sic_core

import (
	"gonum.org/v1/gonum/mat"
)

// UniformPriors returns an n x users probability matrix with every entry at
// 0.5, the uninformative starting point of an inference pass.
func UniformPriors(n int, users int) *mat.Dense {
	p := mat.NewDense(n, users, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < users; j++ {
			p.Set(i, j, 0.5)
		}
	}
	return p
}

// AugmentedInput concatenates the raw antenna observations with the
// probability columns of every user except the target one. The result has
// shape [n, nAnt + nUsers - 1] and is always built fresh from the current
// probability snapshot, never cached across iterations.
func AugmentedInput(rx *mat.Dense, probsVec *mat.Dense, user int) *mat.Dense {
	n, nAnt := rx.Dims()
	_, nUsers := probsVec.Dims()

	augmented := mat.NewDense(n, nAnt+nUsers-1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < nAnt; j++ {
			augmented.Set(i, j, rx.At(i, j))
		}
		col := nAnt
		for other := 0; other < nUsers; other++ {
			if other == user {
				continue
			}
			augmented.Set(i, col, probsVec.At(i, other))
			col++
		}
	}
	return augmented
}

// HardDecision converts probabilities to BPSK symbols by hard threshold:
// [0, 0.5) -> -1, [0.5, 1] -> +1.
func HardDecision(probsVec *mat.Dense) *mat.Dense {
	n, users := probsVec.Dims()
	symbols := mat.NewDense(n, users, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < users; j++ {
			if probsVec.At(i, j) >= 0.5 {
				symbols.Set(i, j, 1)
			} else {
				symbols.Set(i, j, -1)
			}
		}
	}
	return symbols
}

// SplitByBit partitions one user's probability column into the samples whose
// true transmitted bit was 0 and those whose bit was 1.
func SplitByBit(probsCol []float64, txCol []float64) (s0 []float64, s1 []float64) {
	for i, bit := range txCol {
		if bit == 0 {
			s0 = append(s0, probsCol[i])
		} else {
			s1 = append(s1, probsCol[i])
		}
	}
	return s0, s1
}

// Column copies column j of m into a fresh slice.
func Column(m *mat.Dense, j int) []float64 {
	return mat.Col(nil, j, m)
}

// Row32 copies row i of m into a float32 slice for the detector networks.
func Row32(m *mat.Dense, i int) []float32 {
	_, cols := m.Dims()
	row := make([]float32, cols)
	for j := 0; j < cols; j++ {
		row[j] = float32(m.At(i, j))
	}
	return row
}

// BitErrorRate counts the fraction of mismatching entries between two
// equally shaped bit matrices.
func BitErrorRate(detected *mat.Dense, truth *mat.Dense) float64 {
	n, users := truth.Dims()
	if n == 0 || users == 0 {
		return 0
	}
	errors := 0
	for i := 0; i < n; i++ {
		for j := 0; j < users; j++ {
			if detected.At(i, j) != truth.At(i, j) {
				errors++
			}
		}
	}
	return float64(errors) / float64(n*users)
}
