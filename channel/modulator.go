package channel

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BPSK mapping: bit 0 -> symbol -1, bit 1 -> symbol +1.

// Modulate maps a bit matrix onto antipodal symbol amplitudes.
func Modulate(bits *mat.Dense) *mat.Dense {
	n, users := bits.Dims()
	symbols := mat.NewDense(n, users, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < users; j++ {
			symbols.Set(i, j, 2*bits.At(i, j)-1)
		}
	}
	return symbols
}

// Demodulate maps hard ±1 symbols back to 0/1 bits.
func Demodulate(symbols *mat.Dense) *mat.Dense {
	n, users := symbols.Dims()
	bits := mat.NewDense(n, users, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < users; j++ {
			bits.Set(i, j, (symbols.At(i, j)+1)/2)
		}
	}
	return bits
}

// GenerateBits draws an n x users matrix of uniform random bits.
func GenerateBits(n int, users int, localRand *rand.Rand) *mat.Dense {
	bits := mat.NewDense(n, users, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < users; j++ {
			bits.Set(i, j, float64(localRand.Intn(2)))
		}
	}
	return bits
}
