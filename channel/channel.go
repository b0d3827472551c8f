package channel

import (
	"math"
	"math/rand"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearChannel is a flat multiuser MIMO channel: every antenna observes a
// linear combination of all users' symbols plus white Gaussian noise,
// rx = symbols * H^T + w.
type LinearChannel struct {
	h     *mat.Dense // nAnt x nUsers
	noise distuv.Normal
}

// NewLinearChannel copies the channel matrix and sets the noise level from
// the signal-to-noise ratio in dB (unit symbol energy assumed).
func NewLinearChannel(h *mat.Dense, snrDB float64, seed uint64) *LinearChannel {
	sigma := math.Pow(10, -snrDB/20)
	return &LinearChannel{
		h: mat.DenseCopyOf(h),
		noise: distuv.Normal{
			Mu:    0,
			Sigma: sigma,
			Src:   exprand.NewSource(seed),
		},
	}
}

// Transmit pushes a block of ±1 symbols (n x nUsers) through the channel and
// returns the noisy antenna observations (n x nAnt).
func (c *LinearChannel) Transmit(symbols *mat.Dense) *mat.Dense {
	n, _ := symbols.Dims()
	nAnt, _ := c.h.Dims()
	rx := mat.NewDense(n, nAnt, nil)
	rx.Mul(symbols, c.h.T())
	for i := 0; i < n; i++ {
		for j := 0; j < nAnt; j++ {
			rx.Set(i, j, rx.At(i, j)+c.noise.Rand())
		}
	}
	return rx
}

// ScaleUser rescales one user's channel column. Subsequent blocks see a
// different conditional observation distribution for that user, which is how
// the simulation sweep induces drift.
func (c *LinearChannel) ScaleUser(user int, factor float64) {
	nAnt, _ := c.h.Dims()
	for i := 0; i < nAnt; i++ {
		c.h.Set(i, user, c.h.At(i, user)*factor)
	}
}

// RandomChannelMatrix draws an nAnt x nUsers matrix of standard Gaussian
// coefficients, one independent channel realization.
func RandomChannelMatrix(nAnt int, nUsers int, localRand *rand.Rand) *mat.Dense {
	h := mat.NewDense(nAnt, nUsers, nil)
	for i := 0; i < nAnt; i++ {
		for j := 0; j < nUsers; j++ {
			h.Set(i, j, localRand.NormFloat64())
		}
	}
	return h
}
