package sic_models

import (
	"github.com/openfluke/loom/nn"
)

const (
	hiddenSize = 60
	numLayers  = 3
)

// SoftDetector is a single cell of the detector grid: a small two-class
// network mapping one augmented observation (antenna values plus the other
// users' bit probabilities) to a probability distribution over the bit.
type SoftDetector struct {
	net   *nn.Network
	inDim int
}

// NewSoftDetector builds a freshly initialized detector for the given
// augmented-input width.
func NewSoftDetector(inDim int) *SoftDetector {
	net := nn.NewNetwork(inDim, 1, 1, numLayers)
	net.SetLayer(0, 0, 0, nn.InitDenseLayer(inDim, hiddenSize, nn.ActivationLeakyReLU))
	net.SetLayer(0, 0, 1, nn.InitDenseLayer(hiddenSize, 2, nn.ActivationType(-1))) // linear head
	net.SetLayer(0, 0, 2, nn.InitSoftmaxLayer())
	net.InitializeWeights()
	return &SoftDetector{net: net, inDim: inDim}
}

// Probabilities runs a forward pass and returns the two-class distribution
// for one augmented observation. Inference only: parameters are never
// touched here.
func (d *SoftDetector) Probabilities(row []float32) []float32 {
	out, _ := d.net.ForwardCPU(row)
	return out
}

// Fit trains the detector with per-sample cross-entropy gradient steps over
// the whole input set for the requested number of epochs. The step state is
// rebuilt on every call, so training never resumes from a previous episode.
func (d *SoftDetector) Fit(inputs [][]float32, labels []int, epochs int, learnRate float32) {
	state := d.net.InitStepState(d.inDim)
	for epoch := 0; epoch < epochs; epoch++ {
		for i, input := range inputs {
			state.SetInput(input)
			for s := 0; s < numLayers; s++ {
				d.net.StepForward(state)
			}
			output := state.GetOutput()
			// Softmax + cross entropy: gradient is output minus one-hot.
			grad := make([]float32, len(output))
			copy(grad, output)
			grad[labels[i]] -= 1
			d.net.StepBackward(state, grad)
			d.net.ApplyGradients(learnRate)
		}
	}
}
