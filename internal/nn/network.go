package nn

import (
	"fmt"

	"neurogonos/internal/model"
)

// Forward evaluates the genome on one input frame. Every layer computes
// z = W*a + b; hidden layers pass z through ReLU, the output layer stays
// linear. Evaluation is pure: no randomness, no stored state, and the
// returned activations are freshly allocated.
func Forward(genome model.Genome, input []float64) ([]float64, error) {
	if len(genome.Layers) == 0 {
		return nil, fmt.Errorf("genome has no layers")
	}
	if got, want := len(input), genome.Layers[0].InDim; got != want {
		return nil, fmt.Errorf("input size mismatch: got=%d want=%d", got, want)
	}

	a := input
	for li, layer := range genome.Layers {
		if got := len(a); got != layer.InDim {
			return nil, fmt.Errorf("layer %d: input width mismatch: got=%d want=%d", li, got, layer.InDim)
		}
		if got, want := len(layer.Weights), layer.OutDim*layer.InDim; got != want {
			return nil, fmt.Errorf("layer %d: weight storage mismatch: got=%d want=%d", li, got, want)
		}
		if got := len(layer.Biases); got != layer.OutDim {
			return nil, fmt.Errorf("layer %d: bias storage mismatch: got=%d want=%d", li, got, layer.OutDim)
		}

		hidden := li < len(genome.Layers)-1
		next := make([]float64, layer.OutDim)
		for o := 0; o < layer.OutDim; o++ {
			acc := layer.Biases[o]
			row := layer.Weights[o*layer.InDim : (o+1)*layer.InDim]
			for i, w := range row {
				acc += w * a[i]
			}
			if hidden {
				acc = Relu(acc)
			}
			next[o] = acc
		}
		a = next
	}
	return a, nil
}
