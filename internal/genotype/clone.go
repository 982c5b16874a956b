package genotype

import "neurogonos/internal/model"

// CloneGenome returns a deep copy: child mutations never reach the source.
func CloneGenome(g model.Genome) model.Genome {
	out := g
	out.Layers = make([]model.Layer, len(g.Layers))
	for i := range g.Layers {
		out.Layers[i] = CloneLayer(g.Layers[i])
	}
	return out
}

// CloneLayer deep-copies one layer's weight and bias storage.
func CloneLayer(l model.Layer) model.Layer {
	out := l
	out.Weights = append([]float64(nil), l.Weights...)
	out.Biases = append([]float64(nil), l.Biases...)
	return out
}
