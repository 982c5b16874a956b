package genotype

import (
	"errors"
	"fmt"
	"math/rand"

	"neurogonos/internal/model"
)

// WeightScale is the half-width of the uniform interval fresh weights and
// biases are drawn from, both at construction and when growth adds units.
const WeightScale = 0.1

// SecondHiddenProb is the chance NewRandom extends the topology with a
// second hidden layer.
const SecondHiddenProb = 0.25

// NewRandom builds a genome with a randomly chosen hidden topology: one
// hidden layer, extended to two with probability SecondHiddenProb. Hidden
// widths are uniform over [MinHiddenUnits, MaxHiddenUnits].
func NewRandom(rng *rand.Rand) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, errors.New("random source is required")
	}
	widths := []int{RandHiddenUnits(rng)}
	if rng.Float64() < SecondHiddenProb {
		widths = append(widths, RandHiddenUnits(rng))
	}
	return FromHiddenWidths(widths, rng)
}

// FromHiddenWidths builds a genome chaining InputDim through the given
// hidden widths to OutputDim, every transition filled with fresh random
// weights at WeightScale. Widths may be empty, yielding a single direct
// input-to-output layer. Width bounds are not enforced here; Validate is
// the gate for canonical brains.
func FromHiddenWidths(widths []int, rng *rand.Rand) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, errors.New("random source is required")
	}
	for i, w := range widths {
		if w <= 0 {
			return model.Genome{}, fmt.Errorf("hidden width at index %d must be > 0, got=%d", i, w)
		}
	}

	layers := make([]model.Layer, 0, len(widths)+1)
	in := model.InputDim
	for _, w := range widths {
		layers = append(layers, NewRandomLayer(in, w, WeightScale, rng))
		in = w
	}
	layers = append(layers, NewRandomLayer(in, model.OutputDim, WeightScale, rng))
	return model.Genome{Layers: layers}, nil
}

// NewRandomLayer fills an inDim->outDim layer, all weights in row-major
// order first and then all biases, each drawn uniformly from
// [-scale, scale). rng must be non-nil.
func NewRandomLayer(inDim, outDim int, scale float64, rng *rand.Rand) model.Layer {
	l := model.Layer{
		InDim:   inDim,
		OutDim:  outDim,
		Weights: make([]float64, outDim*inDim),
		Biases:  make([]float64, outDim),
	}
	for i := range l.Weights {
		l.Weights[i] = Uniform(rng, -scale, scale)
	}
	for i := range l.Biases {
		l.Biases[i] = Uniform(rng, -scale, scale)
	}
	return l
}

// RandHiddenUnits draws a hidden width uniformly over the inclusive range
// [MinHiddenUnits, MaxHiddenUnits].
func RandHiddenUnits(rng *rand.Rand) int {
	return model.MinHiddenUnits + rng.Intn(model.MaxHiddenUnits-model.MinHiddenUnits+1)
}

// RandomWeight draws one fresh connection weight at the construction scale.
func RandomWeight(rng *rand.Rand) float64 {
	return Uniform(rng, -WeightScale, WeightScale)
}

// Uniform draws from the half-open interval [lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
