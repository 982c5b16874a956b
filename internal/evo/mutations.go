package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"neurogonos/internal/genotype"
	"neurogonos/internal/model"
)

// SelectiveOperator can declare whether it has anything to do on a genome.
// Callers use this to skip guaranteed no-ops without treating them as
// failures; Apply on an inapplicable genome still succeeds and returns an
// unchanged clone.
type SelectiveOperator interface {
	Operator
	Applicable(genome model.Genome) bool
}

// PointMutation perturbs every weight and bias independently: each scalar
// mutates with probability Rate by a uniform delta in
// [-Magnitude, Magnitude).
type PointMutation struct {
	Rand      *rand.Rand
	Rate      float64
	Magnitude float64
}

func (o *PointMutation) Name() string {
	return "point_mutation"
}

func (o *PointMutation) Applicable(genome model.Genome) bool {
	return len(genome.Layers) > 0
}

func (o *PointMutation) Apply(_ context.Context, genome model.Genome) (model.Genome, error) {
	if o == nil || o.Rand == nil {
		return model.Genome{}, errors.New("random source is required")
	}
	if o.Rate < 0 || o.Rate > 1 {
		return model.Genome{}, fmt.Errorf("mutation rate must be in [0,1], got=%v", o.Rate)
	}
	if o.Magnitude < 0 {
		return model.Genome{}, fmt.Errorf("mutation magnitude must be >= 0, got=%v", o.Magnitude)
	}

	mutated := cloneGenome(genome)
	perturbScalars(mutated.Layers, o.Rand, o.Rate, o.Magnitude)
	return mutated, nil
}

// perturbScalars walks layers in order, weights before biases, drawing one
// probability per scalar and a delta only for the scalars that fire.
func perturbScalars(layers []model.Layer, rng *rand.Rand, rate, magnitude float64) {
	for li := range layers {
		layer := &layers[li]
		for i := range layer.Weights {
			if rng.Float64() < rate {
				layer.Weights[i] += genotype.Uniform(rng, -magnitude, magnitude)
			}
		}
		for i := range layer.Biases {
			if rng.Float64() < rate {
				layer.Biases[i] += genotype.Uniform(rng, -magnitude, magnitude)
			}
		}
	}
}

// GrowWidth widens one random hidden layer by 1..4 units, capped at
// MaxHiddenUnits. Existing connections keep their positions; the new rows,
// new biases, and the next layer's new input columns are drawn fresh.
// Genomes without hidden layers, and hidden layers already at the cap,
// pass through unchanged.
type GrowWidth struct {
	Rand *rand.Rand
}

func (o *GrowWidth) Name() string {
	return "grow_width"
}

func (o *GrowWidth) Applicable(genome model.Genome) bool {
	for i := 0; i < len(genome.Layers)-1; i++ {
		if genome.Layers[i].OutDim < model.MaxHiddenUnits {
			return true
		}
	}
	return false
}

func (o *GrowWidth) Apply(_ context.Context, genome model.Genome) (model.Genome, error) {
	if o == nil || o.Rand == nil {
		return model.Genome{}, errors.New("random source is required")
	}
	mutated := cloneGenome(genome)
	if len(mutated.Layers) < 2 {
		return mutated, nil
	}
	growHiddenAt(&mutated, o.Rand.Intn(len(mutated.Layers)-1), o.Rand)
	return mutated, nil
}

// growHiddenAt widens the hidden layer at index hid and rewires the next
// layer's input side to match. Draws happen in a fixed order: growth count,
// new weight rows, new biases, then the next layer's fresh columns row by
// row. The count draw is consumed even when the cap makes this a no-op.
func growHiddenAt(g *model.Genome, hid int, rng *rand.Rand) {
	if len(g.Layers) < 2 || hid < 0 || hid+1 >= len(g.Layers) {
		return
	}
	layer := &g.Layers[hid]

	grown := 1 + rng.Intn(4)
	newOut := layer.OutDim + grown
	if newOut > model.MaxHiddenUnits {
		newOut = model.MaxHiddenUnits
	}
	if newOut == layer.OutDim {
		return
	}

	oldOut := layer.OutDim
	weights := make([]float64, newOut*layer.InDim)
	copy(weights, layer.Weights)
	for i := oldOut * layer.InDim; i < len(weights); i++ {
		weights[i] = genotype.RandomWeight(rng)
	}
	biases := make([]float64, newOut)
	copy(biases, layer.Biases)
	for i := oldOut; i < newOut; i++ {
		biases[i] = genotype.RandomWeight(rng)
	}
	layer.Weights = weights
	layer.Biases = biases
	layer.OutDim = newOut

	next := &g.Layers[hid+1]
	oldIn := next.InDim
	inMin := oldIn
	if inMin > newOut {
		inMin = newOut
	}
	rewired := make([]float64, next.OutDim*newOut)
	for o := 0; o < next.OutDim; o++ {
		copy(rewired[o*newOut:o*newOut+inMin], next.Weights[o*oldIn:o*oldIn+inMin])
		for i := inMin; i < newOut; i++ {
			rewired[o*newOut+i] = genotype.RandomWeight(rng)
		}
	}
	next.Weights = rewired
	next.InDim = newOut
}

// InsertHiddenLayer splices a fresh random hidden layer into a random slot
// and re-randomizes the input weights of the layer it displaces. Genomes
// already at MaxHiddenLayers pass through unchanged.
type InsertHiddenLayer struct {
	Rand *rand.Rand
}

func (o *InsertHiddenLayer) Name() string {
	return "insert_hidden_layer"
}

func (o *InsertHiddenLayer) Applicable(genome model.Genome) bool {
	return len(genome.Layers) > 0 && len(genome.Layers)-1 < model.MaxHiddenLayers
}

func (o *InsertHiddenLayer) Apply(_ context.Context, genome model.Genome) (model.Genome, error) {
	if o == nil || o.Rand == nil {
		return model.Genome{}, errors.New("random source is required")
	}
	mutated := cloneGenome(genome)
	if len(mutated.Layers) == 0 || len(mutated.Layers)-1 >= model.MaxHiddenLayers {
		return mutated, nil
	}
	pos := 0
	if len(mutated.Layers) > 1 {
		pos = o.Rand.Intn(len(mutated.Layers) - 1)
	}
	insertHiddenAt(&mutated, pos, o.Rand)
	return mutated, nil
}

// insertHiddenAt builds a random hidden layer sized for slot pos and
// splices it in. The displaced layer keeps its output dimension and biases
// but gets an entirely fresh weight block sized to the new input width.
func insertHiddenAt(g *model.Genome, pos int, rng *rand.Rand) {
	if len(g.Layers) == 0 || pos < 0 || pos >= len(g.Layers) {
		return
	}
	units := genotype.RandHiddenUnits(rng)
	prevIn := model.InputDim
	if pos > 0 {
		prevIn = g.Layers[pos-1].OutDim
	}
	fresh := genotype.NewRandomLayer(prevIn, units, genotype.WeightScale, rng)

	g.Layers = append(g.Layers, model.Layer{})
	copy(g.Layers[pos+1:], g.Layers[pos:])
	g.Layers[pos] = fresh

	next := &g.Layers[pos+1]
	next.Weights = make([]float64, next.OutDim*units)
	for i := range next.Weights {
		next.Weights[i] = genotype.RandomWeight(rng)
	}
	next.InDim = units
}

func cloneGenome(g model.Genome) model.Genome {
	return genotype.CloneGenome(g)
}
