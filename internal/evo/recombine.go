package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"neurogonos/internal/model"
)

// Recombiner breeds a child genome from two parents: pick a template parent
// with a fair coin, blend the weight blocks the parents share, point-mutate
// every scalar, then optionally grow the child in width and in depth.
// Parents are never modified and the child never shares storage with either.
type Recombiner struct {
	Rand              *rand.Rand
	MutationRate      float64
	MutationMagnitude float64
	AddWidthProb      float64
	AddDepthProb      float64
}

func (r *Recombiner) Name() string {
	return "crossover_blend"
}

func (r *Recombiner) validate() error {
	if r == nil || r.Rand == nil {
		return errors.New("random source is required")
	}
	if r.MutationRate < 0 || r.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0,1], got=%v", r.MutationRate)
	}
	if r.MutationMagnitude < 0 {
		return fmt.Errorf("mutation magnitude must be >= 0, got=%v", r.MutationMagnitude)
	}
	if r.AddWidthProb < 0 || r.AddWidthProb > 1 {
		return fmt.Errorf("width growth probability must be in [0,1], got=%v", r.AddWidthProb)
	}
	if r.AddDepthProb < 0 || r.AddDepthProb > 1 {
		return fmt.Errorf("depth growth probability must be in [0,1], got=%v", r.AddDepthProb)
	}
	return nil
}

// Recombine produces one child. The non-template parent contributes only
// through averaging over the dimensions the two parents share; template
// layers beyond the shorter parent's depth are inherited as-is. Both
// growth steps are independent trials, so a single call can deepen and
// widen the child at once. All randomness comes from r.Rand.
func (r *Recombiner) Recombine(_ context.Context, dad, mom model.Genome) (model.Genome, error) {
	if err := r.validate(); err != nil {
		return model.Genome{}, err
	}

	template, other := dad, mom
	if r.Rand.Float64() >= 0.5 {
		template, other = mom, dad
	}
	child := cloneGenome(template)
	child.ID = ""
	child.VersionedRecord = model.VersionedRecord{}

	blendOverlap(child.Layers, other.Layers)
	perturbScalars(child.Layers, r.Rand, r.MutationRate, r.MutationMagnitude)

	// Both Bernoulli draws below are consumed unconditionally so a seeded
	// breeding run replays identically whatever the child's shape.
	if r.Rand.Float64() < r.AddWidthProb {
		if len(child.Layers) >= 2 {
			growHiddenAt(&child, r.Rand.Intn(len(child.Layers)-1), r.Rand)
		}
	}
	if r.Rand.Float64() < r.AddDepthProb && len(child.Layers)-1 < model.MaxHiddenLayers {
		pos := 0
		if len(child.Layers) > 1 {
			pos = r.Rand.Intn(len(child.Layers) - 1)
		}
		insertHiddenAt(&child, pos, r.Rand)
	}
	return child, nil
}

// blendOverlap averages child and other layer by layer over the dimensions
// both share. Child entries outside the shared block keep their template
// values; child layers beyond other's depth are left alone entirely.
func blendOverlap(child, other []model.Layer) {
	for li := range child {
		if li >= len(other) {
			break
		}
		c, o := &child[li], &other[li]
		inMin := min(c.InDim, o.InDim)
		outMin := min(c.OutDim, o.OutDim)
		for row := 0; row < outMin; row++ {
			for col := 0; col < inMin; col++ {
				ci := row*c.InDim + col
				oi := row*o.InDim + col
				c.Weights[ci] = 0.5 * (c.Weights[ci] + o.Weights[oi])
			}
		}
		for row := 0; row < outMin; row++ {
			c.Biases[row] = 0.5 * (c.Biases[row] + o.Biases[row])
		}
	}
}
