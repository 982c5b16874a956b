package genotype

import (
	"errors"
	"fmt"

	"neurogonos/internal/model"
)

var (
	ErrEmptyGenome    = errors.New("genome has no layers")
	ErrBadInterface   = errors.New("genome interface dimensions are wrong")
	ErrBrokenChain    = errors.New("adjacent layer dimensions do not match")
	ErrHiddenBounds   = errors.New("hidden topology out of bounds")
	ErrCorruptStorage = errors.New("layer storage does not match its dimensions")
)

// Validate checks the structural contract of a canonical agent brain:
// InputDim in, OutputDim out, an unbroken dimension chain, 1..MaxHiddenLayers
// hidden layers with widths in [MinHiddenUnits, MaxHiddenUnits], and weight
// and bias storage sized exactly to each layer's dimensions. A nil return
// means every recombination and evaluation contract holds for the genome.
func Validate(g model.Genome) error {
	if len(g.Layers) == 0 {
		return ErrEmptyGenome
	}
	if got := g.Layers[0].InDim; got != model.InputDim {
		return fmt.Errorf("%w: first layer input got=%d want=%d", ErrBadInterface, got, model.InputDim)
	}
	last := g.Layers[len(g.Layers)-1]
	if last.OutDim != model.OutputDim {
		return fmt.Errorf("%w: last layer output got=%d want=%d", ErrBadInterface, last.OutDim, model.OutputDim)
	}

	hidden := len(g.Layers) - 1
	if hidden < 1 || hidden > model.MaxHiddenLayers {
		return fmt.Errorf("%w: hidden layer count got=%d want 1..%d", ErrHiddenBounds, hidden, model.MaxHiddenLayers)
	}

	for i, layer := range g.Layers {
		if layer.InDim <= 0 || layer.OutDim <= 0 {
			return fmt.Errorf("%w: layer %d dims got=%dx%d", ErrCorruptStorage, i, layer.OutDim, layer.InDim)
		}
		if i > 0 && layer.InDim != g.Layers[i-1].OutDim {
			return fmt.Errorf("%w: layer %d input got=%d want=%d", ErrBrokenChain, i, layer.InDim, g.Layers[i-1].OutDim)
		}
		if i < len(g.Layers)-1 {
			if layer.OutDim < model.MinHiddenUnits || layer.OutDim > model.MaxHiddenUnits {
				return fmt.Errorf("%w: hidden layer %d width got=%d want %d..%d",
					ErrHiddenBounds, i, layer.OutDim, model.MinHiddenUnits, model.MaxHiddenUnits)
			}
		}
		if got, want := len(layer.Weights), layer.OutDim*layer.InDim; got != want {
			return fmt.Errorf("%w: layer %d weights got=%d want=%d", ErrCorruptStorage, i, got, want)
		}
		if got, want := len(layer.Biases), layer.OutDim; got != want {
			return fmt.Errorf("%w: layer %d biases got=%d want=%d", ErrCorruptStorage, i, got, want)
		}
	}
	return nil
}
