package stats

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"neurogonos/internal/model"
)

// LayerSummary describes one layer's shape and parameter distribution.
type LayerSummary struct {
	Index      int     `json:"index"`
	InDim      int     `json:"in_dim"`
	OutDim     int     `json:"out_dim"`
	ParamCount int     `json:"param_count"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// Summary describes a genome's topology and parameter distribution.
type Summary struct {
	LayerCount   int            `json:"layer_count"`
	HiddenCount  int            `json:"hidden_count"`
	HiddenWidths []int          `json:"hidden_widths"`
	ParamCount   int            `json:"param_count"`
	Mean         float64        `json:"mean"`
	Std          float64        `json:"std"`
	Min          float64        `json:"min"`
	Max          float64        `json:"max"`
	Layers       []LayerSummary `json:"layers"`
}

// Summarize computes topology and weight statistics for one genome. Std is
// the sample standard deviation; a single-parameter population reports 0.
func Summarize(g model.Genome) (Summary, error) {
	if len(g.Layers) == 0 {
		return Summary{}, fmt.Errorf("genome has no layers")
	}

	summary := Summary{
		LayerCount:   len(g.Layers),
		HiddenCount:  len(g.Layers) - 1,
		HiddenWidths: HiddenWidths(g),
		Layers:       make([]LayerSummary, 0, len(g.Layers)),
	}

	var all []float64
	for i, layer := range g.Layers {
		scalars := make([]float64, 0, len(layer.Weights)+len(layer.Biases))
		scalars = append(scalars, layer.Weights...)
		scalars = append(scalars, layer.Biases...)
		if len(scalars) == 0 {
			return Summary{}, fmt.Errorf("layer %d has no parameters", i)
		}
		mean, std := meanStd(scalars)
		summary.Layers = append(summary.Layers, LayerSummary{
			Index:      i,
			InDim:      layer.InDim,
			OutDim:     layer.OutDim,
			ParamCount: len(scalars),
			Mean:       mean,
			Std:        std,
			Min:        floats.Min(scalars),
			Max:        floats.Max(scalars),
		})
		all = append(all, scalars...)
	}

	summary.ParamCount = len(all)
	summary.Mean, summary.Std = meanStd(all)
	summary.Min = floats.Min(all)
	summary.Max = floats.Max(all)
	return summary, nil
}

// HiddenWidths lists the output widths of the hidden layers in order.
func HiddenWidths(g model.Genome) []int {
	if len(g.Layers) < 2 {
		return nil
	}
	widths := make([]int, 0, len(g.Layers)-1)
	for i := 0; i < len(g.Layers)-1; i++ {
		widths = append(widths, g.Layers[i].OutDim)
	}
	return widths
}

func meanStd(values []float64) (float64, float64) {
	mean := stat.Mean(values, nil)
	if len(values) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(values, nil)
}
