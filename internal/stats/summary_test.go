package stats

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"neurogonos/internal/genotype"
	"neurogonos/internal/model"
)

func TestSummarizeHandComputed(t *testing.T) {
	g := model.Genome{Layers: []model.Layer{
		{InDim: 2, OutDim: 2, Weights: []float64{1, 2, 3, 4}, Biases: []float64{5, -1}},
		{InDim: 2, OutDim: 1, Weights: []float64{-2, 2}, Biases: []float64{0}},
	}}

	s, err := Summarize(g)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if s.LayerCount != 2 || s.HiddenCount != 1 {
		t.Fatalf("counts got=%d/%d want=2/1", s.LayerCount, s.HiddenCount)
	}
	if !reflect.DeepEqual(s.HiddenWidths, []int{2}) {
		t.Fatalf("hidden widths got=%v want=[2]", s.HiddenWidths)
	}
	if s.ParamCount != 9 {
		t.Fatalf("param count got=%d want=9", s.ParamCount)
	}
	if s.Min != -2 || s.Max != 5 {
		t.Fatalf("min/max got=%v/%v want=-2/5", s.Min, s.Max)
	}

	// First layer scalars: 1 2 3 4 5 -1 -> mean 14/6, sample variance
	// computed against that mean.
	l0 := s.Layers[0]
	if l0.ParamCount != 6 || l0.InDim != 2 || l0.OutDim != 2 {
		t.Fatalf("layer 0 shape got=%+v", l0)
	}
	wantMean := 14.0 / 6.0
	if math.Abs(l0.Mean-wantMean) > 1e-12 {
		t.Fatalf("layer 0 mean got=%v want=%v", l0.Mean, wantMean)
	}
	var acc float64
	for _, v := range []float64{1, 2, 3, 4, 5, -1} {
		acc += (v - wantMean) * (v - wantMean)
	}
	wantStd := math.Sqrt(acc / 5)
	if math.Abs(l0.Std-wantStd) > 1e-12 {
		t.Fatalf("layer 0 std got=%v want=%v", l0.Std, wantStd)
	}
	if l0.Min != -1 || l0.Max != 5 {
		t.Fatalf("layer 0 min/max got=%v/%v want=-1/5", l0.Min, l0.Max)
	}
}

func TestSummarizeRejectsDegenerateGenomes(t *testing.T) {
	if _, err := Summarize(model.Genome{}); err == nil {
		t.Fatal("expected error for empty genome")
	}
	broken := model.Genome{Layers: []model.Layer{{InDim: 2, OutDim: 0}}}
	if _, err := Summarize(broken); err == nil {
		t.Fatal("expected error for layer without parameters")
	}
}

func TestSummarizeFreshGenomeStaysWithinScale(t *testing.T) {
	g, err := genotype.FromHiddenWidths([]int{12, 16}, rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	s, err := Summarize(g)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	wantParams := 12*16 + 12 + 16*12 + 16 + 5*16 + 5
	if s.ParamCount != wantParams {
		t.Fatalf("param count got=%d want=%d", s.ParamCount, wantParams)
	}
	if s.Min < -genotype.WeightScale || s.Max >= genotype.WeightScale {
		t.Fatalf("fresh parameters outside scale: min=%v max=%v", s.Min, s.Max)
	}
	if s.Std <= 0 {
		t.Fatalf("expected positive spread, got=%v", s.Std)
	}
}

func TestHiddenWidths(t *testing.T) {
	g, err := genotype.FromHiddenWidths([]int{8, 40, 20}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if got := HiddenWidths(g); !reflect.DeepEqual(got, []int{8, 40, 20}) {
		t.Fatalf("hidden widths got=%v want=[8 40 20]", got)
	}
	direct, err := genotype.FromHiddenWidths(nil, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if got := HiddenWidths(direct); got != nil {
		t.Fatalf("direct genome widths got=%v want=nil", got)
	}
}
