package evo

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"neurogonos/internal/genotype"
	"neurogonos/internal/model"
)

func newRecombiner(seed int64) *Recombiner {
	return &Recombiner{
		Rand:              rand.New(rand.NewSource(seed)),
		MutationRate:      0.05,
		MutationMagnitude: 0.1,
		AddWidthProb:      0.3,
		AddDepthProb:      0.2,
	}
}

func TestRecombineRejectsBadParameters(t *testing.T) {
	dad := mustGenome(t, 1, 20)
	mom := mustGenome(t, 2, 12, 16)
	tests := []struct {
		name string
		r    *Recombiner
	}{
		{name: "nil rand", r: &Recombiner{MutationRate: 0.1, MutationMagnitude: 0.1}},
		{name: "negative rate", r: &Recombiner{Rand: rand.New(rand.NewSource(1)), MutationRate: -0.1}},
		{name: "rate above one", r: &Recombiner{Rand: rand.New(rand.NewSource(1)), MutationRate: 1.5}},
		{name: "negative magnitude", r: &Recombiner{Rand: rand.New(rand.NewSource(1)), MutationMagnitude: -1}},
		{name: "width prob above one", r: &Recombiner{Rand: rand.New(rand.NewSource(1)), AddWidthProb: 2}},
		{name: "negative depth prob", r: &Recombiner{Rand: rand.New(rand.NewSource(1)), AddDepthProb: -0.2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.r.Recombine(context.Background(), dad, mom); err == nil {
				t.Fatal("expected parameter error")
			}
		})
	}
}

func TestRecombineLeavesParentsUntouched(t *testing.T) {
	dad := mustGenome(t, 3, 20)
	mom := mustGenome(t, 4, 12, 16)
	dadSnapshot := genotype.CloneGenome(dad)
	momSnapshot := genotype.CloneGenome(mom)

	for seed := int64(0); seed < 25; seed++ {
		if _, err := newRecombiner(seed).Recombine(context.Background(), dad, mom); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
	if !reflect.DeepEqual(dad, dadSnapshot) {
		t.Fatal("recombination mutated dad")
	}
	if !reflect.DeepEqual(mom, momSnapshot) {
		t.Fatal("recombination mutated mom")
	}
}

func TestRecombineChildOwnsItsStorage(t *testing.T) {
	dad := mustGenome(t, 5, 20)
	mom := mustGenome(t, 6, 20)
	child, err := newRecombiner(7).Recombine(context.Background(), dad, mom)
	if err != nil {
		t.Fatalf("recombine: %v", err)
	}
	dadSnapshot := genotype.CloneGenome(dad)
	momSnapshot := genotype.CloneGenome(mom)
	for li := range child.Layers {
		for i := range child.Layers[li].Weights {
			child.Layers[li].Weights[i] = 1e9
		}
		for i := range child.Layers[li].Biases {
			child.Layers[li].Biases[i] = -1e9
		}
	}
	if !reflect.DeepEqual(dad, dadSnapshot) || !reflect.DeepEqual(mom, momSnapshot) {
		t.Fatal("child shares weight storage with a parent")
	}
}

// With mutation and growth disabled the child must match one parent's
// topology exactly, equal the blended average over the shared blocks, and
// equal the template verbatim everywhere else.
func TestRecombineZeroRatesBlendOnly(t *testing.T) {
	dad := mustGenome(t, 8, 20)
	mom := mustGenome(t, 9, 12, 16)

	sawDadTemplate := false
	sawMomTemplate := false
	for seed := int64(0); seed < 40; seed++ {
		r := &Recombiner{Rand: rand.New(rand.NewSource(seed))}
		child, err := r.Recombine(context.Background(), dad, mom)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if child.ID != "" {
			t.Fatalf("seed %d: child id should be unset, got=%q", seed, child.ID)
		}

		var template, other model.Genome
		switch {
		case reflect.DeepEqual(hiddenWidthsOf(child), hiddenWidthsOf(dad)):
			template, other = dad, mom
			sawDadTemplate = true
		case reflect.DeepEqual(hiddenWidthsOf(child), hiddenWidthsOf(mom)):
			template, other = mom, dad
			sawMomTemplate = true
		default:
			t.Fatalf("seed %d: child widths %v match neither parent", seed, hiddenWidthsOf(child))
		}

		for li := range child.Layers {
			c := child.Layers[li]
			tpl := template.Layers[li]
			if li >= len(other.Layers) {
				if !reflect.DeepEqual(c, tpl) {
					t.Fatalf("seed %d layer %d: beyond-overlap layer must copy the template", seed, li)
				}
				continue
			}
			oth := other.Layers[li]
			inMin := min(c.InDim, oth.InDim)
			outMin := min(c.OutDim, oth.OutDim)
			for o := 0; o < c.OutDim; o++ {
				for i := 0; i < c.InDim; i++ {
					got := c.Weights[o*c.InDim+i]
					want := tpl.Weights[o*tpl.InDim+i]
					if o < outMin && i < inMin {
						want = 0.5 * (tpl.Weights[o*tpl.InDim+i] + oth.Weights[o*oth.InDim+i])
					}
					if got != want {
						t.Fatalf("seed %d layer %d weight (%d,%d): got=%v want=%v", seed, li, o, i, got, want)
					}
				}
			}
			for o := 0; o < c.OutDim; o++ {
				want := tpl.Biases[o]
				if o < outMin {
					want = 0.5 * (tpl.Biases[o] + oth.Biases[o])
				}
				if c.Biases[o] != want {
					t.Fatalf("seed %d layer %d bias %d: got=%v want=%v", seed, li, o, c.Biases[o], want)
				}
			}
		}
	}
	if !sawDadTemplate || !sawMomTemplate {
		t.Fatalf("expected both template choices across seeds, got dad=%v mom=%v", sawDadTemplate, sawMomTemplate)
	}
}

// Identical topologies make the whole net one shared block, so the child is
// exactly the elementwise mean of the parents regardless of template.
func TestRecombineExactMeanOnMatchingTopologies(t *testing.T) {
	dad := mustGenome(t, 10, 20)
	mom := mustGenome(t, 11, 20)

	r := &Recombiner{Rand: rand.New(rand.NewSource(12))}
	child, err := r.Recombine(context.Background(), dad, mom)
	if err != nil {
		t.Fatalf("recombine: %v", err)
	}
	for li := range child.Layers {
		d, m, c := dad.Layers[li], mom.Layers[li], child.Layers[li]
		for i := range c.Weights {
			if want := 0.5 * (d.Weights[i] + m.Weights[i]); c.Weights[i] != want {
				t.Fatalf("layer %d weight %d: got=%v want=%v", li, i, c.Weights[i], want)
			}
		}
		for i := range c.Biases {
			if want := 0.5 * (d.Biases[i] + m.Biases[i]); c.Biases[i] != want {
				t.Fatalf("layer %d bias %d: got=%v want=%v", li, i, c.Biases[i], want)
			}
		}
	}
}

func TestRecombineWidthGrowthMonotonicAndCapped(t *testing.T) {
	dad := mustGenome(t, 13, 20)
	mom := mustGenome(t, 14, 20)
	for seed := int64(0); seed < 50; seed++ {
		r := &Recombiner{Rand: rand.New(rand.NewSource(seed)), AddWidthProb: 1}
		child, err := r.Recombine(context.Background(), dad, mom)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if err := genotype.Validate(child); err != nil {
			t.Fatalf("seed %d: invalid child: %v", seed, err)
		}
		width := child.Layers[0].OutDim
		if width < 21 || width > 24 {
			t.Fatalf("seed %d: grown width got=%d want 21..24", seed, width)
		}
		if child.Layers[1].InDim != width {
			t.Fatalf("seed %d: output layer input got=%d want=%d", seed, child.Layers[1].InDim, width)
		}
	}
}

func TestRecombineWidthGrowthAtCapIsNoOp(t *testing.T) {
	dad := mustGenome(t, 15, 40)
	mom := mustGenome(t, 16, 40)
	for seed := int64(0); seed < 20; seed++ {
		r := &Recombiner{Rand: rand.New(rand.NewSource(seed)), AddWidthProb: 1}
		child, err := r.Recombine(context.Background(), dad, mom)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := child.Layers[0].OutDim; got != model.MaxHiddenUnits {
			t.Fatalf("seed %d: width got=%d want=%d", seed, got, model.MaxHiddenUnits)
		}
	}
}

func TestRecombineDepthGrowthStopsAtCap(t *testing.T) {
	dad := mustGenome(t, 17, 8, 8, 8, 8)
	mom := mustGenome(t, 18, 8, 8, 8, 8)
	for seed := int64(0); seed < 20; seed++ {
		r := &Recombiner{Rand: rand.New(rand.NewSource(seed)), AddDepthProb: 1}
		child, err := r.Recombine(context.Background(), dad, mom)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := len(child.Layers) - 1; got != model.MaxHiddenLayers {
			t.Fatalf("seed %d: hidden count got=%d want=%d", seed, got, model.MaxHiddenLayers)
		}
		if err := genotype.Validate(child); err != nil {
			t.Fatalf("seed %d: invalid child: %v", seed, err)
		}
	}
}

// Forcing depth growth on direct parents shows the insert-before-output
// path: the child gains its first hidden layer and becomes canonical.
func TestRecombineDepthGrowthOnDirectParents(t *testing.T) {
	dad := mustGenome(t, 19)
	mom := mustGenome(t, 20)
	r := &Recombiner{Rand: rand.New(rand.NewSource(21)), AddDepthProb: 1}
	child, err := r.Recombine(context.Background(), dad, mom)
	if err != nil {
		t.Fatalf("recombine: %v", err)
	}
	if got := len(child.Layers) - 1; got != 1 {
		t.Fatalf("hidden count got=%d want=1", got)
	}
	if err := genotype.Validate(child); err != nil {
		t.Fatalf("invalid child: %v", err)
	}
}

func TestRecombineWidthSkipsDirectChildren(t *testing.T) {
	dad := mustGenome(t, 22)
	mom := mustGenome(t, 23)
	r := &Recombiner{Rand: rand.New(rand.NewSource(24)), AddWidthProb: 1}
	child, err := r.Recombine(context.Background(), dad, mom)
	if err != nil {
		t.Fatalf("recombine: %v", err)
	}
	if got := len(child.Layers); got != 1 {
		t.Fatalf("layer count got=%d want=1 (width growth must skip direct genomes)", got)
	}
}

func TestRecombineThousandChildrenStayCanonical(t *testing.T) {
	dad := mustGenome(t, 25, 20)
	mom := mustGenome(t, 26, 12, 16)
	dad.ID = "dad"
	mom.ID = "mom"

	histogram := map[int]int{}
	for seed := int64(0); seed < 1000; seed++ {
		child, err := newRecombiner(seed).Recombine(context.Background(), dad, mom)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if err := genotype.Validate(child); err != nil {
			t.Fatalf("seed %d: invalid child: %v", seed, err)
		}
		if child.ID != "" {
			t.Fatalf("seed %d: child must not inherit a parent id, got=%q", seed, child.ID)
		}
		hidden := len(child.Layers) - 1
		if hidden < 1 || hidden > 3 {
			t.Fatalf("seed %d: hidden count got=%d want 1..3", seed, hidden)
		}
		histogram[hidden]++
	}
	for hidden := 1; hidden <= 3; hidden++ {
		if histogram[hidden] == 0 {
			t.Fatalf("expected children with %d hidden layers across 1000 runs, histogram=%v", hidden, histogram)
		}
	}
}
