package main

import (
	"context"
	"flag"
	"sort"

	"neurogonos/internal/storage"
	neuroapi "neurogonos/pkg/neurogonos"
)

func runSoak(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("soak", flag.ContinueOnError)
	seed := fs.Int64("seed", 1, "rng seed")
	iters := fs.Int("iters", 1000, "number of children to breed")
	dadSpec := fs.String("dad", "20", "dad hidden widths, comma-separated")
	momSpec := fs.String("mom", "12,16", "mom hidden widths, comma-separated")
	rate := fs.Float64("rate", neuroapi.DefaultMutationRate, "per-scalar mutation probability")
	mag := fs.Float64("mag", neuroapi.DefaultMutationMagnitude, "mutation noise magnitude")
	pWidth := fs.Float64("p-width", neuroapi.DefaultAddWidthProb, "probability of widening a hidden layer")
	pDepth := fs.Float64("p-depth", neuroapi.DefaultAddDepthProb, "probability of inserting a hidden layer")
	record := fs.Bool("record", false, "archive the run, parents, and lineage in the store")
	jsonOut := fs.Bool("json", false, "emit the soak summary as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dadWidths, err := parseWidths(*dadSpec)
	if err != nil {
		return err
	}
	momWidths, err := parseWidths(*momSpec)
	if err != nil {
		return err
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Soak(ctx, neuroapi.SoakRequest{
		Seed:              *seed,
		Iterations:        *iters,
		DadWidths:         dadWidths,
		MomWidths:         momWidths,
		MutationRate:      *rate,
		MutationMagnitude: *mag,
		AddWidthProb:      *pWidth,
		AddDepthProb:      *pDepth,
		Record:            *record,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(summary)
	}

	p := newPrinter()
	p.headline("soak completed children=%s dad=%v mom=%v seed=%d",
		p.comma(summary.Iterations), summary.DadWidths, summary.MomWidths, *seed)

	depths := make([]int, 0, len(summary.HiddenCounts))
	for depth := range summary.HiddenCounts {
		depths = append(depths, depth)
	}
	sort.Ints(depths)
	for _, depth := range depths {
		p.kv("hidden=%d children=%s", depth, p.comma(summary.HiddenCounts[depth]))
	}
	p.kv("params mean=%.1f min=%s max=%s",
		summary.MeanParamCount, p.comma(summary.MinParamCount), p.comma(summary.MaxParamCount))
	if summary.RunID != "" {
		p.kv("run_id=%s store=%s", summary.RunID, *storeKind)
	}
	return nil
}
