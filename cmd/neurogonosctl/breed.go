package main

import (
	"context"
	"errors"
	"flag"

	"neurogonos/internal/storage"
	neuroapi "neurogonos/pkg/neurogonos"
)

func runBreed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("breed", flag.ContinueOnError)
	dadPath := fs.String("dad", "", "dad genome JSON path")
	momPath := fs.String("mom", "", "mom genome JSON path")
	seed := fs.Int64("seed", 1, "rng seed")
	rate := fs.Float64("rate", neuroapi.DefaultMutationRate, "per-scalar mutation probability")
	mag := fs.Float64("mag", neuroapi.DefaultMutationMagnitude, "mutation noise magnitude")
	pWidth := fs.Float64("p-width", neuroapi.DefaultAddWidthProb, "probability of widening a hidden layer")
	pDepth := fs.Float64("p-depth", neuroapi.DefaultAddDepthProb, "probability of inserting a hidden layer")
	configPath := fs.String("config", "", "JSON config with breeding parameters")
	presetName := fs.String("preset", "", "named parameter preset")
	presetsFile := fs.String("presets-file", "", "INI file with extra presets")
	outPath := fs.String("out", "", "write the child genome JSON to this path")
	save := fs.Bool("save", false, "archive the child in the store")
	jsonOut := fs.Bool("json", false, "emit the child genome as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dadPath == "" || *momPath == "" {
		return errors.New("breed requires --dad and --mom genome files")
	}

	setFlags := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	flagValues := map[string]any{
		"seed":    *seed,
		"rate":    *rate,
		"mag":     *mag,
		"p-width": *pWidth,
		"p-depth": *pDepth,
	}
	params, err := resolveBreedParams(*configPath, *presetName, *presetsFile, setFlags, flagValues)
	if err != nil {
		return err
	}

	dad, err := readGenomeFile(*dadPath)
	if err != nil {
		return err
	}
	mom, err := readGenomeFile(*momPath)
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

	child, err := client.Breed(ctx, neuroapi.BreedRequest{
		Dad:               dad,
		Mom:               mom,
		Seed:              params.Seed,
		MutationRate:      params.MutationRate,
		MutationMagnitude: params.MutationMagnitude,
		AddWidthProb:      params.AddWidthProb,
		AddDepthProb:      params.AddDepthProb,
		AssignID:          true,
		Save:              *save,
	})
	if err != nil {
		return err
	}
	if *outPath != "" {
		if err := writeGenomeFile(*outPath, child); err != nil {
			return err
		}
	}
	if *jsonOut {
		return emitJSON(child)
	}

	summary, err := client.Describe(ctx, neuroapi.DescribeRequest{Genome: child})
	if err != nil {
		return err
	}
	p := newPrinter()
	p.headline("bred child id=%s", child.ID)
	p.kv("hidden=%v params=%s seed=%d rate=%g mag=%g p_width=%g p_depth=%g",
		summary.HiddenWidths, p.comma(summary.ParamCount), params.Seed,
		params.MutationRate, params.MutationMagnitude, params.AddWidthProb, params.AddDepthProb)
	if *outPath != "" {
		p.kv("wrote=%s", *outPath)
	}
	if *save {
		p.kv("archived=true store=%s", *storeKind)
	}
	return nil
}

func runMutate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mutate", flag.ContinueOnError)
	genomePath := fs.String("genome", "", "genome JSON path")
	opName := fs.String("op", "point_mutation", "operator: point_mutation|grow_width|insert_hidden_layer")
	seed := fs.Int64("seed", 1, "rng seed")
	rate := fs.Float64("rate", neuroapi.DefaultMutationRate, "per-scalar mutation probability")
	mag := fs.Float64("mag", neuroapi.DefaultMutationMagnitude, "mutation noise magnitude")
	outPath := fs.String("out", "", "write the mutated genome JSON to this path")
	save := fs.Bool("save", false, "archive the mutated genome in the store")
	jsonOut := fs.Bool("json", false, "emit the mutated genome as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomePath == "" {
		return errors.New("mutate requires --genome")
	}

	genome, err := readGenomeFile(*genomePath)
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

	mutated, err := client.Mutate(ctx, neuroapi.MutateRequest{
		Genome:            genome,
		Operator:          *opName,
		Seed:              *seed,
		MutationRate:      *rate,
		MutationMagnitude: *mag,
		AssignID:          true,
		Save:              *save,
	})
	if err != nil {
		return err
	}
	if *outPath != "" {
		if err := writeGenomeFile(*outPath, mutated); err != nil {
			return err
		}
	}
	if *jsonOut {
		return emitJSON(mutated)
	}

	summary, err := client.Describe(ctx, neuroapi.DescribeRequest{Genome: mutated})
	if err != nil {
		return err
	}
	p := newPrinter()
	p.headline("mutated genome id=%s op=%s", mutated.ID, *opName)
	p.kv("hidden=%v params=%s seed=%d", summary.HiddenWidths, p.comma(summary.ParamCount), *seed)
	if *outPath != "" {
		p.kv("wrote=%s", *outPath)
	}
	if *save {
		p.kv("archived=true store=%s", *storeKind)
	}
	return nil
}
