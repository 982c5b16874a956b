package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"neurogonos/internal/config"
	"neurogonos/internal/storage"
	neuroapi "neurogonos/pkg/neurogonos"
)

const defaultDBPath = "neurogonos.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "random":
		return runRandom(ctx, args[1:])
	case "eval":
		return runEval(ctx, args[1:])
	case "describe":
		return runDescribe(ctx, args[1:])
	case "breed":
		return runBreed(ctx, args[1:])
	case "mutate":
		return runMutate(ctx, args[1:])
	case "soak":
		return runSoak(ctx, args[1:])
	case "presets":
		return runPresets(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "lineage":
		return runLineage(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}
	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRandom(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("random", flag.ContinueOnError)
	seed := fs.Int64("seed", 1, "rng seed")
	widthsSpec := fs.String("widths", "", "comma-separated hidden widths (empty draws a random topology)")
	outPath := fs.String("out", "", "write the genome JSON to this path")
	save := fs.Bool("save", false, "archive the genome in the store")
	jsonOut := fs.Bool("json", false, "emit the genome as JSON on stdout")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	widths, err := parseWidths(*widthsSpec)
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

	genome, err := client.Generate(ctx, neuroapi.GenerateRequest{
		Seed:         *seed,
		HiddenWidths: widths,
		AssignID:     true,
		Save:         *save,
	})
	if err != nil {
		return err
	}
	if *outPath != "" {
		if err := writeGenomeFile(*outPath, genome); err != nil {
			return err
		}
	}
	if *jsonOut {
		return emitJSON(genome)
	}

	summary, err := client.Describe(ctx, neuroapi.DescribeRequest{Genome: genome})
	if err != nil {
		return err
	}
	p := newPrinter()
	p.headline("generated genome id=%s", genome.ID)
	p.kv("hidden=%v params=%s seed=%d", summary.HiddenWidths, p.comma(summary.ParamCount), *seed)
	if *outPath != "" {
		p.kv("wrote=%s", *outPath)
	}
	if *save {
		p.kv("archived=true store=%s", *storeKind)
	}
	return nil
}

func runEval(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	genomePath := fs.String("genome", "", "genome JSON path")
	genomeID := fs.String("id", "", "archived genome id")
	inputSpec := fs.String("input", "", "comma-separated input values")
	jsonOut := fs.Bool("json", false, "emit the outputs as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomePath != "" && *genomeID != "" {
		return errors.New("use either --genome or --id, not both")
	}
	if *genomePath == "" && *genomeID == "" {
		return errors.New("eval requires --genome or --id")
	}
	if *inputSpec == "" {
		return errors.New("eval requires --input values")
	}

	input, err := parseFloats(*inputSpec)
	if err != nil {
		return err
	}

	req := neuroapi.EvaluateRequest{GenomeID: *genomeID, Input: input}
	if *genomePath != "" {
		genome, err := readGenomeFile(*genomePath)
		if err != nil {
			return err
		}
		req.Genome = genome
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	outputs, err := client.Evaluate(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(outputs)
	}

	p := newPrinter()
	for i, value := range outputs {
		p.kv("output=%d value=%.6f", i, value)
	}
	return nil
}

func runDescribe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	genomePath := fs.String("genome", "", "genome JSON path")
	genomeID := fs.String("id", "", "archived genome id")
	jsonOut := fs.Bool("json", false, "emit the summary as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomePath != "" && *genomeID != "" {
		return errors.New("use either --genome or --id, not both")
	}
	if *genomePath == "" && *genomeID == "" {
		return errors.New("describe requires --genome or --id")
	}

	req := neuroapi.DescribeRequest{GenomeID: *genomeID}
	if *genomePath != "" {
		genome, err := readGenomeFile(*genomePath)
		if err != nil {
			return err
		}
		req.Genome = genome
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Describe(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(summary)
	}

	p := newPrinter()
	p.headline("layers=%d hidden=%v params=%s", summary.LayerCount, summary.HiddenWidths, p.comma(summary.ParamCount))
	p.kv("scalars mean=%.6f std=%.6f min=%.6f max=%.6f", summary.Mean, summary.Std, summary.Min, summary.Max)
	for _, layer := range summary.Layers {
		p.kv("layer=%d shape=%dx%d params=%s mean=%.6f std=%.6f",
			layer.Index, layer.OutDim, layer.InDim, p.comma(layer.ParamCount), layer.Mean, layer.Std)
	}
	return nil
}

func runPresets(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	file := fs.String("file", "", "optional preset INI path")
	jsonOut := fs.Bool("json", false, "emit presets as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var loaded []config.Preset
	if *file != "" {
		var err error
		loaded, err = config.LoadPresets(*file)
		if err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	presets := make([]config.Preset, 0, len(loaded)+3)
	for _, preset := range append(loaded, config.DefaultPresets()...) {
		if seen[preset.Name] {
			continue
		}
		seen[preset.Name] = true
		presets = append(presets, preset)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })

	if *jsonOut {
		return emitJSON(presets)
	}
	p := newPrinter()
	for _, preset := range presets {
		p.kv("preset=%s rate=%g mag=%g p_width=%g p_depth=%g",
			preset.Name, preset.MutationRate, preset.MutationMagnitude, preset.AddWidthProb, preset.AddDepthProb)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, neuroapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		return emitJSON(runs)
	}

	p := newPrinter()
	for _, run := range runs {
		p.kv("run_id=%s kind=%s created=%s seed=%d iters=%d rate=%g mag=%g p_width=%g p_depth=%g dad=%v mom=%v",
			run.ID, run.Kind, p.relativeTime(run.CreatedAtUTC), run.Seed, run.Iterations,
			run.MutationRate, run.MutationMag, run.AddWidthProb, run.AddDepthProb,
			run.DadWidths, run.MomWidths)
	}
	return nil
}

func runLineage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lineage", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show lineage for the most recent run")
	limit := fs.Int("limit", 50, "max lineage rows to print (0 for all)")
	jsonOut := fs.Bool("json", false, "emit lineage rows as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("lineage requires --run-id or --latest")
	}

	client, err := neuroapi.New(neuroapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	lineage, err := client.Lineage(ctx, neuroapi.LineageRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(lineage) == 0 {
		fmt.Println("no lineage records")
		return nil
	}
	if *jsonOut {
		return emitJSON(lineage)
	}

	p := newPrinter()
	for _, record := range lineage {
		p.kv("child_id=%s dad_id=%s mom_id=%s widths=%v",
			record.ChildID, record.DadID, record.MomID, record.ChildWidths)
	}
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: neurogonosctl <init|reset|random|eval|describe|breed|mutate|soak|presets|runs|lineage> [flags]", msg)
}
