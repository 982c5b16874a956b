package neurogonos

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"neurogonos/internal/agent"
	"neurogonos/internal/evo"
	"neurogonos/internal/genotype"
	agentio "neurogonos/internal/io"
	"neurogonos/internal/model"
	"neurogonos/internal/stats"
	"neurogonos/internal/storage"
)

const defaultDBPath = "neurogonos.db"

// Default breeding parameters, applied whenever a request leaves all four
// knobs at zero.
const (
	DefaultMutationRate      = 0.05
	DefaultMutationMagnitude = 0.1
	DefaultAddWidthProb      = 0.3
	DefaultAddDepthProb      = 0.2
)

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store      storage.Store
	storeReady bool
}

type GenerateRequest struct {
	Seed         int64
	HiddenWidths []int
	AssignID     bool
	Save         bool
}

type BreedRequest struct {
	Dad               model.Genome
	Mom               model.Genome
	Seed              int64
	MutationRate      float64
	MutationMagnitude float64
	AddWidthProb      float64
	AddDepthProb      float64
	AssignID          bool
	Save              bool
}

type MutateRequest struct {
	Genome            model.Genome
	Operator          string
	Seed              int64
	MutationRate      float64
	MutationMagnitude float64
	AssignID          bool
	Save              bool
}

type EvaluateRequest struct {
	Genome   model.Genome
	GenomeID string
	Input    []float64
}

type DescribeRequest struct {
	Genome   model.Genome
	GenomeID string
}

type SoakRequest struct {
	Seed              int64
	Iterations        int
	DadWidths         []int
	MomWidths         []int
	MutationRate      float64
	MutationMagnitude float64
	AddWidthProb      float64
	AddDepthProb      float64
	Record            bool
}

type SoakSummary struct {
	RunID          string
	Iterations     int
	DadWidths      []int
	MomWidths      []int
	HiddenCounts   map[int]int
	HiddenMin      int
	HiddenMax      int
	MeanParamCount float64
	MinParamCount  int
	MaxParamCount  int
}

type RunsRequest struct {
	Limit int
}

type LineageRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensureStore(ctx)
	return err
}

func (c *Client) Reset(ctx context.Context) error {
	store, err := c.ensureStore(ctx)
	if err != nil {
		return err
	}
	return store.Reset(ctx)
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (model.Genome, error) {
	rng := rand.New(rand.NewSource(req.Seed))

	var genome model.Genome
	var err error
	if len(req.HiddenWidths) > 0 {
		genome, err = genotype.FromHiddenWidths(req.HiddenWidths, rng)
	} else {
		genome, err = genotype.NewRandom(rng)
	}
	if err != nil {
		return model.Genome{}, err
	}

	if req.AssignID || req.Save {
		genome.ID = uuid.NewString()
	}
	if req.Save {
		if _, err := c.SaveGenome(ctx, genome); err != nil {
			return model.Genome{}, err
		}
		genome.VersionedRecord = storage.StampVersion()
	}
	return genome, nil
}

func (c *Client) Breed(ctx context.Context, req BreedRequest) (model.Genome, error) {
	if req.MutationRate == 0 && req.MutationMagnitude == 0 && req.AddWidthProb == 0 && req.AddDepthProb == 0 {
		req.MutationRate = DefaultMutationRate
		req.MutationMagnitude = DefaultMutationMagnitude
		req.AddWidthProb = DefaultAddWidthProb
		req.AddDepthProb = DefaultAddDepthProb
	}

	recombiner := &evo.Recombiner{
		Rand:              rand.New(rand.NewSource(req.Seed)),
		MutationRate:      req.MutationRate,
		MutationMagnitude: req.MutationMagnitude,
		AddWidthProb:      req.AddWidthProb,
		AddDepthProb:      req.AddDepthProb,
	}
	child, err := recombiner.Recombine(ctx, req.Dad, req.Mom)
	if err != nil {
		return model.Genome{}, err
	}

	if req.AssignID || req.Save {
		child.ID = uuid.NewString()
	}
	if req.Save {
		if _, err := c.SaveGenome(ctx, child); err != nil {
			return model.Genome{}, err
		}
		child.VersionedRecord = storage.StampVersion()
	}
	return child, nil
}

func (c *Client) Mutate(ctx context.Context, req MutateRequest) (model.Genome, error) {
	if req.Operator == "" {
		req.Operator = "point_mutation"
	}
	if req.MutationRate == 0 && req.MutationMagnitude == 0 {
		req.MutationRate = DefaultMutationRate
		req.MutationMagnitude = DefaultMutationMagnitude
	}

	operator, err := operatorFromName(req.Operator, rand.New(rand.NewSource(req.Seed)), req.MutationRate, req.MutationMagnitude)
	if err != nil {
		return model.Genome{}, err
	}
	mutated, err := operator.Apply(ctx, req.Genome)
	if err != nil {
		return model.Genome{}, err
	}

	if req.AssignID || req.Save {
		mutated.ID = uuid.NewString()
	}
	if req.Save {
		if _, err := c.SaveGenome(ctx, mutated); err != nil {
			return model.Genome{}, err
		}
		mutated.VersionedRecord = storage.StampVersion()
	}
	return mutated, nil
}

func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) ([]float64, error) {
	genome, err := c.resolveGenome(ctx, req.Genome, req.GenomeID)
	if err != nil {
		return nil, err
	}
	if len(genome.Layers) == 0 {
		return nil, errors.New("genome has no layers")
	}
	if got, want := len(req.Input), genome.Layers[0].InDim; got != want {
		return nil, fmt.Errorf("input size mismatch: got=%d want=%d", got, want)
	}

	sensor, err := agentio.NewFrameSensor("frame", genome.Layers[0].InDim)
	if err != nil {
		return nil, err
	}
	sensor.Set(req.Input)
	motor, err := agentio.NewCaptureActuator("motor")
	if err != nil {
		return nil, err
	}

	cortex, err := agent.NewCortex("evaluate", genome, []agentio.Sensor{sensor}, []agentio.Actuator{motor})
	if err != nil {
		return nil, err
	}
	if _, err := cortex.Tick(ctx); err != nil {
		return nil, err
	}
	return motor.Last(), nil
}

func (c *Client) Describe(ctx context.Context, req DescribeRequest) (stats.Summary, error) {
	genome, err := c.resolveGenome(ctx, req.Genome, req.GenomeID)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(genome)
}

func (c *Client) Soak(ctx context.Context, req SoakRequest) (SoakSummary, error) {
	if req.Iterations <= 0 {
		req.Iterations = 1000
	}
	if len(req.DadWidths) == 0 {
		req.DadWidths = []int{20}
	}
	if len(req.MomWidths) == 0 {
		req.MomWidths = []int{12, 16}
	}
	if req.MutationRate == 0 && req.MutationMagnitude == 0 && req.AddWidthProb == 0 && req.AddDepthProb == 0 {
		req.MutationRate = DefaultMutationRate
		req.MutationMagnitude = DefaultMutationMagnitude
		req.AddWidthProb = DefaultAddWidthProb
		req.AddDepthProb = DefaultAddDepthProb
	}

	dad, err := genotype.FromHiddenWidths(req.DadWidths, rand.New(rand.NewSource(req.Seed+1000)))
	if err != nil {
		return SoakSummary{}, fmt.Errorf("build dad: %w", err)
	}
	mom, err := genotype.FromHiddenWidths(req.MomWidths, rand.New(rand.NewSource(req.Seed+2000)))
	if err != nil {
		return SoakSummary{}, fmt.Errorf("build mom: %w", err)
	}

	var runID string
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	if req.Record {
		runID = uuid.NewString()
		dad.ID = uuid.NewString()
		mom.ID = uuid.NewString()
	}

	recombiner := &evo.Recombiner{
		Rand:              rand.New(rand.NewSource(req.Seed)),
		MutationRate:      req.MutationRate,
		MutationMagnitude: req.MutationMagnitude,
		AddWidthProb:      req.AddWidthProb,
		AddDepthProb:      req.AddDepthProb,
	}

	summary := SoakSummary{
		Iterations:   req.Iterations,
		DadWidths:    append([]int(nil), req.DadWidths...),
		MomWidths:    append([]int(nil), req.MomWidths...),
		HiddenCounts: make(map[int]int),
	}
	paramCounts := make([]float64, 0, req.Iterations)
	lineage := make([]model.LineageRecord, 0, req.Iterations)

	for i := 0; i < req.Iterations; i++ {
		child, err := recombiner.Recombine(ctx, dad, mom)
		if err != nil {
			return SoakSummary{}, fmt.Errorf("iteration %d: %w", i, err)
		}
		if err := genotype.Validate(child); err != nil {
			return SoakSummary{}, fmt.Errorf("iteration %d produced an invalid child: %w", i, err)
		}

		described, err := stats.Summarize(child)
		if err != nil {
			return SoakSummary{}, fmt.Errorf("iteration %d: %w", i, err)
		}
		summary.HiddenCounts[described.HiddenCount]++
		if i == 0 || described.HiddenCount < summary.HiddenMin {
			summary.HiddenMin = described.HiddenCount
		}
		if described.HiddenCount > summary.HiddenMax {
			summary.HiddenMax = described.HiddenCount
		}
		paramCounts = append(paramCounts, float64(described.ParamCount))

		if req.Record {
			lineage = append(lineage, model.LineageRecord{
				VersionedRecord: storage.StampVersion(),
				RunID:           runID,
				ChildID:         uuid.NewString(),
				DadID:           dad.ID,
				MomID:           mom.ID,
				ChildWidths:     described.HiddenWidths,
				CreatedAtUTC:    createdAt,
			})
		}
	}
	if len(paramCounts) > 0 {
		summary.MeanParamCount = stat.Mean(paramCounts, nil)
		summary.MinParamCount = int(floats.Min(paramCounts))
		summary.MaxParamCount = int(floats.Max(paramCounts))
	}

	if req.Record {
		store, err := c.ensureStore(ctx)
		if err != nil {
			return SoakSummary{}, err
		}
		for _, parent := range []model.Genome{dad, mom} {
			stamped := parent
			stamped.VersionedRecord = storage.StampVersion()
			if err := store.SaveGenome(ctx, stamped); err != nil {
				return SoakSummary{}, err
			}
		}
		run := model.RunRecord{
			VersionedRecord: storage.StampVersion(),
			ID:              runID,
			Kind:            "soak",
			CreatedAtUTC:    createdAt,
			Seed:            req.Seed,
			Iterations:      req.Iterations,
			MutationRate:    req.MutationRate,
			MutationMag:     req.MutationMagnitude,
			AddWidthProb:    req.AddWidthProb,
			AddDepthProb:    req.AddDepthProb,
			DadWidths:       append([]int(nil), req.DadWidths...),
			MomWidths:       append([]int(nil), req.MomWidths...),
		}
		if err := store.SaveRun(ctx, run); err != nil {
			return SoakSummary{}, err
		}
		if err := store.SaveLineage(ctx, runID, lineage); err != nil {
			return SoakSummary{}, err
		}
		summary.RunID = runID
	}
	return summary, nil
}

func (c *Client) SaveGenome(ctx context.Context, genome model.Genome) (string, error) {
	if err := genotype.Validate(genome); err != nil {
		return "", fmt.Errorf("refusing to archive genome: %w", err)
	}

	store, err := c.ensureStore(ctx)
	if err != nil {
		return "", err
	}
	if genome.ID == "" {
		genome.ID = uuid.NewString()
	}
	genome.VersionedRecord = storage.StampVersion()
	if err := store.SaveGenome(ctx, genome); err != nil {
		return "", err
	}
	return genome.ID, nil
}

func (c *Client) LoadGenome(ctx context.Context, id string) (model.Genome, error) {
	if id == "" {
		return model.Genome{}, errors.New("genome id is required")
	}

	store, err := c.ensureStore(ctx)
	if err != nil {
		return model.Genome{}, err
	}
	genome, ok, err := store.GetGenome(ctx, id)
	if err != nil {
		return model.Genome{}, err
	}
	if !ok {
		return model.Genome{}, fmt.Errorf("genome not found: %s", id)
	}
	if err := genotype.Validate(genome); err != nil {
		return model.Genome{}, fmt.Errorf("stored genome %s is invalid: %w", id, err)
	}
	return genome, nil
}

func (c *Client) ListGenomes(ctx context.Context) ([]string, error) {
	store, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListGenomeIDs(ctx)
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	store, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListRuns(ctx, req.Limit)
}

func (c *Client) Lineage(ctx context.Context, req LineageRequest) ([]model.LineageRecord, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	store, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	runID := req.RunID
	if req.Latest {
		runs, err := store.ListRuns(ctx, 1)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, errors.New("no runs available")
		}
		runID = runs[0].ID
	}
	if runID == "" {
		return nil, errors.New("lineage requires run id or latest")
	}

	lineage, ok, err := store.GetLineage(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("lineage not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(lineage) > req.Limit {
		lineage = lineage[:req.Limit]
	}
	return lineage, nil
}

func (c *Client) NewCortex(id string, genome model.Genome, sensors []agentio.Sensor, actuators []agentio.Actuator) (*agent.Cortex, error) {
	return agent.NewCortex(id, genome, sensors, actuators)
}

func (c *Client) ensureStore(ctx context.Context) (storage.Store, error) {
	if c.storeReady {
		return c.store, nil
	}
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	c.storeReady = true
	return c.store, nil
}

func (c *Client) resolveGenome(ctx context.Context, genome model.Genome, id string) (model.Genome, error) {
	if id == "" {
		return genome, nil
	}
	return c.LoadGenome(ctx, id)
}

func operatorFromName(name string, rng *rand.Rand, rate, magnitude float64) (evo.Operator, error) {
	switch name {
	case "point_mutation":
		return &evo.PointMutation{Rand: rng, Rate: rate, Magnitude: magnitude}, nil
	case "grow_width":
		return &evo.GrowWidth{Rand: rng}, nil
	case "insert_hidden_layer":
		return &evo.InsertHiddenLayer{Rand: rng}, nil
	default:
		return nil, fmt.Errorf("unsupported mutation operator: %s", name)
	}
}
