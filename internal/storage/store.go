package storage

import (
	"context"

	"neurogonos/internal/model"
)

// Store persists genomes plus the run and lineage records the tooling
// writes while breeding them.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveGenome(ctx context.Context, genome model.Genome) error
	GetGenome(ctx context.Context, id string) (model.Genome, bool, error)
	ListGenomeIDs(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveLineage(ctx context.Context, runID string, lineage []model.LineageRecord) error
	GetLineage(ctx context.Context, runID string) ([]model.LineageRecord, bool, error)
}
