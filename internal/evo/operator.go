package evo

import (
	"context"

	"neurogonos/internal/model"
)

type Operator interface {
	Name() string
	Apply(ctx context.Context, genome model.Genome) (model.Genome, error)
}
