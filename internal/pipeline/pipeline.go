package pipeline

import (
	"context"
	"fmt"

	"github.com/spigell/hh-grader/internal/dataset"

	"go.uber.org/zap"
)

// State is the single container threaded through the pipeline. Ownership is
// handed stage to stage: a stage takes the container, mutates or replaces the
// table, and returns the container for the next stage. The split stage trades
// the table for the feature set.
type State struct {
	Table    *dataset.Table
	Features *dataset.FeatureSet
}

// Stage represents a single transformation step over the shared state.
type Stage interface {
	Name() string

	// Validate checks the stage contract against the incoming state, most
	// importantly that the source columns it consumes are present. A failed
	// validation is a schema error and aborts the whole run.
	Validate(s *State) error

	Apply(ctx context.Context, s *State) (*State, error)
}

// rowPreserver is implemented by stages that must keep the row count intact.
// The runner enforces it as a post-condition.
type rowPreserver interface {
	PreservesRows() bool
}

// Pipeline executes stages strictly in registration order.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// New creates a pipeline from the given stages.
func New(stages []Stage, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		stages: stages,
		logger: logger,
	}
}

// Run executes all stages sequentially. The first failing stage aborts the run
// and its name is attached to the returned error. There is no partial result
// and no rollback.
func (p *Pipeline) Run(ctx context.Context, s *State) (*State, error) {
	p.logger.Info("starting the pipeline", zap.Int("stages", len(p.stages)))

	for _, stage := range p.stages {
		if err := stage.Validate(s); err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		rowsBefore, colsBefore := dims(s)

		next, err := stage.Apply(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		rowsAfter, colsAfter := dims(next)

		if preserver, ok := stage.(rowPreserver); ok && preserver.PreservesRows() {
			if next.Table != nil && rowsAfter != rowsBefore {
				return nil, fmt.Errorf("%s: row count changed from %d to %d by an extraction stage", stage.Name(), rowsBefore, rowsAfter)
			}
		}

		p.logger.Info("pipeline stage",
			zap.String("name", stage.Name()),
			zap.Int("rows_before", rowsBefore),
			zap.Int("cols_before", colsBefore),
			zap.Int("rows_after", rowsAfter),
			zap.Int("cols_after", colsAfter),
		)

		s = next
	}

	p.logger.Info("pipeline completed")
	return s, nil
}

func dims(s *State) (rows, cols int) {
	if s == nil || s.Table == nil {
		return 0, 0
	}
	return s.Table.Len(), s.Table.Width()
}
