package transform

import (
	"context"
	"fmt"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

type split struct {
	target string
}

// NewSplit creates the final stage that separates the fully numeric table into
// the feature matrix, the aligned feature-name list and the target vector. It
// consumes the table: after it only the feature set remains in the state.
func NewSplit(target string) pipeline.Stage {
	return &split{target: target}
}

func (s *split) Name() string { return "split" }

func (s *split) Validate(st *pipeline.State) error {
	if st.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !st.Table.HasColumn(s.target) {
		return fmt.Errorf("target column %q not found", s.target)
	}
	return nil
}

func (s *split) Apply(_ context.Context, st *pipeline.State) (*pipeline.State, error) {
	table := st.Table

	names := make([]string, 0, table.Width()-1)
	for _, name := range table.Columns() {
		if name != s.target {
			names = append(names, name)
		}
	}

	matrix := make([][]float64, table.Len())
	for i := range matrix {
		matrix[i] = make([]float64, len(names))
	}

	for j, name := range names {
		col, err := table.Column(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			f, ok := v.Feature()
			if !ok {
				return nil, fmt.Errorf("column %q row %d is not numeric after encoding", name, i)
			}
			matrix[i][j] = f
		}
	}

	targetCol, err := table.Column(s.target)
	if err != nil {
		return nil, err
	}

	target := make([]string, len(targetCol))
	for i, v := range targetCol {
		label, ok := v.AsText()
		if !ok {
			return nil, fmt.Errorf("target column %q row %d holds no label", s.target, i)
		}
		target[i] = label
	}

	st.Features = &dataset.FeatureSet{
		Matrix: matrix,
		Names:  names,
		Target: target,
	}
	st.Table = nil

	return st, nil
}
