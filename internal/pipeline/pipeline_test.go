package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spigell/hh-grader/internal/dataset"

	"go.uber.org/zap"
)

type fakeStage struct {
	name        string
	validateErr error
	applyErr    error
	preserve    bool
	apply       func(s *State) *State
}

func (f *fakeStage) Name() string { return f.name }

func (f *fakeStage) Validate(_ *State) error { return f.validateErr }

func (f *fakeStage) PreservesRows() bool { return f.preserve }

func (f *fakeStage) Apply(_ context.Context, s *State) (*State, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	if f.apply != nil {
		return f.apply(s), nil
	}
	return s, nil
}

func tableWithRows(t *testing.T, rows int) *dataset.Table {
	t.Helper()

	table := dataset.NewTable(rows)
	values := make([]dataset.Value, rows)
	for i := range values {
		values[i] = dataset.Text("x")
	}
	if err := table.AddColumn("a", values); err != nil {
		t.Fatalf("adding a column: %s", err)
	}
	return table
}

func TestRunOrder(t *testing.T) {
	var order []string
	stages := []Stage{
		&fakeStage{name: "first", apply: func(s *State) *State {
			order = append(order, "first")
			return s
		}},
		&fakeStage{name: "second", apply: func(s *State) *State {
			order = append(order, "second")
			return s
		}},
	}

	state := &State{Table: tableWithRows(t, 1)}
	if _, err := New(stages, zap.NewNop()).Run(context.Background(), state); err != nil {
		t.Fatalf("running the pipeline: %s", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected registration order, got %v", order)
	}
}

func TestRunFailFast(t *testing.T) {
	applied := false
	stages := []Stage{
		&fakeStage{name: "broken", applyErr: fmt.Errorf("boom")},
		&fakeStage{name: "after", apply: func(s *State) *State {
			applied = true
			return s
		}},
	}

	state := &State{Table: tableWithRows(t, 1)}
	_, err := New(stages, zap.NewNop()).Run(context.Background(), state)
	if err == nil {
		t.Fatal("expected the run to fail")
	}

	// The failing stage name must be attached to the error.
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected the stage name in the error, got %q", err)
	}
	if applied {
		t.Fatal("stages after a failure must not run")
	}
}

func TestRunValidateAborts(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "schema_check", validateErr: fmt.Errorf("column missing")},
	}

	state := &State{Table: tableWithRows(t, 1)}
	_, err := New(stages, zap.NewNop()).Run(context.Background(), state)
	if err == nil {
		t.Fatal("expected a validation failure to abort the run")
	}
	if !strings.Contains(err.Error(), "schema_check") {
		t.Fatalf("expected the stage name in the error, got %q", err)
	}
}

func TestRunRowInvariant(t *testing.T) {
	stages := []Stage{
		&fakeStage{
			name:     "leaky_extractor",
			preserve: true,
			apply: func(s *State) *State {
				s.Table = tableWithRows(t, 1)
				return s
			},
		},
	}

	state := &State{Table: tableWithRows(t, 3)}
	_, err := New(stages, zap.NewNop()).Run(context.Background(), state)
	if err == nil {
		t.Fatal("expected the row invariant to fail the run")
	}
	if !strings.Contains(err.Error(), "leaky_extractor") {
		t.Fatalf("expected the stage name in the error, got %q", err)
	}
}

func TestRunAllowsFilterRowDrop(t *testing.T) {
	stages := []Stage{
		&fakeStage{
			name: "filter",
			apply: func(s *State) *State {
				s.Table = tableWithRows(t, 1)
				return s
			},
		},
	}

	state := &State{Table: tableWithRows(t, 3)}
	out, err := New(stages, zap.NewNop()).Run(context.Background(), state)
	if err != nil {
		t.Fatalf("running the pipeline: %s", err)
	}
	if out.Table.Len() != 1 {
		t.Fatalf("expected 1 row after filtering, got %d", out.Table.Len())
	}
}
