package transform

import (
	"context"
	"fmt"
	"sort"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

type encode struct {
	target string
}

// NewEncode creates the stage that converts every remaining free-text column
// except the target into binary indicator columns. A column with k distinct
// observed values yields k-1 indicators: the lexicographically first value is
// the reference and is implied by all indicators being zero.
func NewEncode(target string) pipeline.Stage {
	return &encode{target: target}
}

func (e *encode) Name() string { return "encode_categorical" }

func (e *encode) PreservesRows() bool { return true }

func (e *encode) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	return nil
}

func (e *encode) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	for _, name := range s.Table.Columns() {
		if name == e.target {
			continue
		}

		col, err := s.Table.Column(name)
		if err != nil {
			return nil, err
		}
		if !isTextColumn(col) {
			continue
		}

		if err := e.encodeColumn(s.Table, name, col); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// encodeColumn derives the indicator columns and drops the source. Missing
// cells match no value and encode as all zeros. The derived name is the source
// name, a fixed separator and the value, so feature importances can be traced
// back to a (column, value) pair.
func (e *encode) encodeColumn(t *dataset.Table, name string, col []dataset.Value) error {
	seen := make(map[string]struct{})
	for _, v := range col {
		if text, ok := v.AsText(); ok {
			seen[text] = struct{}{}
		}
	}

	distinct := make([]string, 0, len(seen))
	for value := range seen {
		distinct = append(distinct, value)
	}
	sort.Strings(distinct)

	// Skip the reference value.
	for _, value := range distinct[min(1, len(distinct)):] {
		indicators := make([]dataset.Value, len(col))
		for i, v := range col {
			text, ok := v.AsText()
			indicators[i] = dataset.Bool(ok && text == value)
		}
		if err := t.AddColumn(name+"_"+value, indicators); err != nil {
			return err
		}
	}

	t.DropColumn(name)
	return nil
}

// isTextColumn reports whether any cell still holds text. Columns of only
// missing cells count as text residue and encode to nothing but get dropped.
func isTextColumn(col []dataset.Value) bool {
	for _, v := range col {
		switch v.Kind() {
		case dataset.KindNumber, dataset.KindBool:
			return false
		}
	}
	return true
}
