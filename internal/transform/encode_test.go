package transform

import (
	"context"
	"reflect"
	"testing"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

func TestEncodeApply(t *testing.T) {
	table := dataset.NewTable(4)
	if err := table.AddColumn("region", []dataset.Value{
		dataset.Text("Moscow"),
		dataset.Text("Belarus"),
		dataset.Text("Other"),
		dataset.Missing(),
	}); err != nil {
		t.Fatalf("adding the region column: %s", err)
	}
	if err := table.AddColumn("age", []dataset.Value{
		dataset.Number(30), dataset.Number(25), dataset.Number(40), dataset.Number(22),
	}); err != nil {
		t.Fatalf("adding the age column: %s", err)
	}
	if err := table.AddColumn(GradeColumn, []dataset.Value{
		dataset.Text(GradeJunior), dataset.Text(GradeMiddle),
		dataset.Text(GradeSenior), dataset.Text(GradeJunior),
	}); err != nil {
		t.Fatalf("adding the grade column: %s", err)
	}

	out, err := NewEncode(GradeColumn).Apply(context.Background(), &pipeline.State{Table: table})
	if err != nil {
		t.Fatalf("applying: %s", err)
	}

	// 3 distinct values yield 2 indicators: the lexicographically first value
	// (Belarus) is the reference. The target column must stay untouched.
	want := []string{"age", GradeColumn, "region_Moscow", "region_Other"}
	if got := out.Table.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected columns %v, got %v", want, got)
	}

	if !flagAt(t, out.Table, "region_Moscow", 0) || flagAt(t, out.Table, "region_Other", 0) {
		t.Fatal("row 0 must be Moscow only")
	}
	// The reference value encodes as all zeros.
	if flagAt(t, out.Table, "region_Moscow", 1) || flagAt(t, out.Table, "region_Other", 1) {
		t.Fatal("the reference value must encode as all zeros")
	}
	// So does a missing cell.
	if flagAt(t, out.Table, "region_Moscow", 3) || flagAt(t, out.Table, "region_Other", 3) {
		t.Fatal("a missing cell must encode as all zeros")
	}
}

func TestEncodeSingleValue(t *testing.T) {
	table := dataset.NewTable(2)
	if err := table.AddColumn("constant", []dataset.Value{
		dataset.Text("same"), dataset.Text("same"),
	}); err != nil {
		t.Fatalf("adding the column: %s", err)
	}

	out, err := NewEncode(GradeColumn).Apply(context.Background(), &pipeline.State{Table: table})
	if err != nil {
		t.Fatalf("applying: %s", err)
	}

	// A single observed value is pure reference: no indicators at all.
	if out.Table.Width() != 0 {
		t.Fatalf("expected no columns, got %v", out.Table.Columns())
	}
}

func TestEncodeAllMissing(t *testing.T) {
	table := dataset.NewTable(2)
	if err := table.AddColumn("empty", []dataset.Value{
		dataset.Missing(), dataset.Missing(),
	}); err != nil {
		t.Fatalf("adding the column: %s", err)
	}

	out, err := NewEncode(GradeColumn).Apply(context.Background(), &pipeline.State{Table: table})
	if err != nil {
		t.Fatalf("applying: %s", err)
	}

	if out.Table.HasColumn("empty") {
		t.Fatal("an all-missing column must be dropped")
	}
}
