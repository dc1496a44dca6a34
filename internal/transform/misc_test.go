package transform

import (
	"context"
	"testing"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

func TestParseUpdateYear(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"12.04.2019 10:00", 2019, true},
		{"30.12.2018 23:59", 2018, true},
		{"01.01.2017", 2017, true},
		{"2019-04-12", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseUpdateYear(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseUpdateYear(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMiscApply(t *testing.T) {
	table := dataset.NewTable(3)
	columns := map[string][]dataset.Value{
		resumeUpdatedColumn: {
			dataset.Text("12.04.2019 10:00"),
			dataset.Text("30.12.2018 23:59"),
			dataset.Text("not a date"),
		},
		autoColumn: {
			dataset.Text(ownCarLiteral),
			dataset.Missing(),
			dataset.Text("нет"),
		},
		lastPlaceColumn: {
			dataset.Text("ООО Рога и Копыта"),
			dataset.Missing(),
			dataset.Missing(),
		},
		lastPositionColumn: {
			dataset.Text("Ведущий разработчик"),
			dataset.Missing(),
			dataset.Missing(),
		},
	}
	for _, name := range []string{resumeUpdatedColumn, autoColumn, lastPlaceColumn, lastPositionColumn} {
		if err := table.AddColumn(name, columns[name]); err != nil {
			t.Fatalf("adding %q: %s", name, err)
		}
	}

	out, err := NewMisc(MiscConfig{}).Apply(context.Background(), &pipeline.State{Table: table})
	if err != nil {
		t.Fatalf("applying: %s", err)
	}

	// The leakage-prone free-text columns must be gone.
	for _, name := range []string{resumeUpdatedColumn, autoColumn, lastPlaceColumn, lastPositionColumn} {
		if out.Table.HasColumn(name) {
			t.Fatalf("column %q must be dropped", name)
		}
	}

	if flagAt(t, out.Table, "old_resume", 0) {
		t.Fatal("2019 is after the cutoff and must count as fresh")
	}
	if !flagAt(t, out.Table, "old_resume", 1) {
		t.Fatal("2018 must count as old")
	}
	if flagAt(t, out.Table, "old_resume", 2) {
		t.Fatal("an unparseable date must count as fresh")
	}

	if !flagAt(t, out.Table, "auto", 0) {
		t.Fatal("expected the car flag for the exact literal")
	}
	if flagAt(t, out.Table, "auto", 1) || flagAt(t, out.Table, "auto", 2) {
		t.Fatal("only the exact literal sets the car flag")
	}
}

func TestMiscCutoffOverride(t *testing.T) {
	stage := NewMisc(MiscConfig{FreshnessCutoffYear: 2020}).(*misc)

	if !stage.isOldResume("12.04.2019 10:00") {
		t.Fatal("2019 must be old with a 2020 cutoff")
	}
	if stage.isOldResume("05.06.2021 08:00") {
		t.Fatal("2021 must be fresh with a 2020 cutoff")
	}
}
