package transform

import (
	"context"
	"testing"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"Мужчина, 30 лет", 0},
		{"Male, 30 years", 0},
		{"Женщина, 25 лет", 1},
		{"Female, 25 years", 1},
		{"", 1},
	}

	for _, tt := range tests {
		if got := parseGender(tt.raw); got != tt.want {
			t.Fatalf("parseGender(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"Мужчина, 30 лет, родился 2 июня 1992", 30, true},
		{"Женщина, 22 года", 22, true},
		{"Мужчина", 0, false},
		{"Мужчина, неизвестно", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseAge(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseAge(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseBirthMonth(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"Мужчина, 30 лет, родился 2 июня 1992", 5, true},
		{"Женщина, 25 лет, родилась 3 марта 1996", 2, true},
		{"Male, 40 years, born on 1 January 1982", 0, true},
		{"Женщина, 22 года", 0, false},
		{"Мужчина, 30 лет, родился неизвестно", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseBirthMonth(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseBirthMonth(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPersonalInfoApply(t *testing.T) {
	table := dataset.NewTable(2)
	if err := table.AddColumn(personalColumn, []dataset.Value{
		dataset.Text("Мужчина, 30 лет, родился 2 июня 1992"),
		dataset.Missing(),
	}); err != nil {
		t.Fatalf("adding the column: %s", err)
	}

	out, err := NewPersonalInfo().Apply(context.Background(), &pipeline.State{Table: table})
	if err != nil {
		t.Fatalf("applying: %s", err)
	}

	if out.Table.HasColumn(personalColumn) {
		t.Fatal("the source column must be dropped")
	}

	checks := []struct {
		column string
		row    int
		want   float64
	}{
		{"gender", 0, 0},
		{"age", 0, 30},
		{"birthday_month", 0, 5},
		// A missing cell yields the unknown sentinels.
		{"gender", 1, 1},
		{"age", 1, -1},
		{"birthday_month", 1, -1},
	}

	for _, c := range checks {
		col, err := out.Table.Column(c.column)
		if err != nil {
			t.Fatalf("getting %q: %s", c.column, err)
		}
		if v, _ := col[c.row].AsNumber(); v != c.want {
			t.Fatalf("%s[%d] = %v, want %v", c.column, c.row, v, c.want)
		}
	}
}
