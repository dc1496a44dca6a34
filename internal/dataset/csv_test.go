package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hh.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing the fixture: %s", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, ",\"Пол, возраст\",ЗП\n"+
		"0,\"Мужчина, 30 лет\",100000 руб.\n"+
		"1,,50000 руб.\n")

	table, err := Load(path)
	if err != nil {
		t.Fatalf("loading the dataset: %s", err)
	}

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	// The index column must be skipped.
	want := []string{"Пол, возраст", "ЗП"}
	if got := table.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected columns %v, got %v", want, got)
	}

	col, err := table.Column("Пол, возраст")
	if err != nil {
		t.Fatalf("getting the column: %s", err)
	}

	if text, ok := col[0].AsText(); !ok || text != "Мужчина, 30 лет" {
		t.Fatalf("expected the quoted cell intact, got (%q, %v)", text, ok)
	}
	if !col[1].IsMissing() {
		t.Fatal("an empty cell must load as missing")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected an error for a missing file")
	}

	if _, err := Load(writeCSV(t, "")); err == nil {
		t.Fatal("expected an error for an empty file")
	}

	if _, err := Load(writeCSV(t, "index\n0\n")); err == nil {
		t.Fatal("expected an error for a file without data columns")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	fs := &FeatureSet{
		Matrix: [][]float64{{1, 0}, {0, 1}},
		Names:  []string{"a", "b"},
		Target: []string{"Junior", "Senior"},
	}

	filename, err := fs.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dumping the feature set: %s", err)
	}
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("reading the dump: %s", err)
	}
	if len(data) == 0 {
		t.Fatal("expected a non-empty dump")
	}
}
