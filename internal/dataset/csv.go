package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Load reads a raw résumé export: UTF-8 delimited text with a header row, a
// leading index column, comma separators and double-quote quoting. The index
// column is dropped. Every non-empty cell loads as text, empty cells load as
// missing; typing happens later in the extraction stages.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %q: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %q is empty", path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("dataset %q has no data columns", path)
	}

	rows := records[1:]
	table := NewTable(len(rows))

	// Skip the index column.
	for c := 1; c < len(header); c++ {
		values := make([]Value, len(rows))
		for r, record := range rows {
			cell := record[c]
			if cell == "" {
				values[r] = Missing()
				continue
			}
			values[r] = Text(cell)
		}
		if err := table.AddColumn(header[c], values); err != nil {
			return nil, fmt.Errorf("load dataset %q: %w", path, err)
		}
	}

	return table, nil
}
