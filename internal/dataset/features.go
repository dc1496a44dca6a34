package dataset

import (
	"encoding/json"
	"os"
)

// FeatureSet is the pipeline output handed to the training collaborator: a
// rectangular numeric matrix, the feature names aligned index-for-index with
// the matrix columns, and the target vector of grade labels.
type FeatureSet struct {
	Matrix [][]float64 `json:"matrix"`
	Names  []string    `json:"names"`
	Target []string    `json:"target"`
}

// Len returns the number of samples.
func (f *FeatureSet) Len() int { return len(f.Matrix) }

// DumpToTmpFile writes the feature set to a temporary JSON file and returns
// its name.
func (f *FeatureSet) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "features_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return "", err
	}
	return file.Name(), nil
}
