// Package transform contains the pipeline stages that turn raw résumé columns
// into typed features and the derived grade target. Each extraction stage
// consumes its source columns, derives new ones and drops the sources so no
// later stage can re-derive or leak the same signal.
package transform

import "github.com/spigell/hh-grader/internal/dataset"

// Grade labels form a closed set. The labeling stage produces exactly one of
// them per row.
const (
	GradeJunior = "Junior"
	GradeMiddle = "Middle"
	GradeSenior = "Senior"
)

// GradeColumn is the reserved target column name.
const GradeColumn = "grade"

// Grades lists the closed label set in seniority order.
func Grades() []string {
	return []string{GradeJunior, GradeMiddle, GradeSenior}
}

// textOf returns the cell text, or "" for missing and non-text cells. Raw
// columns hold either text or missing values, so this is the total accessor
// extraction stages use before parsing.
func textOf(v dataset.Value) string {
	s, ok := v.AsText()
	if !ok {
		return ""
	}
	return s
}
