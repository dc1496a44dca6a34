package ai

import "context"

// GradeAssessment is the provider's opinion about a résumé title.
type GradeAssessment struct {
	Grade  string
	Reason string
	Raw    string
}

// Grader suggests a grade for a title that matched none of the built-in
// keyword sets.
type Grader interface {
	Grade(ctx context.Context, title string, experienceMonths int) (*GradeAssessment, error)
}
