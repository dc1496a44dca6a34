package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hh-grader/internal/ai"
	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"

	"go.uber.org/zap"
)

// Title keyword sets. Matching is case-insensitive substring containment; the
// trailing spaces in the short forms keep them from firing inside words.
var (
	juniorKeywords = []string{
		"junior", "jun ", "jr ", "trainee", "стажер", "стажёр",
		"intern", "младший", "начинающий",
	}
	seniorKeywords = []string{
		"senior", "sr ", "lead", "principal", "staff", "ведущий",
		"главный", "руководитель", "team lead", "architect",
		"head of", "expert",
	}
	middleKeywords = []string{
		"middle", "mid ", "мидл", "мидлл",
	}
)

// GradeThresholds are the experience boundaries (in months) of the labeling
// decision procedure. The asymmetry between branches is deliberate: a title
// claiming "junior" with long tenure is promoted only to Middle, never
// straight to Senior.
type GradeThresholds struct {
	// SeniorConflictMonths resolves titles matching both Senior and Junior
	// keywords: above it the row is Senior, otherwise Junior.
	SeniorConflictMonths int `mapstructure:"senior-conflict-months"`
	// JuniorAsMiddleMonths promotes a Junior-titled row to Middle.
	JuniorAsMiddleMonths int `mapstructure:"junior-as-middle-months"`
	// MiddleAsSeniorMonths promotes a Middle-titled row to Senior.
	MiddleAsSeniorMonths int `mapstructure:"middle-as-senior-months"`
	// JuniorMaxMonths is the upper Junior bound when no keyword matches.
	JuniorMaxMonths int `mapstructure:"junior-max-months"`
	// MiddleMaxMonths is the upper Middle bound when no keyword matches.
	MiddleMaxMonths int `mapstructure:"middle-max-months"`
}

// DefaultGradeThresholds returns the thresholds derived from the dataset.
func DefaultGradeThresholds() GradeThresholds {
	return GradeThresholds{
		SeniorConflictMonths: 36,
		JuniorAsMiddleMonths: 60,
		MiddleAsSeniorMonths: 96,
		JuniorMaxMonths:      18,
		MiddleMaxMonths:      60,
	}
}

type labeling struct {
	thresholds GradeThresholds
	grader     ai.Grader
	logger     *zap.Logger
}

// NewLabeling creates the stage that derives the grade target from the raw
// title and the extracted experience, then deletes both so they cannot leak
// into the feature set. The optional grader is consulted only for titles with
// no keyword match; pass nil to keep labeling fully deterministic.
func NewLabeling(thresholds GradeThresholds, grader ai.Grader, logger *zap.Logger) pipeline.Stage {
	zero := GradeThresholds{}
	if thresholds == zero {
		thresholds = DefaultGradeThresholds()
	}

	return &labeling{
		thresholds: thresholds,
		grader:     grader,
		logger:     logger,
	}
}

func (l *labeling) Name() string { return "labeling" }

func (l *labeling) PreservesRows() bool { return true }

func (l *labeling) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !s.Table.HasColumn(TitleColumn) {
		return fmt.Errorf("column %q not found", TitleColumn)
	}
	if !s.Table.HasColumn(ExperienceMonthsColumn) {
		return fmt.Errorf("column %q not found, the experience stage must run before labeling", ExperienceMonthsColumn)
	}
	return nil
}

func (l *labeling) Apply(ctx context.Context, s *pipeline.State) (*pipeline.State, error) {
	titles, err := s.Table.Column(TitleColumn)
	if err != nil {
		return nil, err
	}
	months, err := s.Table.Column(ExperienceMonthsColumn)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int, 3)
	grades := make([]dataset.Value, len(titles))
	for i := range titles {
		title := textOf(titles[i])

		exp := 0
		if f, ok := months[i].AsNumber(); ok {
			exp = int(f)
		}

		grade := l.determineGrade(ctx, title, exp)
		grades[i] = dataset.Text(grade)
		distribution[grade]++
	}

	if err := s.Table.AddColumn(GradeColumn, grades); err != nil {
		return nil, err
	}

	// Remove the label sources to prevent target leakage.
	s.Table.DropColumn(TitleColumn)
	s.Table.DropColumn(ExperienceMonthsColumn)

	l.logger.Info("labeled grades",
		zap.Int("junior", distribution[GradeJunior]),
		zap.Int("middle", distribution[GradeMiddle]),
		zap.Int("senior", distribution[GradeSenior]),
	)

	return s, nil
}

// determineGrade applies the keyword/threshold decision procedure. Rule order
// is the tie-break policy and must not be rearranged.
func (l *labeling) determineGrade(ctx context.Context, title string, experienceMonths int) string {
	lower := strings.ToLower(title)

	hasJunior := containsAny(lower, juniorKeywords)
	hasSenior := containsAny(lower, seniorKeywords)
	hasMiddle := containsAny(lower, middleKeywords)

	// Conflicting indicators: long experience wins.
	if hasSenior && hasJunior {
		if experienceMonths > l.thresholds.SeniorConflictMonths {
			return GradeSenior
		}
		return GradeJunior
	}

	if hasSenior {
		return GradeSenior
	}

	if hasJunior {
		if experienceMonths > l.thresholds.JuniorAsMiddleMonths {
			return GradeMiddle
		}
		return GradeJunior
	}

	if hasMiddle {
		if experienceMonths > l.thresholds.MiddleAsSeniorMonths {
			return GradeSenior
		}
		return GradeMiddle
	}

	if l.grader != nil {
		if grade, ok := l.askGrader(ctx, title, experienceMonths); ok {
			return grade
		}
	}

	return l.gradeByExperience(experienceMonths)
}

func (l *labeling) gradeByExperience(experienceMonths int) string {
	switch {
	case experienceMonths <= l.thresholds.JuniorMaxMonths:
		return GradeJunior
	case experienceMonths <= l.thresholds.MiddleMaxMonths:
		return GradeMiddle
	default:
		return GradeSenior
	}
}

// askGrader requests an AI opinion for a keywordless title. Any failure or an
// out-of-set answer falls back to pure experience thresholding.
func (l *labeling) askGrader(ctx context.Context, title string, experienceMonths int) (string, bool) {
	assessment, err := l.grader.Grade(ctx, title, experienceMonths)
	if err != nil {
		l.logger.Warn("AI grading failed, falling back to thresholds",
			zap.String("title", title),
			zap.Error(err),
		)
		return "", false
	}

	switch assessment.Grade {
	case GradeJunior, GradeMiddle, GradeSenior:
		l.logger.Debug("grade suggested by AI",
			zap.String("title", title),
			zap.String("grade", assessment.Grade),
			zap.String("reason", assessment.Reason),
		)
		return assessment.Grade, true
	default:
		l.logger.Warn("AI returned an unknown grade, falling back to thresholds",
			zap.String("title", title),
			zap.String("grade", assessment.Grade),
		)
		return "", false
	}
}
