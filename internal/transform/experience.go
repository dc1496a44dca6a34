package transform

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

const experienceColumn = "Опыт (двойное нажатие для полной версии)"

// ExperienceMonthsColumn is the derived duration column. The labeling stage
// consumes and deletes it.
const ExperienceMonthsColumn = "experience_months"

// Year and month words in every inflection the export uses.
var (
	experienceYearsRe  = regexp.MustCompile(`(\d+)\s*(?:год|года|лет)`)
	experienceMonthsRe = regexp.MustCompile(`(\d+)\s*(?:месяц|месяца|месяцев)`)
)

type experience struct{}

// NewExperience creates the stage that parses the free-text work duration into
// total months.
func NewExperience() pipeline.Stage {
	return &experience{}
}

func (e *experience) Name() string { return "experience" }

func (e *experience) PreservesRows() bool { return true }

func (e *experience) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !s.Table.HasColumn(experienceColumn) {
		return fmt.Errorf("column %q not found", experienceColumn)
	}
	return nil
}

func (e *experience) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	source, err := s.Table.Column(experienceColumn)
	if err != nil {
		return nil, err
	}

	values := make([]dataset.Value, len(source))
	for i, v := range source {
		values[i] = dataset.Number(float64(parseExperienceMonths(textOf(v))))
	}

	if err := s.Table.AddColumn(ExperienceMonthsColumn, values); err != nil {
		return nil, err
	}
	s.Table.DropColumn(experienceColumn)

	return s, nil
}

// parseExperienceMonths sums the first integer preceding a year word (times
// 12) and the first integer preceding a month word. Either group may be
// absent; text with neither yields 0.
func parseExperienceMonths(raw string) int {
	total := 0

	if m := experienceYearsRe.FindStringSubmatch(raw); m != nil {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			total += years * 12
		}
	}

	if m := experienceMonthsRe.FindStringSubmatch(raw); m != nil {
		months, err := strconv.Atoi(m[1])
		if err == nil {
			total += months
		}
	}

	return total
}
