package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

// category pairs a derived column suffix with the phrases (in two languages)
// whose presence sets the flag. The slice order fixes the derived column order.
type category struct {
	suffix   string
	keywords []string
}

// flagsStage derives one independent boolean indicator column per category.
// Categories are presence flags, not one-hot values: a row can match several
// at once.
type flagsStage struct {
	name       string
	source     string
	prefix     string
	categories []category
}

// NewEmployment creates the stage that flattens the employment-type field into
// emp_* indicator columns.
func NewEmployment() pipeline.Stage {
	return &flagsStage{
		name:   "employment",
		source: "Занятость",
		prefix: "emp_",
		categories: []category{
			{"full_time", []string{"полная занятость", "full time"}},
			{"part_time", []string{"частичная занятость", "part time"}},
			{"project", []string{"проектная работа", "project work"}},
			{"internship", []string{"стажировка", "work placement"}},
			{"volunteering", []string{"волонтерство", "volunteering"}},
		},
	}
}

// NewSchedule creates the stage that flattens the work-schedule field into
// sch_* indicator columns.
func NewSchedule() pipeline.Stage {
	return &flagsStage{
		name:   "schedule",
		source: "График",
		prefix: "sch_",
		categories: []category{
			{"full_day", []string{"полный день", "full day"}},
			{"flexible", []string{"гибкий график", "flexible schedule"}},
			{"shift", []string{"сменный график", "shift schedule"}},
			{"remote", []string{"удаленная работа", "remote working"}},
			{"rotation", []string{"вахтовый метод", "rotation based work"}},
		},
	}
}

// NewEducation creates the stage that flattens the education field into edu_*
// indicator columns.
func NewEducation() pipeline.Stage {
	return &flagsStage{
		name:   "education",
		source: "Образование и ВУЗ",
		prefix: "edu_",
		categories: []category{
			{"incomplete_higher", []string{"неоконченное высшее", "incomplete higher"}},
			{"higher", []string{"высшее образование", "higher education"}},
			{"secondary_special", []string{"среднее специальное", "secondary special"}},
			{"secondary", []string{"среднее образование", "secondary education"}},
		},
	}
}

func (f *flagsStage) Name() string { return f.name }

func (f *flagsStage) PreservesRows() bool { return true }

func (f *flagsStage) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !s.Table.HasColumn(f.source) {
		return fmt.Errorf("column %q not found", f.source)
	}
	return nil
}

func (f *flagsStage) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	source, err := s.Table.Column(f.source)
	if err != nil {
		return nil, err
	}

	lowered := make([]string, len(source))
	for i, v := range source {
		lowered[i] = strings.ToLower(textOf(v))
	}

	for _, cat := range f.categories {
		values := make([]dataset.Value, len(lowered))
		for i, text := range lowered {
			values[i] = dataset.Bool(containsAny(text, cat.keywords))
		}
		if err := s.Table.AddColumn(f.prefix+cat.suffix, values); err != nil {
			return nil, err
		}
	}

	s.Table.DropColumn(f.source)
	return s, nil
}
