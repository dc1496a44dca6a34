package transform

import (
	"context"
	"reflect"
	"testing"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"

	"go.uber.org/zap"
)

// The full stage chain over a hand-written table, checked cell by cell.
func TestFullPipeline(t *testing.T) {
	columns := []struct {
		name  string
		cells []string
	}{
		{TitleColumn, []string{
			"Программист Python",
			"Junior разработчик",
			"Senior DevOps Engineer",
			"Врач-терапевт",
			"QA тестировщик",
		}},
		{personalColumn, []string{
			"Мужчина, 30 лет, родился 2 июня 1992",
			"Женщина, 25 лет, родилась 3 марта 1996",
			"Мужчина, 40 лет, родился 1 января 1982",
			"Мужчина, 50 лет",
			"Женщина, 22 года",
		}},
		{salaryColumn, []string{
			"100 000 руб.",
			"100 UAH",
			"",
			"1 руб.",
			"50 000 руб.",
		}},
		{experienceColumn, []string{
			"Опыт работы 5 лет 4 месяца",
			"Опыт работы 1 год",
			"Опыт работы 10 лет",
			"Опыт работы 20 лет",
			"",
		}},
		{locationColumn, []string{
			"Москва",
			"Казань",
			"Атлантида",
			"Москва",
			"Минск",
		}},
		{"Занятость", []string{
			"полная занятость",
			"частичная занятость",
			"проектная работа",
			"полная занятость",
			"стажировка",
		}},
		{"График", []string{
			"полный день",
			"удаленная работа",
			"гибкий график",
			"полный день",
			"сменный график",
		}},
		{"Образование и ВУЗ", []string{
			"Высшее образование 2014",
			"Неоконченное высшее образование",
			"Среднее специальное образование",
			"Высшее образование 1995",
			"Среднее образование",
		}},
		{resumeUpdatedColumn, []string{
			"12.04.2019 10:00",
			"01.01.2017 09:30",
			"30.12.2018 23:59",
			"15.03.2019 12:00",
			"not a date",
		}},
		{autoColumn, []string{
			ownCarLiteral,
			"",
			"",
			ownCarLiteral,
			ownCarLiteral,
		}},
	}

	table := dataset.NewTable(5)
	for _, c := range columns {
		values := make([]dataset.Value, len(c.cells))
		for i, cell := range c.cells {
			if cell == "" {
				values[i] = dataset.Missing()
				continue
			}
			values[i] = dataset.Text(cell)
		}
		if err := table.AddColumn(c.name, values); err != nil {
			t.Fatalf("adding %q: %s", c.name, err)
		}
	}

	logger := zap.NewNop()
	stages := []pipeline.Stage{
		NewITRoleFilter(logger),
		NewPersonalInfo(),
		NewSalary(nil, logger),
		NewExperience(),
		NewLabeling(GradeThresholds{}, nil, logger),
		NewLocation(),
		NewEmployment(),
		NewSchedule(),
		NewEducation(),
		NewMisc(MiscConfig{}),
		NewEncode(GradeColumn),
		NewSplit(GradeColumn),
	}

	state, err := pipeline.New(stages, logger).Run(context.Background(), &pipeline.State{Table: table})
	if err != nil {
		t.Fatalf("running the pipeline: %s", err)
	}

	fs := state.Features
	if fs == nil {
		t.Fatal("expected a feature set")
	}

	wantNames := []string{
		"gender", "age", "birthday_month", "salary_rub",
		"emp_full_time", "emp_part_time", "emp_project", "emp_internship", "emp_volunteering",
		"sch_full_day", "sch_flexible", "sch_shift", "sch_remote", "sch_rotation",
		"edu_incomplete_higher", "edu_higher", "edu_secondary_special", "edu_secondary",
		"old_resume", "auto",
		"region_Moscow & Oblast", "region_Other", "region_Volga Federal District",
	}
	if !reflect.DeepEqual(fs.Names, wantNames) {
		t.Fatalf("expected names\n%v\ngot\n%v", wantNames, fs.Names)
	}

	// The non-IT row is filtered out, the rest survive in order.
	wantTarget := []string{GradeSenior, GradeJunior, GradeSenior, GradeJunior}
	if !reflect.DeepEqual(fs.Target, wantTarget) {
		t.Fatalf("expected target %v, got %v", wantTarget, fs.Target)
	}

	wantMatrix := [][]float64{
		{0, 30, 5, 100000, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0},
		{1, 25, 2, 250, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1, 0, 0, 1, 0, 0, 0, 1},
		{0, 40, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1, 0},
		{1, 22, -1, 50000, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0},
	}
	if !reflect.DeepEqual(fs.Matrix, wantMatrix) {
		t.Fatalf("expected matrix\n%v\ngot\n%v", wantMatrix, fs.Matrix)
	}
}
