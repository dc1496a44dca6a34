package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

const personalColumn = "Пол, возраст"

// Sentinel for unknown age and birth month.
const unknownPersonal = -1

var maleLiterals = []string{"Мужчина", "Male"}

// Month names in both languages, mapped to a 0-11 index.
var birthMonths = map[string]int{
	"January": 0, "января": 0, "February": 1, "февраля": 1,
	"March": 2, "марта": 2, "April": 3, "апреля": 3,
	"May": 4, "мая": 4, "June": 5, "июня": 5,
	"July": 6, "июля": 6, "August": 7, "августа": 7,
	"September": 8, "сентября": 8, "October": 9, "октября": 9,
	"November": 10, "ноября": 10, "December": 11, "декабря": 11,
}

type personalInfo struct{}

// NewPersonalInfo creates the stage that splits the composite gender/age/birth
// field into gender, age and birthday_month columns.
func NewPersonalInfo() pipeline.Stage {
	return &personalInfo{}
}

func (p *personalInfo) Name() string { return "personal_info" }

func (p *personalInfo) PreservesRows() bool { return true }

func (p *personalInfo) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !s.Table.HasColumn(personalColumn) {
		return fmt.Errorf("column %q not found", personalColumn)
	}
	return nil
}

func (p *personalInfo) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	source, err := s.Table.Column(personalColumn)
	if err != nil {
		return nil, err
	}

	genders := make([]dataset.Value, len(source))
	ages := make([]dataset.Value, len(source))
	months := make([]dataset.Value, len(source))

	for i, v := range source {
		raw := textOf(v)
		genders[i] = dataset.Number(float64(parseGender(raw)))

		age, ok := parseAge(raw)
		if !ok {
			age = unknownPersonal
		}
		ages[i] = dataset.Number(float64(age))

		month, ok := parseBirthMonth(raw)
		if !ok {
			month = unknownPersonal
		}
		months[i] = dataset.Number(float64(month))
	}

	if err := s.Table.AddColumn("gender", genders); err != nil {
		return nil, err
	}
	if err := s.Table.AddColumn("age", ages); err != nil {
		return nil, err
	}
	if err := s.Table.AddColumn("birthday_month", months); err != nil {
		return nil, err
	}
	s.Table.DropColumn(personalColumn)

	return s, nil
}

// parseGender returns 0 for a leading male literal, 1 otherwise.
func parseGender(raw string) int {
	gender := strings.TrimSpace(strings.SplitN(raw, ",", 2)[0])
	for _, male := range maleLiterals {
		if gender == male {
			return 0
		}
	}
	return 1
}

// parseAge extracts the age in years from the second comma token.
func parseAge(raw string) (int, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) < 2 {
		return 0, false
	}

	token := normalizeSpaces(parts[1])
	fields := strings.Split(token, " ")
	age, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return age, true
}

// parseBirthMonth extracts the month index from the third comma token, where
// the month name is the second-to-last word ("родился 2 июня 1982").
func parseBirthMonth(raw string) (int, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) < 3 {
		return 0, false
	}

	fields := strings.Split(normalizeSpaces(parts[2]), " ")
	if len(fields) < 2 {
		return 0, false
	}

	month, ok := birthMonths[fields[len(fields)-2]]
	if !ok {
		return 0, false
	}
	return month, true
}

// normalizeSpaces trims the token and replaces non-breaking spaces, which the
// export uses between a number and its unit.
func normalizeSpaces(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
