package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

const (
	resumeUpdatedColumn = "Обновление резюме"
	autoColumn          = "Авто"

	// Free-text columns describing the last workplace and position. They
	// carry the same seniority signal as the title, so they are removed
	// without deriving features.
	lastPlaceColumn    = "Последенее/нынешнее место работы"
	lastPositionColumn = "Последеняя/нынешняя должность"

	ownCarLiteral = "Имеется собственный автомобиль"
)

// DefaultFreshnessCutoffYear separates old résumés from fresh ones. The value
// follows the dataset's collection year.
const DefaultFreshnessCutoffYear = 2018

// MiscConfig holds the tunables of the misc stage.
type MiscConfig struct {
	// FreshnessCutoffYear marks résumés updated in this year or earlier as
	// old. Zero selects the default.
	FreshnessCutoffYear int `mapstructure:"freshness-cutoff-year"`
}

type misc struct {
	cutoffYear int
}

// NewMisc creates the stage that derives the résumé-freshness and
// car-ownership flags and removes the leakage-prone last-workplace columns.
func NewMisc(cfg MiscConfig) pipeline.Stage {
	cutoff := cfg.FreshnessCutoffYear
	if cutoff <= 0 {
		cutoff = DefaultFreshnessCutoffYear
	}
	return &misc{cutoffYear: cutoff}
}

func (m *misc) Name() string { return "misc" }

func (m *misc) PreservesRows() bool { return true }

func (m *misc) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	for _, col := range []string{resumeUpdatedColumn, autoColumn} {
		if !s.Table.HasColumn(col) {
			return fmt.Errorf("column %q not found", col)
		}
	}
	return nil
}

func (m *misc) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	updated, err := s.Table.Column(resumeUpdatedColumn)
	if err != nil {
		return nil, err
	}

	old := make([]dataset.Value, len(updated))
	for i, v := range updated {
		old[i] = dataset.Bool(m.isOldResume(textOf(v)))
	}
	if err := s.Table.AddColumn("old_resume", old); err != nil {
		return nil, err
	}
	s.Table.DropColumn(resumeUpdatedColumn)

	auto, err := s.Table.Column(autoColumn)
	if err != nil {
		return nil, err
	}

	cars := make([]dataset.Value, len(auto))
	for i, v := range auto {
		cars[i] = dataset.Bool(textOf(v) == ownCarLiteral)
	}
	if err := s.Table.AddColumn("auto", cars); err != nil {
		return nil, err
	}
	s.Table.DropColumn(autoColumn)

	s.Table.DropColumn(lastPlaceColumn)
	s.Table.DropColumn(lastPositionColumn)

	return s, nil
}

// isOldResume parses the year out of a "DD.MM.YYYY HH:MM" update stamp.
// Unparseable dates count as fresh, never fail.
func (m *misc) isOldResume(raw string) bool {
	year, ok := parseUpdateYear(raw)
	if !ok {
		return false
	}
	return year <= m.cutoffYear
}

func parseUpdateYear(raw string) (int, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) < 3 {
		return 0, false
	}

	token := strings.Split(parts[2], " ")[0]
	year, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return year, true
}
