package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hh-grader/internal/pipeline"

	"go.uber.org/zap"
)

// TitleColumn is the raw job-title column. The IT-role filter reads it to
// select rows and the labeling stage consumes and deletes it.
const TitleColumn = "Ищет работу на должность:"

// Unambiguous IT role names.
var itRoleKeywords = []string{
	"разработчик", "developer", "программист", "programmer",
	"devops", "sre", "backend", "frontend", "fullstack", "full-stack",
	"full stack", "data scientist", "data analyst", "data engineer",
	"machine learning", "ml engineer", "deep learning",
	"qa", "тестировщик", "tester", "test engineer",
	"системный администратор", "system administrator", "sysadmin",
	"сетевой инженер", "network engineer",
	"веб-разработчик", "web developer",
	"ios", "android", "мобильный разработчик", "mobile developer",
	"1с", "1c",
	"dba", "database administrator", "администратор баз данных",
	"информационная безопасность", "information security",
	"аналитик данных", "бизнес-аналитик",
	"scrum", "agile", "product owner", "project manager",
	"ui/ux", "ux", "ui designer",
	"верстальщик", "html",
	"техническая поддержка", "technical support", "helpdesk",
}

// Technology names that imply an IT role on their own.
var itTechKeywords = []string{
	"python", "java", "javascript", "typescript", "c++", "c#",
	"golang", "go ", "rust", "ruby", "php", "swift", "kotlin",
	"react", "angular", "vue", "django", "flask", "spring",
	"docker", "kubernetes", "k8s", "terraform", "ansible",
	"aws", "azure", "gcp", "sql", "nosql", "mongodb", "postgresql",
	"linux", "unix",
	"api", "microservice", "микросервис",
}

// Ambiguous role words that count only together with an IT context word.
var itWeakKeywords = []string{
	"инженер", "engineer", "администратор", "admin",
	"аналитик", "analyst", "архитектор", "architect",
	"консультант", "consultant", "менеджер проект", "project manager",
}

var itContextKeywords = []string{
	"по", "программ", "софт", "soft", "it", "ит",
	"информац", "автоматиз", "асу", "erp", "crm", "sap",
	"devops", "cloud", "облач", "сет", "network", "систем",
	"данн", "data", "баз", "database", "cyber", "кибер",
	"техн", "tech", "цифр", "digital",
}

type itRoleFilter struct {
	logger *zap.Logger
}

// NewITRoleFilter creates the stage that keeps only résumés with an IT-related
// job title. It is the only stage allowed to drop rows.
func NewITRoleFilter(logger *zap.Logger) pipeline.Stage {
	return &itRoleFilter{logger: logger}
}

func (f *itRoleFilter) Name() string { return "it_role_filter" }

func (f *itRoleFilter) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !s.Table.HasColumn(TitleColumn) {
		return fmt.Errorf("column %q not found", TitleColumn)
	}
	return nil
}

func (f *itRoleFilter) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	titles, err := s.Table.Column(TitleColumn)
	if err != nil {
		return nil, err
	}

	initial := s.Table.Len()
	mask := make([]bool, initial)
	for i, v := range titles {
		mask[i] = isITRole(textOf(v))
	}

	filtered, err := s.Table.Keep(mask)
	if err != nil {
		return nil, err
	}

	f.logger.Info("filtered to IT roles",
		zap.Int("initial", initial),
		zap.Int("left", filtered.Len()),
	)

	s.Table = filtered
	return s, nil
}

func isITRole(title string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)

	if containsAny(lower, itRoleKeywords) {
		return true
	}
	if containsAny(lower, itTechKeywords) {
		return true
	}
	if containsAny(lower, itWeakKeywords) {
		return containsAny(lower, itContextKeywords)
	}

	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
