package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/hh-grader/internal/ai"
	"github.com/spigell/hh-grader/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Grader asks Gemini to judge the seniority of a job title that matched none
// of the built-in keyword sets.
type Grader struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// NewGrader creates a Gemini-backed grader.
func NewGrader(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Grader {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Grader{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Grade implements ai.Grader.
func (g *Grader) Grade(ctx context.Context, title string, experienceMonths int) (*ai.GradeAssessment, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	prompt := buildPrompt(title, experienceMonths)

	g.logger.Debug("gemini grade request",
		zap.String("title", title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("gemini grade response",
		zap.String("title", title),
		zap.String("response_preview", logger.TruncateForLog(raw, g.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(title string, experienceMonths int) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Title: {{TITLE}}\nExperience months: {{EXPERIENCE_MONTHS}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{TITLE}}", title)
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE_MONTHS}}", strconv.Itoa(experienceMonths))
	return prompt
}

func parseResponse(raw string) (*ai.GradeAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var assessment ai.GradeAssessment
	if err := mapstructure.Decode(data, &assessment); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	assessment.Grade = strings.TrimSpace(assessment.Grade)
	if assessment.Grade == "" {
		return nil, fmt.Errorf("gemini response contains no grade")
	}

	return &assessment, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
