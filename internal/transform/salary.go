package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"

	"go.uber.org/zap"
)

const salaryColumn = "ЗП"

// Conversion rates into rubles, fixed at the dataset's base year. Every
// currency descriptor observed in the export has an entry; anything else falls
// back to rate 1.0 (never fails the row).
var defaultCurrencyRates = map[string]float64{
	"руб.":      1.0,
	"RUB":       1.0,
	"USD":       73.35,
	"EUR":       85.86,
	"KZT":       0.18,
	"бел. руб.": 2.28,
	"грн.":      2.72,
	"сум":       0.005,
	"som":       0.005,
	"KGS":       0.98,
	"UAH":       2.5,
	"BYN":       2.5,
	"AZN":       41.1,
}

type salary struct {
	rates  map[string]float64
	logger *zap.Logger
}

// NewSalary creates the stage that converts the raw salary field into a single
// ruble amount. Entries in overrides replace or extend the built-in rate table.
func NewSalary(overrides map[string]float64, logger *zap.Logger) pipeline.Stage {
	rates := make(map[string]float64, len(defaultCurrencyRates)+len(overrides))
	for currency, rate := range defaultCurrencyRates {
		rates[currency] = rate
	}
	for currency, rate := range overrides {
		rates[currency] = rate
	}

	return &salary{rates: rates, logger: logger}
}

func (s *salary) Name() string { return "salary" }

func (s *salary) PreservesRows() bool { return true }

func (s *salary) Validate(st *pipeline.State) error {
	if st.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !st.Table.HasColumn(salaryColumn) {
		return fmt.Errorf("column %q not found", salaryColumn)
	}
	return nil
}

func (s *salary) Apply(_ context.Context, st *pipeline.State) (*pipeline.State, error) {
	source, err := st.Table.Column(salaryColumn)
	if err != nil {
		return nil, err
	}

	values := make([]dataset.Value, len(source))
	for i, v := range source {
		values[i] = dataset.Number(s.normalize(textOf(v)))
	}

	if err := st.Table.AddColumn("salary_rub", values); err != nil {
		return nil, err
	}
	st.Table.DropColumn(salaryColumn)

	return st, nil
}

// normalize converts "50 000 руб." style values into rubles. Leading
// digit-only tokens accumulate into the amount; the first non-digit token
// starts the currency descriptor. An unparseable amount yields 0.0.
func (s *salary) normalize(raw string) float64 {
	amount, currency, ok := splitSalary(raw)
	if !ok {
		return 0
	}

	rate, ok := s.rates[currency]
	if !ok {
		rate = 1.0
		s.logger.Debug("unknown currency, assuming rubles", zap.String("currency", currency))
	}

	return amount * rate
}

// splitSalary parses the raw field into an amount and a currency descriptor.
func splitSalary(raw string) (float64, string, bool) {
	tokens := strings.Split(strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " ")), " ")

	var digits strings.Builder
	currency := ""
	for i, token := range tokens {
		if isDigits(token) {
			digits.WriteString(token)
			continue
		}
		currency = strings.TrimSpace(strings.Join(tokens[i:], " "))
		break
	}

	amount, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, "", false
	}
	return amount, currency, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
