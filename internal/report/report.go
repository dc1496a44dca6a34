// Package report renders the label distribution, the classification report
// and the feature-importance ranking. It only consumes pipeline and model
// outputs; nothing here feeds back into feature construction.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Distribution renders ordered label counts with percentages.
func Distribution(target []string) string {
	counts := make(map[string]int)
	for _, label := range target {
		counts[label]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	b.WriteString("Grade distribution\n")
	for _, label := range labels {
		count := counts[label]
		pct := float64(count) / float64(len(target)) * 100
		fmt.Fprintf(&b, "  %-8s %10s (%5.1f%%)\n", label, humanize.Comma(int64(count)), pct)
	}
	return b.String()
}

// Classification renders per-class precision, recall, F1 and support plus the
// overall accuracy, in fixed-width text.
func Classification(yTrue, yPred, classes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	for _, class := range classes {
		tp, fp, fn := 0, 0, 0
		for i := range yTrue {
			switch {
			case yPred[i] == class && yTrue[i] == class:
				tp++
			case yPred[i] == class:
				fp++
			case yTrue[i] == class:
				fn++
			}
		}

		precision := ratio(tp, tp+fp)
		recall := ratio(tp, tp+fn)
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		fmt.Fprintf(&b, "%-10s %9.2f %9.2f %9.2f %9d\n", class, precision, recall, f1, tp+fn)
	}

	fmt.Fprintf(&b, "\n%-10s %29.2f %9d\n", "accuracy", ratio(correct, len(yTrue)), len(yTrue))
	return b.String()
}

// TopFeatures renders the n highest-importance features, keyed by the encoded
// feature names so importances trace back to a (column, value) pair.
func TopFeatures(names []string, importances []float64, n int) string {
	type ranked struct {
		name       string
		importance float64
	}

	items := make([]ranked, 0, len(names))
	for i, name := range names {
		if i < len(importances) {
			items = append(items, ranked{name, importances[i]})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].importance > items[j].importance })

	if n > len(items) {
		n = len(items)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top-%d features by importance\n", n)
	for rank, item := range items[:n] {
		fmt.Fprintf(&b, "%2d. %-50s %.6f\n", rank+1, item.name, item.importance)
	}
	return b.String()
}

// Write assembles the sections into a single report file.
func Write(path string, sections ...string) error {
	content := strings.Join(sections, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
