// Package classifier trains and evaluates the multiclass grade model. The
// pipeline treats it as a black box: it consumes the feature matrix and label
// vector and returns predictions plus feature-importance scores.
package classifier

import (
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/spigell/hh-grader/internal/dataset"
)

// Model is the opaque learner contract.
type Model interface {
	Fit(x *mat.Dense, y []int, numClasses int) error
	Predict(x *mat.Dense) []int
	FeatureImportances() []float64
}

// Config holds the training tunables. Zero values select the defaults.
type Config struct {
	Iterations   int     `mapstructure:"iterations"`
	LearningRate float64 `mapstructure:"learning-rate"`
	TestFraction float64 `mapstructure:"test-fraction"`
	Seed         int64   `mapstructure:"seed"`
}

const (
	defaultIterations   = 300
	defaultLearningRate = 0.1
	defaultTestFraction = 0.2
	defaultSeed         = 42
)

func (c Config) withDefaults() Config {
	if c.Iterations <= 0 {
		c.Iterations = defaultIterations
	}
	if c.LearningRate <= 0 {
		c.LearningRate = defaultLearningRate
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = defaultTestFraction
	}
	if c.Seed == 0 {
		c.Seed = defaultSeed
	}
	return c
}

// Evaluation is the held-out test result handed to the reporting collaborator.
type Evaluation struct {
	Classes     []string
	YTrue       []string
	YPred       []string
	Importances []float64
}

// TrainAndEvaluate splits the feature set into train and test parts with a
// seeded shuffle, fits the model on the train part and predicts the test part.
func TrainAndEvaluate(fs *dataset.FeatureSet, model Model, cfg Config, logger *zap.Logger) (*Evaluation, error) {
	cfg = cfg.withDefaults()

	if fs.Len() == 0 {
		return nil, fmt.Errorf("feature set is empty")
	}
	if len(fs.Target) != fs.Len() {
		return nil, fmt.Errorf("target has %d labels, matrix has %d rows", len(fs.Target), fs.Len())
	}

	classes := distinctClasses(fs.Target)
	encoded := make([]int, len(fs.Target))
	for i, label := range fs.Target {
		encoded[i] = sort.SearchStrings(classes, label)
	}

	trainIdx, testIdx := splitIndices(fs.Len(), cfg.TestFraction, cfg.Seed)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, fmt.Errorf("not enough samples to split: %d", fs.Len())
	}

	logger.Info("training the model",
		zap.Int("train_samples", len(trainIdx)),
		zap.Int("test_samples", len(testIdx)),
		zap.Int("features", len(fs.Names)),
		zap.Strings("classes", classes),
	)

	xTrain := subMatrix(fs.Matrix, trainIdx)
	yTrain := subLabels(encoded, trainIdx)

	if err := model.Fit(xTrain, yTrain, len(classes)); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	xTest := subMatrix(fs.Matrix, testIdx)
	predicted := model.Predict(xTest)

	eval := &Evaluation{
		Classes:     classes,
		YTrue:       make([]string, len(testIdx)),
		YPred:       make([]string, len(testIdx)),
		Importances: model.FeatureImportances(),
	}
	for i, idx := range testIdx {
		eval.YTrue[i] = fs.Target[idx]
		eval.YPred[i] = classes[predicted[i]]
	}

	return eval, nil
}

func distinctClasses(target []string) []string {
	seen := make(map[string]struct{})
	for _, label := range target {
		seen[label] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	return classes
}

// splitIndices shuffles row indices with the fixed seed and carves off the
// test fraction. The same seed always yields the same split.
func splitIndices(n int, testFraction float64, seed int64) (train, test []int) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testSize := int(float64(n) * testFraction)
	if testSize < 1 && n > 1 {
		testSize = 1
	}

	return indices[testSize:], indices[:testSize]
}

func subMatrix(matrix [][]float64, indices []int) *mat.Dense {
	cols := 0
	if len(matrix) > 0 {
		cols = len(matrix[0])
	}

	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		out.SetRow(i, matrix[idx])
	}
	return out
}

func subLabels(labels []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = labels[idx]
	}
	return out
}
