package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Softmax is a multinomial logistic regression trained with full-batch
// gradient descent. Weights start at zero, so training is deterministic.
type Softmax struct {
	iterations   int
	learningRate float64

	weights    *mat.Dense // (features+1) x classes, last row is the bias
	means      []float64
	stddevs    []float64
	numClasses int
}

// NewSoftmax creates the default model from the training config.
func NewSoftmax(cfg Config) *Softmax {
	cfg = cfg.withDefaults()
	return &Softmax{
		iterations:   cfg.Iterations,
		learningRate: cfg.LearningRate,
	}
}

// Fit trains the model. Labels must be in [0, numClasses).
func (s *Softmax) Fit(x *mat.Dense, y []int, numClasses int) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("empty training matrix")
	}
	if len(y) != rows {
		return fmt.Errorf("got %d labels for %d rows", len(y), rows)
	}
	if numClasses < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}
	for i, label := range y {
		if label < 0 || label >= numClasses {
			return fmt.Errorf("label %d at row %d is out of range", label, i)
		}
	}

	s.numClasses = numClasses
	s.fitScaler(x)
	scaled := s.scale(x)

	s.weights = mat.NewDense(cols+1, numClasses, nil)

	var logits, probs, grad mat.Dense
	for iter := 0; iter < s.iterations; iter++ {
		logits.Mul(scaled, s.weights)
		softmaxRows(&probs, &logits)

		// P - Y, reusing the probability matrix.
		for i, label := range y {
			probs.Set(i, label, probs.At(i, label)-1)
		}

		grad.Mul(scaled.T(), &probs)
		grad.Scale(s.learningRate/float64(rows), &grad)
		s.weights.Sub(s.weights, &grad)
	}

	return nil
}

// Predict returns the most probable class index per row.
func (s *Softmax) Predict(x *mat.Dense) []int {
	scaled := s.scale(x)

	var logits mat.Dense
	logits.Mul(scaled, s.weights)

	rows, _ := logits.Dims()
	predictions := make([]int, rows)
	for i := 0; i < rows; i++ {
		best, bestScore := 0, math.Inf(-1)
		for k := 0; k < s.numClasses; k++ {
			if score := logits.At(i, k); score > bestScore {
				best, bestScore = k, score
			}
		}
		predictions[i] = best
	}
	return predictions
}

// FeatureImportances returns the mean absolute weight per feature across
// classes, excluding the bias row. Indexes match the feature matrix columns.
func (s *Softmax) FeatureImportances() []float64 {
	if s.weights == nil {
		return nil
	}

	rows, cols := s.weights.Dims()
	importances := make([]float64, rows-1)
	for j := 0; j < rows-1; j++ {
		sum := 0.0
		for k := 0; k < cols; k++ {
			sum += math.Abs(s.weights.At(j, k))
		}
		importances[j] = sum / float64(cols)
	}
	return importances
}

// fitScaler records per-column mean and standard deviation for z-scoring.
func (s *Softmax) fitScaler(x *mat.Dense) {
	rows, cols := x.Dims()
	s.means = make([]float64, cols)
	s.stddevs = make([]float64, cols)

	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		mean := sum / float64(rows)

		variance := 0.0
		for i := 0; i < rows; i++ {
			d := x.At(i, j) - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(rows))
		if std == 0 {
			std = 1
		}

		s.means[j] = mean
		s.stddevs[j] = std
	}
}

// scale z-scores the matrix with the stored statistics and appends the bias
// column.
func (s *Softmax) scale(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.means[j])/s.stddevs[j])
		}
		out.Set(i, cols, 1)
	}
	return out
}

// softmaxRows writes the row-wise softmax of logits into dst.
func softmaxRows(dst, logits *mat.Dense) {
	rows, cols := logits.Dims()
	dst.Reset()
	dst.ReuseAs(rows, cols)

	for i := 0; i < rows; i++ {
		maxLogit := math.Inf(-1)
		for k := 0; k < cols; k++ {
			if v := logits.At(i, k); v > maxLogit {
				maxLogit = v
			}
		}

		sum := 0.0
		for k := 0; k < cols; k++ {
			e := math.Exp(logits.At(i, k) - maxLogit)
			dst.Set(i, k, e)
			sum += e
		}
		for k := 0; k < cols; k++ {
			dst.Set(i, k, dst.At(i, k)/sum)
		}
	}
}
