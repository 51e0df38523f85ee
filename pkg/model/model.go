// Package model decodes trained estimator artifacts and exposes them through two
// capabilities: label/value prediction, which every artifact has, and class
// probability estimation, which only classifiers have.
package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
	KindLinearRegression   = "linear_regression"
)

var (
	ErrUnknownKind     = errors.New("unknown model kind")
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Predictor is implemented by every artifact.
type Predictor interface {
	// Predict returns one output per row of x. Classifiers return the class label.
	Predict(x mat.Matrix) ([]float64, error)
	// NumFeatures is the number of columns x must have.
	NumFeatures() int
}

// ProbabilityEstimator is implemented by artifacts that can report a class distribution.
type ProbabilityEstimator interface {
	// PredictProba returns a rows(x) x len(Classes()) matrix, each row summing to 1.
	PredictProba(x mat.Matrix) (*mat.Dense, error)
	Classes() []int
}

// Artifact is a decoded, immutable model.
type Artifact interface {
	Predictor
	Kind() string
}

// Estimator returns the probability capability of a, if it has one.
func Estimator(a Artifact) (ProbabilityEstimator, bool) {
	pe, ok := a.(ProbabilityEstimator)
	return pe, ok
}

// Header is the part every artifact document shares.
type Header struct {
	Type      string `json:"kind" yaml:"kind"`
	NFeatures int    `json:"n_features" yaml:"n_features"`
}

func (h Header) Kind() string { return h.Type }

func (h Header) NumFeatures() int { return h.NFeatures }

func (h Header) validate() error {
	if h.NFeatures <= 0 {
		return invalidf("n_features must be positive, got %d", h.NFeatures)
	}
	return nil
}

func (h Header) checkInput(x mat.Matrix) error {
	_, c := x.Dims()
	if c != h.NFeatures {
		return fmt.Errorf("expected %d features, got %d", h.NFeatures, c)
	}
	return nil
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArtifact, fmt.Sprintf(format, args...))
}

func validateClasses(classes []int) error {
	if len(classes) < 2 {
		return invalidf("classifier needs at least 2 classes, got %d", len(classes))
	}
	seen := make(map[int]bool, len(classes))
	for _, c := range classes {
		if seen[c] {
			return invalidf("duplicate class %d", c)
		}
		seen[c] = true
	}
	return nil
}

// argmax returns the index of the largest value, the first one on ties.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// labelsFromProba maps each probability row to the class with the highest probability.
func labelsFromProba(proba *mat.Dense, classes []int) []float64 {
	r, _ := proba.Dims()
	labels := make([]float64, r)
	for i := 0; i < r; i++ {
		labels[i] = float64(classes[argmax(proba.RawRowView(i))])
	}
	return labels
}
